package services

import (
	"context"
	"encoding/json"
	"testing"

	"lexiquiz/internal/config"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSessionEngine() (*SessionEngine, *MockVocabularyStore, *MockSessionStore) {
	vocabulary := &MockVocabularyStore{}
	sessions := &MockSessionStore{}
	shuffle := seededShuffler(5)
	engine := NewSessionEngine(
		vocabulary,
		sessions,
		NewQuizBuilder(NewDistractorSampler(shuffle), shuffle, config.DefaultDistractorCount),
		NewRetryBackfillPolicy(shuffle),
		config.GameConfig{QuizMinPool: 4, DistractorCount: 3},
		observability.NewNopMetrics(),
		observability.NewNopLogger(),
	)
	return engine, vocabulary, sessions
}

func TestSessionEngine_Start_Quiz(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(testVocabulary(), nil)
	sessions.On("UpsertActive", mock.Anything, int64(1), int64(10), "quiz").
		Return(&models.SessionRecord{ID: 55, UserID: 1, FolderID: 10, GameType: "quiz", WrongAnswers: "[]"}, nil)

	session, err := engine.Start(context.Background(), StartRequest{UserID: 1, FolderID: 10, GameType: "quiz"})

	require.NoError(t, err)
	assert.Equal(t, int64(55), session.GameResultID)
	assert.Equal(t, models.SessionKindQuiz, session.Kind)
	assert.Len(t, session.Questions, 4)
	assert.Nil(t, session.Vocabularies)
	sessions.AssertExpectations(t)
}

func TestSessionEngine_Start_ReverseQuiz(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(testVocabulary(), nil)
	sessions.On("UpsertActive", mock.Anything, int64(1), int64(10), "quiz_vi_en").
		Return(&models.SessionRecord{ID: 56, GameType: "quiz_vi_en"}, nil)

	session, err := engine.Start(context.Background(), StartRequest{UserID: 1, FolderID: 10, GameType: "quiz", SubType: "vi_en"})

	require.NoError(t, err)
	assert.Equal(t, models.SessionKindReverseQuiz, session.Kind)
	assert.Len(t, session.ReverseQuestions, 4)

	data, err := json.Marshal(session)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gameResultId":56`)
	assert.Contains(t, string(data), `"userDefinedMeaning"`)
}

func TestSessionEngine_Start_FlashcardSmallFolder(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(itemsWithIDs(1, 2), nil)
	sessions.On("UpsertActive", mock.Anything, int64(1), int64(10), "flashcard").
		Return(&models.SessionRecord{ID: 3, GameType: "flashcard"}, nil)

	session, err := engine.Start(context.Background(), StartRequest{UserID: 1, FolderID: 10, GameType: "flashcard"})

	require.NoError(t, err)
	assert.Equal(t, models.SessionKindFlashcard, session.Kind)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{session.Vocabularies[0].ID, session.Vocabularies[1].ID})
}

func TestSessionEngine_Start_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      StartRequest
		pool     []models.VocabularyItem
		expected *contextutils.AppError
	}{
		{"empty folder", StartRequest{UserID: 1, FolderID: 10, GameType: "flashcard"}, []models.VocabularyItem{}, contextutils.ErrNoVocabulary},
		{"quiz needs four items", StartRequest{UserID: 1, FolderID: 10, GameType: "quiz"}, itemsWithIDs(1, 2, 3), contextutils.ErrInsufficientVocabulary},
		{"reverse quiz needs four items", StartRequest{UserID: 1, FolderID: 10, GameType: "quiz", SubType: "vi_en"}, itemsWithIDs(1), contextutils.ErrInsufficientVocabulary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, vocabulary, sessions := newTestSessionEngine()
			vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(tt.pool, nil)

			session, err := engine.Start(context.Background(), tt.req)

			assert.Nil(t, session)
			assert.ErrorIs(t, err, tt.expected)
			sessions.AssertNotCalled(t, "UpsertActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSessionEngine_Start_RejectsRetryTag(t *testing.T) {
	engine, vocabulary, _ := newTestSessionEngine()

	_, err := engine.Start(context.Background(), StartRequest{UserID: 1, FolderID: 10, GameType: "retry_quiz"})

	assert.ErrorIs(t, err, contextutils.ErrInvalidInput)
	vocabulary.AssertNotCalled(t, "ListByFolder", mock.Anything, mock.Anything)
}

func TestSessionEngine_Retry_QuizBackfills(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	prior := &models.SessionRecord{ID: 55, UserID: 1, FolderID: 10, GameType: "quiz", WrongCount: 2, WrongAnswers: "[3,1]"}
	sessions.On("FindByID", mock.Anything, int64(55)).Return(prior, nil)
	vocabulary.On("ListByIDs", mock.Anything, []int64{3, 1}).Return([]models.VocabularyItem{testVocabulary()[0], testVocabulary()[2]}, nil)
	vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(testVocabulary()[:4], nil)
	sessions.On("Save", mock.Anything, mock.MatchedBy(func(r *models.SessionRecord) bool {
		return r.GameType == "retry_quiz" && r.UserID == 1 && r.FolderID == 10 &&
			r.CorrectCount == 0 && r.WrongCount == 0 && r.WrongAnswers == "[]"
	})).Return(&models.SessionRecord{ID: 77, GameType: "retry_quiz"}, nil)

	session, err := engine.Retry(context.Background(), 55)

	require.NoError(t, err)
	assert.Equal(t, int64(77), session.GameResultID)
	assert.Equal(t, models.SessionKindQuiz, session.Kind)
	require.Len(t, session.Questions, 4)
	ids := map[int64]bool{}
	for _, q := range session.Questions {
		ids[q.VocabularyID] = true
	}
	assert.True(t, ids[1] && ids[3])

	// prior record is never written
	sessions.AssertNotCalled(t, "UpdateOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "[3,1]", prior.WrongAnswers)
	sessions.AssertExpectations(t)
}

func TestSessionEngine_Retry_ReverseFromRetryTag(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	sessions.On("FindByID", mock.Anything, int64(8)).
		Return(&models.SessionRecord{ID: 8, UserID: 1, FolderID: 10, GameType: "retry_quiz_vi_en", WrongAnswers: "[2,4,1,3]"}, nil)
	vocabulary.On("ListByIDs", mock.Anything, []int64{2, 4, 1, 3}).Return(testVocabulary()[:4], nil)
	vocabulary.On("ListByFolder", mock.Anything, int64(10)).Return(testVocabulary(), nil)
	sessions.On("Save", mock.Anything, mock.MatchedBy(func(r *models.SessionRecord) bool {
		return r.GameType == "retry_retry_quiz_vi_en"
	})).Return(&models.SessionRecord{ID: 9, GameType: "retry_retry_quiz_vi_en"}, nil)

	session, err := engine.Retry(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, models.SessionKindReverseQuiz, session.Kind)
	assert.Len(t, session.ReverseQuestions, 4)
}

func TestSessionEngine_Retry_FlashcardSkipsMissingAndDoesNotBackfill(t *testing.T) {
	engine, vocabulary, sessions := newTestSessionEngine()
	sessions.On("FindByID", mock.Anything, int64(4)).
		Return(&models.SessionRecord{ID: 4, UserID: 1, FolderID: 10, GameType: "flashcard", WrongAnswers: "[6,99]"}, nil)
	vocabulary.On("ListByIDs", mock.Anything, []int64{6, 99}).Return(itemsWithIDs(6), nil)
	sessions.On("Save", mock.Anything, mock.Anything).Return(&models.SessionRecord{ID: 5, GameType: "retry_flashcard"}, nil)

	session, err := engine.Retry(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, models.SessionKindFlashcard, session.Kind)
	require.Len(t, session.Vocabularies, 1)
	assert.Equal(t, int64(6), session.Vocabularies[0].ID)
	vocabulary.AssertNotCalled(t, "ListByFolder", mock.Anything, mock.Anything)
}

func TestSessionEngine_Retry_Errors(t *testing.T) {
	tests := []struct {
		name     string
		record   *models.SessionRecord
		expected *contextutils.AppError
	}{
		{"missing session", nil, contextutils.ErrSessionNotFound},
		{"empty wrong list", &models.SessionRecord{ID: 1, GameType: "quiz", WrongAnswers: "[]"}, contextutils.ErrNothingToRetry},
		{"blank wrong list", &models.SessionRecord{ID: 1, GameType: "quiz", WrongAnswers: ""}, contextutils.ErrNothingToRetry},
		{"corrupted wrong list", &models.SessionRecord{ID: 1, GameType: "quiz", WrongAnswers: "[1,"}, contextutils.ErrWrongListDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, vocabulary, sessions := newTestSessionEngine()
			if tt.record == nil {
				sessions.On("FindByID", mock.Anything, int64(1)).Return(nil, nil)
			} else {
				sessions.On("FindByID", mock.Anything, int64(1)).Return(tt.record, nil)
			}

			session, err := engine.Retry(context.Background(), 1)

			assert.Nil(t, session)
			assert.ErrorIs(t, err, tt.expected)
			vocabulary.AssertNotCalled(t, "ListByIDs", mock.Anything, mock.Anything)
			sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestSessionEngine_RecordOutcome(t *testing.T) {
	engine, _, sessions := newTestSessionEngine()
	updated := &models.SessionRecord{ID: 55, CorrectCount: 3, WrongCount: 2, WrongAnswers: "[4,9]"}
	sessions.On("UpdateOutcome", mock.Anything, int64(55), 3, 2, "[4,9]").Return(updated, nil)

	record, err := engine.RecordOutcome(context.Background(), 55, 3, 2, []int64{4, 9})

	require.NoError(t, err)
	assert.Equal(t, updated, record)
}

func TestSessionEngine_RecordOutcome_EmptyList(t *testing.T) {
	engine, _, sessions := newTestSessionEngine()
	sessions.On("UpdateOutcome", mock.Anything, int64(55), 5, 0, "[]").Return(&models.SessionRecord{ID: 55}, nil)

	_, err := engine.RecordOutcome(context.Background(), 55, 5, 0, nil)
	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestSessionEngine_RecordOutcome_Errors(t *testing.T) {
	engine, _, sessions := newTestSessionEngine()
	sessions.On("UpdateOutcome", mock.Anything, int64(404), 1, 1, "[2]").Return(nil, nil)

	_, err := engine.RecordOutcome(context.Background(), 404, 1, 1, []int64{2})
	assert.ErrorIs(t, err, contextutils.ErrSessionNotFound)

	_, err = engine.RecordOutcome(context.Background(), 1, -1, 0, nil)
	assert.ErrorIs(t, err, contextutils.ErrInvalidInput)
}

func TestSessionEngine_ListWithWrongAnswers(t *testing.T) {
	engine, _, sessions := newTestSessionEngine()
	sessions.On("ListWithWrongAnswers", mock.Anything, int64(1)).Return(nil, nil)

	records, err := engine.ListWithWrongAnswers(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
