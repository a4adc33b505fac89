package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"
	contextutils "lexiquiz/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type gameHandlerFixture struct {
	router    *gin.Engine
	engine    *mockSessionEngine
	validator *mockSentenceValidator
	reading   *mockReadingService
}

func newGameHandlerFixture() *gameHandlerFixture {
	gin.SetMode(gin.TestMode)
	f := &gameHandlerFixture{
		engine:    new(mockSessionEngine),
		validator: new(mockSentenceValidator),
		reading:   new(mockReadingService),
	}
	h := NewGameHandler(f.engine, f.validator, f.reading, observability.NewNopLogger())

	f.router = gin.New()
	f.router.POST("/v1/games/start", h.StartGame)
	f.router.POST("/v1/games/retry-wrong", h.RetryWrong)
	f.router.POST("/v1/games/check-sentence", h.CheckSentence)
	f.router.POST("/v1/games/generate-reading", h.GenerateReading)
	return f
}

func (f *gameHandlerFixture) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGameHandler_StartGame_Quiz(t *testing.T) {
	f := newGameHandlerFixture()
	session := &models.GameSession{
		GameResultID: 55,
		Kind:         models.SessionKindQuiz,
		Questions: []models.QuizQuestion{
			{VocabularyID: 1, Word: "apple", Options: []string{"quả táo", "con chó"}, CorrectAnswer: "quả táo"},
		},
	}
	f.engine.On("Start", mock.Anything, services.StartRequest{UserID: 1, FolderID: 10, GameType: "quiz", SubType: "en_vi"}).
		Return(session, nil)

	w := f.post(t, "/v1/games/start", gin.H{"userId": 1, "folderId": 10, "gameType": "quiz", "subType": "en_vi"})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		GameResultID int64                 `json:"gameResultId"`
		Questions    []models.QuizQuestion `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(55), body.GameResultID)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, "quả táo", body.Questions[0].CorrectAnswer)
}

func TestGameHandler_StartGame_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		engineErr  error
		wantStatus int
	}{
		{name: "malformed json", body: "{", wantStatus: http.StatusBadRequest},
		{name: "missing game type", body: gin.H{"userId": 1, "folderId": 10}, wantStatus: http.StatusBadRequest},
		{name: "zero folder", body: gin.H{"userId": 1, "folderId": 0, "gameType": "quiz"}, wantStatus: http.StatusBadRequest},
		{name: "empty folder", body: gin.H{"userId": 1, "folderId": 10, "gameType": "quiz"}, engineErr: contextutils.ErrNoVocabulary, wantStatus: http.StatusBadRequest},
		{name: "too few words", body: gin.H{"userId": 1, "folderId": 10, "gameType": "quiz"}, engineErr: contextutils.ErrInsufficientVocabulary, wantStatus: http.StatusBadRequest},
		{name: "database failure", body: gin.H{"userId": 1, "folderId": 10, "gameType": "quiz"}, engineErr: contextutils.WrapError(errors.New("conn reset"), "failed to upsert active session"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGameHandlerFixture()
			if tt.engineErr != nil {
				f.engine.On("Start", mock.Anything, mock.Anything).Return(nil, tt.engineErr)
			}

			w := f.post(t, "/v1/games/start", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.engineErr == nil {
				f.engine.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGameHandler_RetryWrong(t *testing.T) {
	f := newGameHandlerFixture()
	session := &models.GameSession{GameResultID: 77, Kind: models.SessionKindFlashcard, Vocabularies: []models.VocabularyDetail{{ID: 3, Word: "blue"}}}
	f.engine.On("Retry", mock.Anything, int64(55)).Return(session, nil)

	w := f.post(t, "/v1/games/retry-wrong", gin.H{"gameResultId": 55})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(77), body["gameResultId"])
	assert.Len(t, body["vocabularies"], 1)
}

func TestGameHandler_RetryWrong_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown session", contextutils.WrapErrorf(contextutils.ErrSessionNotFound, "game result %d", 55), http.StatusNotFound},
		{"nothing to retry", contextutils.ErrNothingToRetry, http.StatusBadRequest},
		{"corrupted wrong list", contextutils.WithCause(contextutils.ErrWrongListDecode, errors.New("invalid character")), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGameHandlerFixture()
			f.engine.On("Retry", mock.Anything, int64(55)).Return(nil, tt.err)

			w := f.post(t, "/v1/games/retry-wrong", gin.H{"gameResultId": 55})
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGameHandler_CheckSentence(t *testing.T) {
	f := newGameHandlerFixture()
	f.validator.On("CheckVocabularySentence", mock.Anything, int64(7), "I can't find the river.").
		Return(&models.SentenceCheckResult{IsCorrect: true, Feedback: "Correct!", Stage: models.StagePassed}, nil)

	w := f.post(t, "/v1/games/check-sentence", gin.H{"vocabularyId": 7, "userAnswer": "I can't find the river."})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isCorrect":true,"feedback":"Correct!"}`, w.Body.String())
}

func TestGameHandler_CheckSentence_UnknownVocabulary(t *testing.T) {
	f := newGameHandlerFixture()
	f.validator.On("CheckVocabularySentence", mock.Anything, int64(7), "Hello there.").
		Return(nil, contextutils.WrapErrorf(contextutils.ErrVocabularyNotFound, "vocabulary %d", 7))

	w := f.post(t, "/v1/games/check-sentence", gin.H{"vocabularyId": 7, "userAnswer": "Hello there."})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameHandler_CheckSentence_BlankAnswer(t *testing.T) {
	f := newGameHandlerFixture()

	w := f.post(t, "/v1/games/check-sentence", gin.H{"vocabularyId": 7, "userAnswer": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.validator.AssertNotCalled(t, "CheckVocabularySentence", mock.Anything, mock.Anything, mock.Anything)
}

func TestGameHandler_GenerateReading(t *testing.T) {
	f := newGameHandlerFixture()
	content := &models.ReadingContent{
		Story: "Anna found a small cat.",
		Questions: []models.ReadingQuestion{
			{Question: "What did Anna find?", Options: []string{"A dog", "A cat", "A bird"}, Answer: "A cat"},
		},
	}
	f.reading.On("GetOrGenerate", mock.Anything, int64(10), 3, "pets").Return(content, nil)

	w := f.post(t, "/v1/games/generate-reading", gin.H{"folderId": 10, "level": 3, "topic": "pets"})

	require.Equal(t, http.StatusOK, w.Code)
	var body models.ReadingContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, *content, body)
}

func TestGameHandler_GenerateReading_UnrecognizedLevels(t *testing.T) {
	content := &models.ReadingContent{Story: "A story.", Questions: []models.ReadingQuestion{}}

	for _, level := range []int{0, 6, 42} {
		t.Run(fmt.Sprintf("level %d", level), func(t *testing.T) {
			f := newGameHandlerFixture()
			f.reading.On("GetOrGenerate", mock.Anything, int64(10), level, "pets").Return(content, nil)

			w := f.post(t, "/v1/games/generate-reading", gin.H{"folderId": 10, "level": level, "topic": "pets"})

			assert.Equal(t, http.StatusOK, w.Code)
			f.reading.AssertExpectations(t)
		})
	}
}

func TestGameHandler_GenerateReading_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       gin.H
		err        error
		wantStatus int
	}{
		{name: "missing folder", body: gin.H{"level": 2, "topic": "pets"}, wantStatus: http.StatusBadRequest},
		{name: "missing topic", body: gin.H{"folderId": 10, "level": 2}, wantStatus: http.StatusBadRequest},
		{name: "generation unavailable", body: gin.H{"folderId": 10, "level": 2, "topic": "pets"}, err: contextutils.ErrGenerationUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "empty folder", body: gin.H{"folderId": 10, "level": 2, "topic": "pets"}, err: contextutils.ErrNoVocabulary, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGameHandlerFixture()
			if tt.err != nil {
				f.reading.On("GetOrGenerate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := f.post(t, "/v1/games/generate-reading", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
