package handlers

import (
	"context"

	"lexiquiz/internal/models"
	"lexiquiz/internal/services"

	"github.com/stretchr/testify/mock"
)

type mockSessionEngine struct {
	mock.Mock
}

func (m *mockSessionEngine) Start(ctx context.Context, req services.StartRequest) (*models.GameSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *mockSessionEngine) Retry(ctx context.Context, priorSessionID int64) (*models.GameSession, error) {
	args := m.Called(ctx, priorSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *mockSessionEngine) RecordOutcome(ctx context.Context, sessionID int64, correct, wrong int, wrongIDs []int64) (*models.SessionRecord, error) {
	args := m.Called(ctx, sessionID, correct, wrong, wrongIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *mockSessionEngine) ListWithWrongAnswers(ctx context.Context, userID int64) ([]models.SessionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

type mockSentenceValidator struct {
	mock.Mock
}

func (m *mockSentenceValidator) Validate(ctx context.Context, sentence, keyword string) *models.SentenceCheckResult {
	args := m.Called(ctx, sentence, keyword)
	return args.Get(0).(*models.SentenceCheckResult)
}

func (m *mockSentenceValidator) CheckVocabularySentence(ctx context.Context, vocabularyID int64, sentence string) (*models.SentenceCheckResult, error) {
	args := m.Called(ctx, vocabularyID, sentence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SentenceCheckResult), args.Error(1)
}

type mockReadingService struct {
	mock.Mock
}

func (m *mockReadingService) GetOrGenerate(ctx context.Context, folderID int64, level int, topic string) (*models.ReadingContent, error) {
	args := m.Called(ctx, folderID, level, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingContent), args.Error(1)
}
