package services

import (
	"context"

	"lexiquiz/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockVocabularyStore is a mock implementation of VocabularyStore
type MockVocabularyStore struct {
	mock.Mock
}

func (m *MockVocabularyStore) ListByFolder(ctx context.Context, folderID int64) ([]models.VocabularyItem, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyStore) ListByIDs(ctx context.Context, ids []int64) ([]models.VocabularyItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VocabularyItem), args.Error(1)
}

func (m *MockVocabularyStore) FindByID(ctx context.Context, id int64) (*models.VocabularyItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VocabularyItem), args.Error(1)
}

// MockSessionStore is a mock implementation of SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) FindActive(ctx context.Context, userID, folderID int64, gameType string) (*models.SessionRecord, error) {
	args := m.Called(ctx, userID, folderID, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionStore) UpsertActive(ctx context.Context, userID, folderID int64, gameType string) (*models.SessionRecord, error) {
	args := m.Called(ctx, userID, folderID, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, record *models.SessionRecord) (*models.SessionRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionStore) FindByID(ctx context.Context, id int64) (*models.SessionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionStore) UpdateOutcome(ctx context.Context, id int64, correct, wrong int, wrongAnswers string) (*models.SessionRecord, error) {
	args := m.Called(ctx, id, correct, wrong, wrongAnswers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockSessionStore) ListWithWrongAnswers(ctx context.Context, userID int64) ([]models.SessionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

// MockContentCache is a mock implementation of ContentCache
type MockContentCache struct {
	mock.Mock
}

func (m *MockContentCache) Find(ctx context.Context, folderID int64, level int, topic string) (*models.CachedContent, error) {
	args := m.Called(ctx, folderID, level, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedContent), args.Error(1)
}

func (m *MockContentCache) Save(ctx context.Context, content *models.CachedContent) (*models.CachedContent, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CachedContent), args.Error(1)
}

// MockCompletenessVerifier is a mock implementation of CompletenessVerifier
type MockCompletenessVerifier struct {
	mock.Mock
}

func (m *MockCompletenessVerifier) IsComplete(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}

// MockGrammarChecker is a mock implementation of GrammarChecker
type MockGrammarChecker struct {
	mock.Mock
}

func (m *MockGrammarChecker) Check(ctx context.Context, sentence string) []string {
	args := m.Called(ctx, sentence)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// MockReadingContentGenerator is a mock implementation of ReadingContentGenerator
type MockReadingContentGenerator struct {
	mock.Mock
}

func (m *MockReadingContentGenerator) Generate(ctx context.Context, words []string, level int, topic string) (*models.ReadingContent, error) {
	args := m.Called(ctx, words, level, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingContent), args.Error(1)
}

// stubTagger returns fixed tags and records the text it was asked to tag
type stubTagger struct {
	tokens []TaggedToken
	err    error
	seen   []string
}

func (s *stubTagger) Tag(text string) ([]TaggedToken, error) {
	s.seen = append(s.seen, text)
	return s.tokens, s.err
}

func strPtr(s string) *string {
	return &s
}
