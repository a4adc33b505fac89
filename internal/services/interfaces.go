package services

import (
	"context"

	"lexiquiz/internal/models"
)

// VocabularyStore reads vocabulary items with their meanings and definitions
type VocabularyStore interface {
	// ListByFolder returns every item in the folder, ordered by id
	ListByFolder(ctx context.Context, folderID int64) ([]models.VocabularyItem, error)
	// ListByIDs returns the items that exist among ids, in no particular order
	ListByIDs(ctx context.Context, ids []int64) ([]models.VocabularyItem, error)
	// FindByID returns nil, nil when the item does not exist
	FindByID(ctx context.Context, id int64) (*models.VocabularyItem, error)
}

// SessionStore persists game results. Find methods return nil, nil when nothing matches.
type SessionStore interface {
	FindActive(ctx context.Context, userID, folderID int64, gameType string) (*models.SessionRecord, error)
	// UpsertActive creates the active session for (user, folder, game type) or resets the existing one
	UpsertActive(ctx context.Context, userID, folderID int64, gameType string) (*models.SessionRecord, error)
	// Save inserts a new record
	Save(ctx context.Context, record *models.SessionRecord) (*models.SessionRecord, error)
	FindByID(ctx context.Context, id int64) (*models.SessionRecord, error)
	// UpdateOutcome returns nil, nil when the record does not exist
	UpdateOutcome(ctx context.Context, id int64, correct, wrong int, wrongAnswers string) (*models.SessionRecord, error)
	ListWithWrongAnswers(ctx context.Context, userID int64) ([]models.SessionRecord, error)
}

// ContentCache stores generated reading content keyed by (folder, level, topic)
type ContentCache interface {
	// Find returns nil, nil on a miss
	Find(ctx context.Context, folderID int64, level int, topic string) (*models.CachedContent, error)
	// Save stores content and returns the persisted row. When a row for the key
	// already exists it is returned unchanged.
	Save(ctx context.Context, content *models.CachedContent) (*models.CachedContent, error)
}

// POSTagger assigns Penn Treebank tags to the tokens of a text
type POSTagger interface {
	Tag(text string) ([]TaggedToken, error)
}

// TaggedToken is one token with its part-of-speech tag
type TaggedToken struct {
	Text string
	Tag  string
}

// CompletenessVerifier decides whether a text reads as a complete sentence
type CompletenessVerifier interface {
	IsComplete(ctx context.Context, text string) (bool, error)
}

// GrammarChecker returns human readable grammar issues, empty when none were found
type GrammarChecker interface {
	Check(ctx context.Context, sentence string) []string
}

// ReadingContentGenerator produces a story with comprehension questions
type ReadingContentGenerator interface {
	Generate(ctx context.Context, words []string, level int, topic string) (*models.ReadingContent, error)
}

// SentenceValidatorInterface is the sentence checking surface used by handlers and the CLI
type SentenceValidatorInterface interface {
	Validate(ctx context.Context, sentence, keyword string) *models.SentenceCheckResult
	CheckVocabularySentence(ctx context.Context, vocabularyID int64, sentence string) (*models.SentenceCheckResult, error)
}

// SessionEngineInterface is the game session surface used by handlers
type SessionEngineInterface interface {
	Start(ctx context.Context, req StartRequest) (*models.GameSession, error)
	Retry(ctx context.Context, priorSessionID int64) (*models.GameSession, error)
	RecordOutcome(ctx context.Context, sessionID int64, correct, wrong int, wrongIDs []int64) (*models.SessionRecord, error)
	ListWithWrongAnswers(ctx context.Context, userID int64) ([]models.SessionRecord, error)
}

// ReadingContentServiceInterface returns cached or freshly generated reading content
type ReadingContentServiceInterface interface {
	GetOrGenerate(ctx context.Context, folderID int64, level int, topic string) (*models.ReadingContent, error)
}
