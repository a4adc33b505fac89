package services

import (
	"context"

	"lexiquiz/internal/config"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"go.opentelemetry.io/otel/attribute"
)

// StartRequest identifies the game a user wants to play
type StartRequest struct {
	UserID   int64
	FolderID int64
	GameType string
	SubType  string
}

// SessionEngine starts games, replays missed items and records outcomes
type SessionEngine struct {
	vocabulary  VocabularyStore
	sessions    SessionStore
	builder     *QuizBuilder
	backfill    *RetryBackfillPolicy
	quizMinPool int
	metrics     *observability.Metrics
	logger      *observability.Logger
}

// NewSessionEngine wires the engine. metrics may be nil.
func NewSessionEngine(
	vocabulary VocabularyStore,
	sessions SessionStore,
	builder *QuizBuilder,
	backfill *RetryBackfillPolicy,
	cfg config.GameConfig,
	metrics *observability.Metrics,
	logger *observability.Logger,
) *SessionEngine {
	minPool := cfg.QuizMinPool
	if minPool <= 0 {
		minPool = config.DefaultQuizMinPool
	}
	return &SessionEngine{
		vocabulary:  vocabulary,
		sessions:    sessions,
		builder:     builder,
		backfill:    backfill,
		quizMinPool: minPool,
		metrics:     metrics,
		logger:      logger,
	}
}

// Start resets the user's active session for the game and returns a fresh question set
func (e *SessionEngine) Start(ctx context.Context, req StartRequest) (result *models.GameSession, err error) {
	ctx, span := observability.TraceSessionFunction(ctx, "start",
		observability.AttributeUserID(req.UserID),
		observability.AttributeFolderID(req.FolderID),
		observability.AttributeGameType(req.GameType),
		attribute.String("game.sub_type", req.SubType),
	)
	defer observability.FinishSpan(span, &err)

	if !contextutils.IsValidGameType(req.GameType) || (req.SubType != "" && !contextutils.IsValidGameType(req.SubType)) {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "invalid game type %q", ComposeGameType(req.GameType, req.SubType))
	}

	pool, err := e.vocabulary.ListByFolder(ctx, req.FolderID)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to load vocabulary for folder %d", req.FolderID)
	}
	if len(pool) == 0 {
		return nil, contextutils.WrapErrorf(contextutils.ErrNoVocabulary, "folder %d is empty", req.FolderID)
	}

	tag := ComposeGameType(req.GameType, req.SubType)
	kind := SessionKind(tag)
	if kind != models.SessionKindFlashcard && len(pool) < e.quizMinPool {
		return nil, contextutils.WrapErrorf(contextutils.ErrInsufficientVocabulary,
			"folder %d has %d items, need %d", req.FolderID, len(pool), e.quizMinPool)
	}

	record, err := e.sessions.UpsertActive(ctx, req.UserID, req.FolderID, tag)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to reset session for %s", tag)
	}

	span.SetAttributes(
		observability.AttributeSessionID(record.ID),
		attribute.String("game.kind", kind),
		attribute.Int("game.pool_size", len(pool)),
	)
	e.metrics.RecordSessionStarted(ctx, tag, kind)
	e.logger.Info(ctx, "Game session started", map[string]interface{}{
		"game_result_id": record.ID,
		"user_id":        req.UserID,
		"folder_id":      req.FolderID,
		"game_type":      tag,
		"kind":           kind,
		"pool_size":      len(pool),
	})

	return e.dispatch(record.ID, kind, pool), nil
}

// Retry creates a new session over the items missed in an earlier one. The earlier record is left untouched.
func (e *SessionEngine) Retry(ctx context.Context, priorSessionID int64) (result *models.GameSession, err error) {
	ctx, span := observability.TraceSessionFunction(ctx, "retry",
		observability.AttributeSessionID(priorSessionID),
	)
	defer observability.FinishSpan(span, &err)

	prior, err := e.sessions.FindByID(ctx, priorSessionID)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to load game result %d", priorSessionID)
	}
	if prior == nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrSessionNotFound, "game result %d not found", priorSessionID)
	}

	wrongIDs, err := prior.DecodeWrongAnswers()
	if err != nil {
		e.logger.Error(ctx, "Stored wrong-answer list is malformed", err, map[string]interface{}{
			"game_result_id": priorSessionID,
			"wrong_answers":  prior.WrongAnswers,
		})
		return nil, contextutils.WithCause(contextutils.ErrWrongListDecode, err)
	}
	if len(wrongIDs) == 0 {
		return nil, contextutils.WrapErrorf(contextutils.ErrNothingToRetry, "game result %d has no wrong answers", priorSessionID)
	}

	found, err := e.vocabulary.ListByIDs(ctx, wrongIDs)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to load missed vocabulary")
	}
	items := orderByIDs(found, wrongIDs)

	kind := SessionKind(prior.GameType)
	if kind != models.SessionKindFlashcard {
		pool, err := e.vocabulary.ListByFolder(ctx, prior.FolderID)
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to load vocabulary for folder %d", prior.FolderID)
		}
		items = e.backfill.Backfill(items, pool, e.quizMinPool)
	}

	record, err := e.sessions.Save(ctx, &models.SessionRecord{
		UserID:       prior.UserID,
		FolderID:     prior.FolderID,
		GameType:     models.RetryPrefix + prior.GameType,
		WrongAnswers: models.EmptyWrongAnswers,
	})
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to save retry session")
	}

	span.SetAttributes(
		attribute.Int64("game.retry_session_id", record.ID),
		attribute.String("game.kind", kind),
		attribute.Int("game.wrong_count", len(wrongIDs)),
		attribute.Int("game.item_count", len(items)),
	)
	e.metrics.RecordSessionStarted(ctx, record.GameType, kind)
	e.logger.Info(ctx, "Retry session started", map[string]interface{}{
		"game_result_id":  record.ID,
		"prior_result_id": priorSessionID,
		"game_type":       record.GameType,
		"kind":            kind,
		"item_count":      len(items),
	})

	return e.dispatch(record.ID, kind, items), nil
}

// RecordOutcome replaces the counters and the wrong-answer list of a session
func (e *SessionEngine) RecordOutcome(ctx context.Context, sessionID int64, correct, wrong int, wrongIDs []int64) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceSessionFunction(ctx, "record_outcome",
		observability.AttributeSessionID(sessionID),
		attribute.Int("game.correct", correct),
		attribute.Int("game.wrong", wrong),
	)
	defer observability.FinishSpan(span, &err)

	if correct < 0 || wrong < 0 {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "counts must not be negative (correct=%d, wrong=%d)", correct, wrong)
	}

	record, err := e.sessions.UpdateOutcome(ctx, sessionID, correct, wrong, models.EncodeWrongAnswers(wrongIDs))
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to update game result %d", sessionID)
	}
	if record == nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrSessionNotFound, "game result %d not found", sessionID)
	}
	return record, nil
}

// ListWithWrongAnswers returns the user's sessions that have mistakes, newest first
func (e *SessionEngine) ListWithWrongAnswers(ctx context.Context, userID int64) (result []models.SessionRecord, err error) {
	ctx, span := observability.TraceSessionFunction(ctx, "list_with_wrong_answers",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	records, err := e.sessions.ListWithWrongAnswers(ctx, userID)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to list game results for user %d", userID)
	}
	if records == nil {
		records = []models.SessionRecord{}
	}
	return records, nil
}

func (e *SessionEngine) dispatch(sessionID int64, kind string, items []models.VocabularyItem) *models.GameSession {
	session := &models.GameSession{GameResultID: sessionID, Kind: kind}
	switch kind {
	case models.SessionKindQuiz:
		session.Questions = e.builder.BuildForward(items)
	case models.SessionKindReverseQuiz:
		session.ReverseQuestions = e.builder.BuildReverse(items)
	default:
		session.Vocabularies = e.builder.BuildFlashcards(items)
	}
	return session
}

// orderByIDs arranges items in the order of ids, dropping ids with no item and repeated ids
func orderByIDs(items []models.VocabularyItem, ids []int64) []models.VocabularyItem {
	byID := make(map[int64]models.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]models.VocabularyItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
			delete(byID, id)
		}
	}
	return ordered
}
