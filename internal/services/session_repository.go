package services

import (
	"context"
	"database/sql"
	"errors"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

const sessionColumns = `id, user_id, folder_id, game_type, correct_count, wrong_count, wrong_answers, created_at, updated_at`

// SessionRepositoryImpl stores game results in Postgres
type SessionRepositoryImpl struct {
	db     *sqlx.DB
	logger *observability.Logger
}

// NewSessionRepository creates a new game result repository
func NewSessionRepository(db *sqlx.DB, logger *observability.Logger) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db, logger: logger}
}

// FindActive returns the non-retry session for (user, folder, game type), or nil
func (r *SessionRepositoryImpl) FindActive(ctx context.Context, userID, folderID int64, gameType string) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "find_active_session",
		observability.AttributeUserID(userID),
		observability.AttributeFolderID(folderID),
		observability.AttributeGameType(gameType),
	)
	defer observability.FinishSpan(span, &err)

	var record models.SessionRecord
	err = r.db.GetContext(ctx, &record, `
		SELECT `+sessionColumns+`
		FROM game_results
		WHERE user_id = $1 AND folder_id = $2 AND game_type = $3`,
		userID, folderID, gameType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query active session")
	}
	return &record, nil
}

// UpsertActive creates the active session or resets the existing one to zero counts
// and an empty wrong list, in a single statement keyed on the active-session index.
func (r *SessionRepositoryImpl) UpsertActive(ctx context.Context, userID, folderID int64, gameType string) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "upsert_active_session",
		observability.AttributeUserID(userID),
		observability.AttributeFolderID(folderID),
		observability.AttributeGameType(gameType),
	)
	defer observability.FinishSpan(span, &err)

	var record models.SessionRecord
	err = r.db.GetContext(ctx, &record, `
		INSERT INTO game_results (user_id, folder_id, game_type, correct_count, wrong_count, wrong_answers)
		VALUES ($1, $2, $3, 0, 0, '[]')
		ON CONFLICT (user_id, folder_id, game_type) WHERE game_type NOT LIKE 'retry\_%'
		DO UPDATE SET correct_count = 0, wrong_count = 0, wrong_answers = '[]', updated_at = NOW()
		RETURNING `+sessionColumns,
		userID, folderID, gameType)
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to upsert active session")
	}

	span.SetAttributes(observability.AttributeSessionID(record.ID))
	return &record, nil
}

// Save inserts a new record and returns it as stored
func (r *SessionRepositoryImpl) Save(ctx context.Context, in *models.SessionRecord) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "save_session",
		observability.AttributeUserID(in.UserID),
		observability.AttributeFolderID(in.FolderID),
		observability.AttributeGameType(in.GameType),
	)
	defer observability.FinishSpan(span, &err)

	wrongAnswers := in.WrongAnswers
	if wrongAnswers == "" {
		wrongAnswers = models.EmptyWrongAnswers
	}

	var record models.SessionRecord
	err = r.db.GetContext(ctx, &record, `
		INSERT INTO game_results (user_id, folder_id, game_type, correct_count, wrong_count, wrong_answers)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+sessionColumns,
		in.UserID, in.FolderID, in.GameType, in.CorrectCount, in.WrongCount, wrongAnswers)
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to insert session")
	}

	span.SetAttributes(observability.AttributeSessionID(record.ID))
	return &record, nil
}

// FindByID returns the record or nil when it does not exist
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id int64) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "find_session",
		observability.AttributeSessionID(id),
	)
	defer observability.FinishSpan(span, &err)

	var record models.SessionRecord
	err = r.db.GetContext(ctx, &record, `SELECT `+sessionColumns+` FROM game_results WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query session")
	}
	return &record, nil
}

// UpdateOutcome overwrites counters and the wrong list. Returns nil when the record does not exist.
func (r *SessionRepositoryImpl) UpdateOutcome(ctx context.Context, id int64, correct, wrong int, wrongAnswers string) (result *models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "update_session_outcome",
		observability.AttributeSessionID(id),
		attribute.Int("game.correct", correct),
		attribute.Int("game.wrong", wrong),
	)
	defer observability.FinishSpan(span, &err)

	var record models.SessionRecord
	err = r.db.GetContext(ctx, &record, `
		UPDATE game_results
		SET correct_count = $2, wrong_count = $3, wrong_answers = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+sessionColumns,
		id, correct, wrong, wrongAnswers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to update session outcome")
	}
	return &record, nil
}

// ListWithWrongAnswers returns the user's records with at least one wrong answer, newest first
func (r *SessionRepositoryImpl) ListWithWrongAnswers(ctx context.Context, userID int64) (result []models.SessionRecord, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "list_sessions_with_wrong_answers",
		observability.AttributeUserID(userID),
	)
	defer observability.FinishSpan(span, &err)

	records := []models.SessionRecord{}
	err = r.db.SelectContext(ctx, &records, `
		SELECT `+sessionColumns+`
		FROM game_results
		WHERE user_id = $1 AND wrong_count > 0
		ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to list sessions with wrong answers")
	}

	span.SetAttributes(attribute.Int("session.count", len(records)))
	return records, nil
}
