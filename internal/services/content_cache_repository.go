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

const contentCacheColumns = `id, folder_id, level, topic, story, questions_json, created_at`

// ContentCacheRepositoryImpl stores generated reading content in Postgres.
// Rows are written once and never updated.
type ContentCacheRepositoryImpl struct {
	db     *sqlx.DB
	logger *observability.Logger
}

// NewContentCacheRepository creates a new reading content cache repository
func NewContentCacheRepository(db *sqlx.DB, logger *observability.Logger) *ContentCacheRepositoryImpl {
	return &ContentCacheRepositoryImpl{db: db, logger: logger}
}

// Find returns the stored content for the key, or nil when there is none
func (r *ContentCacheRepositoryImpl) Find(ctx context.Context, folderID int64, level int, topic string) (result *models.CachedContent, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "find_reading_content",
		observability.AttributeFolderID(folderID),
		observability.AttributeLevel(level),
		observability.AttributeTopic(topic),
	)
	defer observability.FinishSpan(span, &err)

	var content models.CachedContent
	err = r.db.GetContext(ctx, &content, `
		SELECT `+contentCacheColumns+`
		FROM reading_content_cache
		WHERE folder_id = $1 AND level = $2 AND topic = $3`,
		folderID, level, topic)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("cache.found", false))
		return nil, nil
	}
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to query reading content cache")
	}

	span.SetAttributes(attribute.Bool("cache.found", true))
	return &content, nil
}

// Save inserts content unless the key is already stored, then returns the stored row
func (r *ContentCacheRepositoryImpl) Save(ctx context.Context, content *models.CachedContent) (result *models.CachedContent, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "save_reading_content",
		observability.AttributeFolderID(content.FolderID),
		observability.AttributeLevel(content.Level),
		observability.AttributeTopic(content.Topic),
		attribute.Int("story.length", len(content.Story)),
	)
	defer observability.FinishSpan(span, &err)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reading_content_cache (folder_id, level, topic, story, questions_json)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT ux_reading_content_cache_key DO NOTHING`,
		content.FolderID, content.Level, content.Topic, content.Story, content.QuestionsJSON)
	if err != nil {
		return nil, contextutils.WrapDatabaseError(err, "failed to save reading content")
	}
	if inserted, err := res.RowsAffected(); err == nil {
		span.SetAttributes(attribute.Bool("cache.inserted", inserted > 0))
	}

	stored, err := r.Find(ctx, content.FolderID, content.Level, content.Topic)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, contextutils.ErrorWithContextf("reading content for folder %d level %d vanished after save", content.FolderID, content.Level)
	}
	return stored, nil
}
