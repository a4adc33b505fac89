package services

import (
	"context"
	"fmt"

	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"
	contextutils "lexiquiz/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// ReadingContentService serves reading passages from the cache, generating them on a miss
type ReadingContentService struct {
	cache      ContentCache
	vocabulary VocabularyStore
	generator  ReadingContentGenerator
	group      singleflight.Group
	metrics    *observability.Metrics
	logger     *observability.Logger
}

// NewReadingContentService wires the service. metrics may be nil.
func NewReadingContentService(
	cache ContentCache,
	vocabulary VocabularyStore,
	generator ReadingContentGenerator,
	metrics *observability.Metrics,
	logger *observability.Logger,
) *ReadingContentService {
	return &ReadingContentService{
		cache:      cache,
		vocabulary: vocabulary,
		generator:  generator,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetOrGenerate returns the stored passage for (folder, level, topic). On a miss
// it generates one from the folder's words and stores it. Concurrent misses
// for the same key share one generation.
func (s *ReadingContentService) GetOrGenerate(ctx context.Context, folderID int64, level int, topic string) (result *models.ReadingContent, err error) {
	ctx, span := observability.TraceReadingFunction(ctx, "get_or_generate",
		observability.AttributeFolderID(folderID),
		observability.AttributeLevel(level),
		observability.AttributeTopic(topic),
	)
	defer observability.FinishSpan(span, &err)

	content, err := s.lookup(ctx, folderID, level, topic)
	if err != nil {
		return nil, err
	}
	if content != nil {
		span.SetAttributes(attribute.String("cache.result", "hit"))
		return content, nil
	}
	span.SetAttributes(attribute.String("cache.result", "miss"))

	key := fmt.Sprintf("%d:%d:%s", folderID, level, topic)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Detach from the first caller's cancellation so waiters are not failed by it
		return s.generateAndStore(context.WithoutCancel(ctx), folderID, level, topic)
	})
	span.SetAttributes(attribute.Bool("singleflight.shared", shared))
	if err != nil {
		return nil, err
	}
	return v.(*models.ReadingContent), nil
}

// lookup returns the cached content, or nil on a miss. Unreadable rows count as a miss.
func (s *ReadingContentService) lookup(ctx context.Context, folderID int64, level int, topic string) (*models.ReadingContent, error) {
	cached, err := s.cache.Find(ctx, folderID, level, topic)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to read reading content cache")
	}
	if cached == nil {
		s.metrics.RecordCacheLookup(ctx, "miss")
		return nil, nil
	}

	content, err := cached.Content()
	if err != nil {
		s.logger.Error(ctx, "Cached reading content is corrupted, regenerating", err, map[string]interface{}{
			"cache_id":  cached.ID,
			"folder_id": folderID,
			"level":     level,
		})
		s.metrics.RecordCacheLookup(ctx, "corrupted")
		return nil, nil
	}

	s.metrics.RecordCacheLookup(ctx, "hit")
	return content, nil
}

func (s *ReadingContentService) generateAndStore(ctx context.Context, folderID int64, level int, topic string) (*models.ReadingContent, error) {
	items, err := s.vocabulary.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to load vocabulary for folder %d", folderID)
	}
	if len(items) == 0 {
		return nil, contextutils.WrapErrorf(contextutils.ErrNoVocabulary, "folder %d is empty", folderID)
	}

	words := make([]string, 0, len(items))
	for _, item := range items {
		words = append(words, item.Word)
	}

	content, err := s.generator.Generate(ctx, words, level, topic)
	if err != nil {
		return nil, err
	}

	record, err := models.NewCachedContent(folderID, level, topic, content)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to encode reading questions")
	}

	saved, err := s.cache.Save(ctx, record)
	if err != nil {
		// The caller still gets the story; the next request will try to store it again
		s.logger.Error(ctx, "Failed to store generated reading content", err, map[string]interface{}{
			"folder_id": folderID,
			"level":     level,
		})
		return content, nil
	}

	// Another writer may have stored the key first; serve what was persisted
	persisted, err := saved.Content()
	if err != nil {
		// The row keeps its key, so later requests regenerate until it is repaired
		s.logger.Error(ctx, "Persisted reading content is unreadable", err, map[string]interface{}{
			"cache_id":  saved.ID,
			"folder_id": folderID,
			"level":     level,
		})
		s.metrics.RecordCacheLookup(ctx, "corrupted_persisted")
		return content, nil
	}

	s.logger.Info(ctx, "Reading content generated", map[string]interface{}{
		"folder_id": folderID,
		"level":     level,
		"cache_id":  saved.ID,
		"questions": len(persisted.Questions),
	})
	return persisted, nil
}
