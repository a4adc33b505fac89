package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lexiquiz/internal/config"
	"lexiquiz/internal/models"
	"lexiquiz/internal/observability"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// RedisContentCache keeps recently used reading content in Redis in front of
// another ContentCache. Redis problems are logged and skipped.
type RedisContentCache struct {
	client *redis.Client
	store  ContentCache
	ttl    time.Duration
	prefix string
	logger *observability.Logger
}

// NewRedisClient opens a client for cfg
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisContentCache decorates store with client
func NewRedisContentCache(client *redis.Client, store ContentCache, cfg config.RedisConfig, logger *observability.Logger) *RedisContentCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = config.DefaultRedisKeyPrefix
	}
	return &RedisContentCache{
		client: client,
		store:  store,
		ttl:    cfg.TTL,
		prefix: prefix,
		logger: logger,
	}
}

// HashText returns the hex SHA-256 of text
func HashText(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}

func (c *RedisContentCache) key(folderID int64, level int, topic string) string {
	return fmt.Sprintf("%sreading:%d:%d:%s", c.prefix, folderID, level, HashText(topic))
}

// Find checks Redis first, then the wrapped store, copying store hits into Redis
func (c *RedisContentCache) Find(ctx context.Context, folderID int64, level int, topic string) (result *models.CachedContent, err error) {
	ctx, span := observability.TraceCacheFunction(ctx, "redis_find_reading_content",
		observability.AttributeFolderID(folderID),
		observability.AttributeLevel(level),
	)
	defer observability.FinishSpan(span, &err)

	key := c.key(folderID, level, topic)
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached models.CachedContent
		jsonErr := json.Unmarshal(data, &cached)
		if jsonErr == nil {
			span.SetAttributes(attribute.String("cache.layer", "redis"))
			return &cached, nil
		}
		c.logger.Warn(ctx, "Discarding unreadable Redis entry", map[string]interface{}{
			"key":   key,
			"error": jsonErr.Error(),
		})
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn(ctx, "Redis lookup failed, falling back to database", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	stored, err := c.store.Find(ctx, folderID, level, topic)
	if err != nil || stored == nil {
		return stored, err
	}

	span.SetAttributes(attribute.String("cache.layer", "store"))
	c.put(ctx, key, stored)
	return stored, nil
}

// Save writes through to the wrapped store and caches the persisted row
func (c *RedisContentCache) Save(ctx context.Context, content *models.CachedContent) (result *models.CachedContent, err error) {
	ctx, span := observability.TraceCacheFunction(ctx, "redis_save_reading_content",
		observability.AttributeFolderID(content.FolderID),
		observability.AttributeLevel(content.Level),
	)
	defer observability.FinishSpan(span, &err)

	stored, err := c.store.Save(ctx, content)
	if err != nil {
		return nil, err
	}
	c.put(ctx, c.key(stored.FolderID, stored.Level, stored.Topic), stored)
	return stored, nil
}

// put skips rows whose stored story or questions no longer decode so that a
// corrupted row is not served from Redis until it expires.
func (c *RedisContentCache) put(ctx context.Context, key string, content *models.CachedContent) {
	if _, err := content.Content(); err != nil {
		c.logger.Warn(ctx, "Not caching unreadable reading content in Redis", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	data, err := json.Marshal(content)
	if err != nil {
		c.logger.Warn(ctx, "Failed to encode reading content for Redis", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "Redis write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
