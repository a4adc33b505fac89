// Package di provides dependency injection container for managing service lifecycle and dependencies.
package di

import (
	"context"
	"database/sql"
	"sync"

	"lexiquiz/internal/config"
	"lexiquiz/internal/database"
	"lexiquiz/internal/observability"
	"lexiquiz/internal/services"
	contextutils "lexiquiz/internal/utils"

	"github.com/jmoiron/sqlx"
)

// ServiceContainerInterface defines the interface for service containers
type ServiceContainerInterface interface {
	GetService(name string) (interface{}, error)
	GetSessionEngine() (services.SessionEngineInterface, error)
	GetSentenceValidator() (services.SentenceValidatorInterface, error)
	GetReadingService() (services.ReadingContentServiceInterface, error)
	GetContentCache() (services.ContentCache, error)
	GetDatabase() *sql.DB
	GetConfig() *config.Config
	GetLogger() *observability.Logger
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceContainer manages all service dependencies and lifecycle
type ServiceContainer struct {
	cfg           *config.Config
	logger        *observability.Logger
	metrics       *observability.Metrics
	dbManager     *database.Manager
	db            *sql.DB
	services      map[string]interface{}
	mu            sync.RWMutex
	shutdownFuncs []func(context.Context) error
}

// NewServiceContainer creates a new dependency injection container. metrics may be nil.
func NewServiceContainer(cfg *config.Config, logger *observability.Logger, metrics *observability.Metrics) *ServiceContainer {
	return &ServiceContainer{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		services: make(map[string]interface{}),
	}
}

// Initialize connects to the database, applies migrations and builds every service
func (sc *ServiceContainer) Initialize(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.dbManager = database.NewManager(sc.logger)
	db, err := sc.dbManager.Connect(ctx, sc.cfg.Database)
	if err != nil {
		return contextutils.WrapErrorf(err, "failed to initialize database")
	}
	sc.db = db
	sc.shutdownFuncs = append(sc.shutdownFuncs, func(_ context.Context) error {
		return db.Close()
	})

	if err := sc.initializeServices(ctx, database.NewSQLX(db)); err != nil {
		_ = sc.cleanup(ctx)
		return contextutils.WrapErrorf(err, "failed to initialize services")
	}

	return nil
}

// GetService retrieves a service by name with type assertion
func (sc *ServiceContainer) GetService(name string) (interface{}, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	service, exists := sc.services[name]
	if !exists {
		return nil, contextutils.ErrorWithContextf("service %s not found", name)
	}
	return service, nil
}

// GetServiceAs performs type-safe service retrieval
func GetServiceAs[T any](sc *ServiceContainer, name string) (T, error) {
	var zero T
	service, err := sc.GetService(name)
	if err != nil {
		return zero, err
	}

	typed, ok := service.(T)
	if !ok {
		return zero, contextutils.ErrorWithContextf("service %s is not of expected type %T", name, zero)
	}
	return typed, nil
}

// GetSessionEngine returns the game session engine
func (sc *ServiceContainer) GetSessionEngine() (services.SessionEngineInterface, error) {
	return GetServiceAs[services.SessionEngineInterface](sc, "session_engine")
}

// GetSentenceValidator returns the sentence validator
func (sc *ServiceContainer) GetSentenceValidator() (services.SentenceValidatorInterface, error) {
	return GetServiceAs[services.SentenceValidatorInterface](sc, "sentence_validator")
}

// GetReadingService returns the reading content service
func (sc *ServiceContainer) GetReadingService() (services.ReadingContentServiceInterface, error) {
	return GetServiceAs[services.ReadingContentServiceInterface](sc, "reading")
}

// GetContentCache returns the reading content cache, Redis-backed when configured
func (sc *ServiceContainer) GetContentCache() (services.ContentCache, error) {
	return GetServiceAs[services.ContentCache](sc, "content_cache")
}

// GetDatabase returns the database instance
func (sc *ServiceContainer) GetDatabase() *sql.DB {
	return sc.db
}

// GetConfig returns the configuration
func (sc *ServiceContainer) GetConfig() *config.Config {
	return sc.cfg
}

// GetLogger returns the logger
func (sc *ServiceContainer) GetLogger() *observability.Logger {
	return sc.logger
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.cleanup(ctx)
}

// cleanup runs shutdown functions in reverse order of registration
func (sc *ServiceContainer) cleanup(ctx context.Context) error {
	var errors []error
	for i := len(sc.shutdownFuncs) - 1; i >= 0; i-- {
		if err := sc.shutdownFuncs[i](ctx); err != nil {
			sc.logger.Error(ctx, "Shutdown step failed", err)
			errors = append(errors, err)
		}
	}
	sc.shutdownFuncs = nil

	if len(errors) > 0 {
		return contextutils.ErrorWithContextf("shutdown errors: %v", errors)
	}
	return nil
}

// initializeServices sets up all service dependencies
func (sc *ServiceContainer) initializeServices(ctx context.Context, db *sqlx.DB) error {
	// Stores
	vocabulary := services.NewVocabularyRepository(db, sc.logger)
	sessions := services.NewSessionRepository(db, sc.logger)
	sc.services["vocabulary"] = vocabulary
	sc.services["sessions"] = sessions

	contentCache, closeCache := NewContentCache(ctx, sc.cfg.Redis, services.NewContentCacheRepository(db, sc.logger), sc.logger)
	sc.services["content_cache"] = contentCache
	if closeCache != nil {
		sc.shutdownFuncs = append(sc.shutdownFuncs, closeCache)
	}

	// Sentence validation pipeline
	tagger, err := services.NewProseTagger()
	if err != nil {
		return err
	}
	normalizer := services.NewContractionNormalizer()
	completeness := services.NewCompletenessChecker(normalizer, tagger)
	grammar := services.NewGrammarCheckClient(sc.cfg.Grammar, sc.logger)
	sc.services["normalizer"] = normalizer
	sc.services["sentence_validator"] = services.NewSentenceValidator(completeness, grammar, vocabulary, sc.metrics, sc.logger)

	// Game sessions
	sampler := services.NewDistractorSampler(services.DefaultShuffler)
	builder := services.NewQuizBuilder(sampler, services.DefaultShuffler, sc.cfg.Game.DistractorCount)
	backfill := services.NewRetryBackfillPolicy(services.DefaultShuffler)
	sc.services["session_engine"] = services.NewSessionEngine(vocabulary, sessions, builder, backfill, sc.cfg.Game, sc.metrics, sc.logger)

	// Reading content
	generator, err := services.NewReadingGenerator(sc.cfg.Generation, sc.metrics, sc.logger)
	if err != nil {
		return err
	}
	sc.services["reading_generator"] = generator
	sc.services["reading"] = services.NewReadingContentService(contentCache, vocabulary, generator, sc.metrics, sc.logger)

	return nil
}

// NewContentCache returns store, or store behind Redis when cfg names an address.
// The returned close function is nil when no Redis client was created.
func NewContentCache(ctx context.Context, cfg config.RedisConfig, store services.ContentCache, logger *observability.Logger) (services.ContentCache, func(context.Context) error) {
	if !cfg.Enabled() {
		return store, nil
	}

	client := services.NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		// Redis is an accelerator; lookups bypass it on failure
		logger.Warn(ctx, "Redis is not reachable at startup", map[string]interface{}{
			"addr":  cfg.Addr,
			"error": err.Error(),
		})
	} else {
		logger.Info(ctx, "Redis content cache enabled", map[string]interface{}{"addr": cfg.Addr})
	}

	return services.NewRedisContentCache(client, store, cfg, logger), func(context.Context) error {
		return client.Close()
	}
}
