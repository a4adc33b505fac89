package observability

import (
	"context"

	"lexiquiz/internal/config"
	contextutils "lexiquiz/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics initializes OpenTelemetry metrics
func InitMetrics(cfg *config.OpenTelemetryConfig) (result0 *metric.MeterProvider, err error) {
	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var exporter metric.Exporter
	switch cfg.Protocol {
	case "grpc":
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp grpc metric exporter: %w", err)
		}
		exporter = exp
	case "http":
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp http metric exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "unsupported otel protocol: %s", cfg.Protocol)
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	)
	return mp, nil
}

// Metrics holds the application's counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	sentenceChecks     otelmetric.Int64Counter
	cacheLookups       otelmetric.Int64Counter
	generationAttempts otelmetric.Int64Counter
	sessionsStarted    otelmetric.Int64Counter
}

// NewMetrics registers the application's instruments on the given provider
func NewMetrics(provider otelmetric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter("lexiquiz")

	sentenceChecks, err := meter.Int64Counter("sentence_checks_total",
		otelmetric.WithDescription("Sentence validations by deciding stage and result"))
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create sentence_checks_total: %w", err)
	}
	cacheLookups, err := meter.Int64Counter("reading_cache_lookups_total",
		otelmetric.WithDescription("Reading content cache lookups by result"))
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create reading_cache_lookups_total: %w", err)
	}
	generationAttempts, err := meter.Int64Counter("reading_generation_attempts_total",
		otelmetric.WithDescription("Calls to the reading generation model by outcome"))
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create reading_generation_attempts_total: %w", err)
	}
	sessionsStarted, err := meter.Int64Counter("game_sessions_started_total",
		otelmetric.WithDescription("Game sessions started by game type and kind"))
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create game_sessions_started_total: %w", err)
	}

	return &Metrics{
		sentenceChecks:     sentenceChecks,
		cacheLookups:       cacheLookups,
		generationAttempts: generationAttempts,
		sessionsStarted:    sessionsStarted,
	}, nil
}

// NewNopMetrics returns instruments bound to a no-op provider
func NewNopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordSentenceCheck counts one validation, labelled by the stage that decided it
func (m *Metrics) RecordSentenceCheck(ctx context.Context, stage string, correct bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if correct {
		result = "accepted"
	}
	m.sentenceChecks.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("result", result),
	))
}

// RecordCacheLookup counts a reading cache lookup. result is one of "hit",
// "miss", "corrupted" or "corrupted_persisted"
func (m *Metrics) RecordCacheLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("result", result)))
}

// RecordGenerationAttempt counts one call to the generation model
func (m *Metrics) RecordGenerationAttempt(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.generationAttempts.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordSessionStarted counts a created game session
func (m *Metrics) RecordSessionStarted(ctx context.Context, gameType, kind string) {
	if m == nil {
		return
	}
	m.sessionsStarted.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("game_type", gameType),
		attribute.String("kind", kind),
	))
}
