package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "lexiquiz"

var globalTracer trace.Tracer

// InitGlobalTracer initializes the global tracer for the application.
func InitGlobalTracer() {
	globalTracer = otel.Tracer(tracerName)
}

// GetGlobalTracer returns the global tracer instance for the application.
func GetGlobalTracer() trace.Tracer {
	if globalTracer == nil {
		globalTracer = otel.Tracer(tracerName)
	}
	return globalTracer
}

// TraceFunction starts a new span with a descriptive name for the given service and function.
func TraceFunction(ctx context.Context, serviceName, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetGlobalTracer()
	spanName := fmt.Sprintf("%s.%s", serviceName, functionName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// TraceValidationFunction starts a new span for a sentence validation step.
func TraceValidationFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "validation", functionName, attributes...)
}

// TraceSessionFunction starts a new span for a game session operation.
func TraceSessionFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "session", functionName, attributes...)
}

// TraceReadingFunction starts a new span for reading content lookups.
func TraceReadingFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "reading", functionName, attributes...)
}

// TraceCacheFunction starts a new span for a cache call.
func TraceCacheFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "cache", functionName, attributes...)
}

// TraceAIFunction starts a new span for an AI service function.
func TraceAIFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "ai", functionName, attributes...)
}

// TraceHandlerFunction starts a new span for a handler function.
func TraceHandlerFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "handler", functionName, attributes...)
}

// TraceDatabaseFunction starts a new span for a database function.
func TraceDatabaseFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "database", functionName, attributes...)
}

// AttributeUserID returns a tracing attribute for a user ID.
func AttributeUserID(id int64) attribute.KeyValue {
	return attribute.Int64("user.id", id)
}

// AttributeFolderID returns a tracing attribute for a vocabulary folder ID.
func AttributeFolderID(id int64) attribute.KeyValue {
	return attribute.Int64("folder.id", id)
}

// AttributeSessionID returns a tracing attribute for a game result ID.
func AttributeSessionID(id int64) attribute.KeyValue {
	return attribute.Int64("game_result.id", id)
}

// AttributeGameType returns a tracing attribute for a game type tag.
func AttributeGameType(gameType string) attribute.KeyValue {
	return attribute.String("game.type", gameType)
}

// AttributeLevel returns a tracing attribute for a reading level.
func AttributeLevel(level int) attribute.KeyValue {
	return attribute.Int("reading.level", level)
}

// AttributeTopic returns a tracing attribute for a reading topic.
func AttributeTopic(topic string) attribute.KeyValue {
	return attribute.String("reading.topic", topic)
}

// AttributeKeyword returns a tracing attribute for the keyword a sentence must contain.
func AttributeKeyword(keyword string) attribute.KeyValue {
	return attribute.String("sentence.keyword", keyword)
}
