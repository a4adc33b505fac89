package observability

import (
	"context"
	"errors"
	"testing"

	contextutils "lexiquiz/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{Logger: zap.New(core)}, logs
}

func TestLogWithContextAddsTraceInfo(t *testing.T) {
	tp := trace.NewTracerProvider()
	tracer := tp.Tracer("test-tracer")
	logger, observedLogs := newObservedLogger(zap.InfoLevel)

	ctx, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	logger.Info(ctx, "test message", nil)

	entries := observedLogs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0].Message)

	fields := entries[0].ContextMap()
	spanContext := span.SpanContext()
	assert.Equal(t, spanContext.TraceID().String(), fields["trace_id"])
	assert.Equal(t, spanContext.SpanID().String(), fields["span_id"])
}

func TestLogWithContextNoSpan(t *testing.T) {
	logger, observedLogs := newObservedLogger(zap.InfoLevel)

	logger.Info(context.Background(), "test message", nil)

	entries := observedLogs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotContains(t, fields, "trace_id")
	assert.NotContains(t, fields, "span_id")
}

func TestLogWithContextAddsRequestID(t *testing.T) {
	logger, observedLogs := newObservedLogger(zap.InfoLevel)
	ctx := contextutils.WithRequestID(context.Background(), "req-42")

	logger.Warn(ctx, "slow grammar check", map[string]interface{}{"latency_ms": 1200})

	entries := observedLogs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.EqualValues(t, 1200, fields["latency_ms"])
}

func TestLoggerError_AddsErrorFieldsWithoutMutatingCallerMap(t *testing.T) {
	logger, observedLogs := newObservedLogger(zap.InfoLevel)
	callerFields := map[string]interface{}{"folder_id": int64(3)}

	logger.Error(context.Background(), "start failed", contextutils.WrapError(contextutils.ErrNoVocabulary, "start"), callerFields)
	logger.Error(context.Background(), "plain failure", errors.New("boom"))

	entries := observedLogs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Contains(t, first["error"], "start")
	assert.Equal(t, "VALIDATION_FAILED", first["error_code"])
	assert.EqualValues(t, 3, first["folder_id"])
	assert.NotContains(t, callerFields, "error")

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["error"])
	assert.NotContains(t, second, "error_code")
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, observedLogs := newObservedLogger(zap.InfoLevel)

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "shown")

	entries := observedLogs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0].Message)
}

func TestMergeFields(t *testing.T) {
	merged := mergeFields(nil, map[string]interface{}{"a": 1}, map[string]interface{}{"a": 2, "b": 3})
	assert.Equal(t, map[string]interface{}{"a": 2, "b": 3}, merged)
	assert.Empty(t, mergeFields())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info(context.Background(), "discarded")
	assert.NoError(t, logger.Shutdown(context.Background()))
}
