package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newCapturingLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	return zap.New(core), &buf
}

func TestWithContext_RoundTrip(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)
	assert.NotNil(t, FromContext(ctx))
}

func TestFromContext_MissingLogger(t *testing.T) {
	logger := FromContext(context.Background())

	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Info("report pipeline tick")
	})
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	logger := FromContext(ctx)

	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Info("ignored")
	})
}

func TestWithRequestID(t *testing.T) {
	logger, buf := newCapturingLogger()

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	enriched.Info("widgets reordered")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}

func TestWithOrgID(t *testing.T) {
	logger, buf := newCapturingLogger()

	ctx, enriched := WithOrgID(context.Background(), logger, "org-456")
	enriched.Info("report generated")

	assert.Equal(t, "org-456", GetOrgID(ctx))
	assert.Contains(t, buf.String(), `"org_id":"org-456"`)
}

func TestContextChaining(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctx, logger = WithRequestID(ctx, logger, "req-1")
	ctx, logger = WithOrgID(ctx, logger, "org-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "org-1", GetOrgID(ctx))
	assert.NotNil(t, logger)

	// The context carries the fully enriched logger, not the base one.
	assert.Equal(t, logger, FromContext(ctx))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetOrgID_Missing(t *testing.T) {
	assert.Empty(t, GetOrgID(context.Background()))
}

func TestWithRequestID_Overrides(t *testing.T) {
	logger := zap.NewNop()

	ctx, _ := WithRequestID(context.Background(), logger, "first-id")
	ctx, _ = WithRequestID(ctx, logger, "second-id")

	assert.Equal(t, "second-id", GetRequestID(ctx))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	base := zap.NewNop()
	assert.Equal(t, base, WithTraceContext(context.Background(), base))
}

func TestWithTraceContext_NoopSpan(t *testing.T) {
	// Noop spans have an invalid span context; the logger must come back
	// unchanged rather than carrying zeroed IDs.
	tracer := noop.NewTracerProvider().Tracer("pipeline")
	ctx, span := tracer.Start(context.Background(), "generate-report")
	defer span.End()

	base := zap.NewNop()
	assert.Equal(t, base, WithTraceContext(ctx, base))
}

func TestWithTraceContext_RecordingSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer("pipeline")

	ctx, span := tracer.Start(context.Background(), "generate-report")
	defer span.End()

	logger, buf := newCapturingLogger()
	WithTraceContext(ctx, logger).Info("chart rendered")

	output := buf.String()
	assert.Contains(t, output, `"trace_id":"`+span.SpanContext().TraceID().String()+`"`)
	assert.Contains(t, output, `"span_id":"`+span.SpanContext().SpanID().String()+`"`)
}
