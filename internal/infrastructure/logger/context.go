package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is a private key type so logger values cannot collide with
// keys planted by other packages.
type contextKey string

const (
	// LoggerKey carries the request-scoped logger.
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request ID assigned by the HTTP layer.
	RequestIDKey contextKey = "request_id"
	// OrgIDKey carries the dashboard organization the request acts on.
	OrgIDKey contextKey = "org_id"
)

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context. Code running outside a
// request (batch runner, debouncer drain) gets a no-op logger rather
// than nil.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in the context and returns the
// context together with a logger enriched with the same ID.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithOrgID stores the org ID in the context and returns the context
// together with a logger enriched with the same ID.
func WithOrgID(ctx context.Context, logger *zap.Logger, orgID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OrgIDKey, orgID)
	enriched := logger.With(zap.String("org_id", orgID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetOrgID retrieves the org ID from context.
func GetOrgID(ctx context.Context) string {
	if orgID, ok := ctx.Value(OrgIDKey).(string); ok {
		return orgID
	}
	return ""
}

// WithTraceContext enriches the logger with trace_id and span_id taken
// from the active span, so log lines can be joined with traces. With no
// valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return logger
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
