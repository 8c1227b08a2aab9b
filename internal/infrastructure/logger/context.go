package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	refIDKey     contextKey = "ref_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithRefID tags the context with the transaction reference id being mutated,
// so SQL traces of one multi-line save can be grouped.
func WithRefID(ctx context.Context, refID string) context.Context {
	ctx = context.WithValue(ctx, refIDKey, refID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("ref_id", refID)))
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetRefID retrieves the transaction reference id from context
func GetRefID(ctx context.Context) string {
	if refID, ok := ctx.Value(refIDKey).(string); ok {
		return refID
	}
	return ""
}
