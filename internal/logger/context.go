package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithRequest derives the request logger from base, tagged with requestID, and stores it
// in ctx. Layers below the HTTP handler log through FromContext.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base.With(zap.String("request_id", requestID))
	return context.WithValue(ctx, ctxKey{}, l), l
}

// With appends fields to the context logger.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, FromContext(ctx).With(fields...))
}

// FromContext returns the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
