package logging

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ErrNoLoggerInContext is returned when a context carries no logger.
var ErrNoLoggerInContext = errors.New("no logger in context")

// ContextWithLogger stores the daemon logger on the context, so command
// actions and the fx bootstrap share one instance.
func ContextWithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// LoggerFromContext returns the logger stored by ContextWithLogger.
func LoggerFromContext(ctx context.Context) (*zap.Logger, error) {
	log, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok {
		return nil, ErrNoLoggerInContext
	}

	return log, nil
}
