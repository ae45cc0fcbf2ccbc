package conf

import (
	"context"
	"errors"
)

type ctxKey struct{}

// ErrNoConfigInContext is returned when a context carries no parsed
// configuration.
var ErrNoConfigInContext = errors.New("no config in context")

// ContextWithConfig stores the parsed configuration on the context for
// command actions to pick up after the root Before hook ran.
func ContextWithConfig[C any](ctx context.Context, config C) context.Context {
	return context.WithValue(ctx, ctxKey{}, config)
}

// GetConfigFromContext returns the configuration stored by
// ContextWithConfig, failing when the context holds none or holds a value
// of a different type.
func GetConfigFromContext[C any](ctx context.Context) (C, error) {
	var config C

	value := ctx.Value(ctxKey{})
	if value == nil {
		return config, ErrNoConfigInContext
	}

	stored, ok := value.(C)
	if !ok {
		return config, errors.New("mismatched config type in context")
	}

	return stored, nil
}
