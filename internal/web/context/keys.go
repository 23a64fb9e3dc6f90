// Package context holds the request-scoped values shared by the web
// middleware and handlers.
package context

import (
	"context"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/registry"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	requestIDKey contextKey = iota
	registryKey
	loggerKey
)

// GetRequestID extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// SetRequestID adds the request ID to the context
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRegistry returns the registry loaded for this request
func GetRegistry(ctx context.Context) (*registry.Registry, bool) {
	reg, ok := ctx.Value(registryKey).(*registry.Registry)
	return reg, ok && reg != nil
}

// SetRegistry stores the request's registry
func SetRegistry(ctx context.Context, reg *registry.Registry) context.Context {
	return context.WithValue(ctx, registryKey, reg)
}

// GetLogger returns the request logger, or a no-op logger
func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

// SetLogger stores a request logger
func SetLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
