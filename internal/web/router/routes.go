package router

import (
	"time"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/app"
	"github.com/dougwollison/index-pages/internal/web/middleware"
)

// Config holds router configuration
type Config struct {
	// Logger receives access and error logs
	Logger *zap.Logger

	// RequestTimeout bounds each request's context; zero disables it
	RequestTimeout time.Duration

	// SkipLogPaths are not access logged
	SkipLogPaths []string
}

// DefaultConfig returns the default router configuration
func DefaultConfig(logger *zap.Logger) Config {
	return Config{
		Logger:         logger,
		RequestTimeout: 10 * time.Second,
		SkipLogPaths:   []string{"/healthz"},
	}
}

// New builds the index pages router for a. Every request gets its own
// registry, loaded before any handler runs.
func New(a *app.App, config Config) *Router {
	r := NewRouter()

	r.Use(middleware.NewChain(
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger:    config.Logger,
			SkipPaths: config.SkipLogPaths,
		}),
		middleware.Recovery(),
		middleware.Timeout(config.RequestTimeout),
		middleware.Registry(a.Registry),
	).Middlewares()...)

	SetupDefaultErrorHandlers(r)

	h := NewHandlers(a)
	r.Get("/healthz", h.Health).Named("health")
	r.Get("/api/bindings", h.Bindings).Named("bindings")
	r.Get("/api/index-pages/{postType}", h.IndexPage).Named("index_page")
	r.Get("/api/term-pages/{termID}", h.TermPage).Named("term_page")
	r.Get("/api/pages/{pageID}", h.Page).Named("page")
	r.Get("/*", h.Front).Named("front")

	return r
}
