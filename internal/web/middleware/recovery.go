package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	webctx "github.com/dougwollison/index-pages/internal/web/context"
	"github.com/dougwollison/index-pages/internal/web/response"
)

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	// EnableStackTrace determines whether to log stack traces
	EnableStackTrace bool
	// ResponseHandler is an optional custom response handler
	ResponseHandler func(http.ResponseWriter, *http.Request, any)
}

// DefaultRecoveryConfig returns the default recovery configuration
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		EnableStackTrace: true,
		ResponseHandler: func(w http.ResponseWriter, r *http.Request, _ any) {
			response.RenderInternalError(w, r)
		},
	}
}

// Recovery creates a middleware that recovers from panics
func Recovery() Middleware {
	return RecoveryWithConfig(DefaultRecoveryConfig())
}

// RecoveryWithConfig creates a recovery middleware with custom configuration.
// Panics are logged on the request logger.
func RecoveryWithConfig(config RecoveryConfig) Middleware {
	if config.ResponseHandler == nil {
		config.ResponseHandler = DefaultRecoveryConfig().ResponseHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				fields := []zap.Field{
					zap.Error(panicError(p)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				}
				if config.EnableStackTrace {
					fields = append(fields, zap.ByteString("stack", debug.Stack()))
				}
				webctx.GetLogger(r.Context()).Error("panic recovered", fields...)

				config.ResponseHandler(w, r, p)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// panicError converts a panic value to an error
func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", p)
}
