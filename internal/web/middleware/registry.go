package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/registry"
	webctx "github.com/dougwollison/index-pages/internal/web/context"
)

// RegistryFactory builds a fresh, unloaded registry
type RegistryFactory func() *registry.Registry

// Registry builds and loads one registry per request and stores it on the
// request context. A storage failure is logged and the request continues
// with whatever bindings were read.
func Registry(factory RegistryFactory) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg := factory()
			if err := reg.Load(r.Context(), false); err != nil {
				webctx.GetLogger(r.Context()).Warn("serving with partial index page bindings", zap.Error(err))
			}

			next.ServeHTTP(w, r.WithContext(webctx.SetRegistry(r.Context(), reg)))
		})
	}
}
