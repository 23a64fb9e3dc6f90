package router

import (
	"fmt"
	"net/http"

	"github.com/dougwollison/index-pages/internal/web/response"
)

// NotFoundHandler returns a handler for 404 Not Found errors
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, r, "The requested resource was not found")
	}
}

// MethodNotAllowedHandler returns a handler for 405 Method Not Allowed
// errors. Everything the service serves is read-only.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		response.RenderError(w, r, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s is not allowed for this resource", r.Method))
	}
}

// SetupDefaultErrorHandlers configures the router with default error handlers
func SetupDefaultErrorHandlers(r *Router) {
	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(MethodNotAllowedHandler())
}
