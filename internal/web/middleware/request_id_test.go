package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	webctx "github.com/dougwollison/index-pages/internal/web/context"
)

func captureRequestID(id *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*id = webctx.GetRequestID(r.Context())
	})
}

func TestRequestID_Generated(t *testing.T) {
	var fromContext string
	rec := httptest.NewRecorder()
	RequestID()(captureRequestID(&fromContext)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(fromContext)
	assert.NoError(t, err)
	assert.Equal(t, fromContext, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_FromHeader(t *testing.T) {
	var fromContext string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "custom-request-id")
	rec := httptest.NewRecorder()

	RequestID()(captureRequestID(&fromContext)).ServeHTTP(rec, req)

	assert.Equal(t, "custom-request-id", fromContext)
	assert.Equal(t, "custom-request-id", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_CustomConfig(t *testing.T) {
	var fromContext string
	rec := httptest.NewRecorder()
	mw := RequestIDWithConfig(RequestIDConfig{
		HeaderName: "X-Trace",
		Generator:  func() string { return "generated" },
	})
	mw(captureRequestID(&fromContext)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "generated", fromContext)
	assert.Equal(t, "generated", rec.Header().Get("X-Trace"))
	assert.Empty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_ZeroConfig(t *testing.T) {
	var fromContext string
	rec := httptest.NewRecorder()
	RequestIDWithConfig(RequestIDConfig{})(captureRequestID(&fromContext)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, fromContext)
	assert.Equal(t, fromContext, rec.Header().Get("X-Request-ID"))
}
