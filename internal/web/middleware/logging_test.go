package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	webctx "github.com/dougwollison/index-pages/internal/web/context"
)

func TestLogging_AccessLine(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := NewChain(RequestID(), Logging(zap.New(core))).Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/events/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/events/", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(5), fields["bytes"])
}

func TestLogging_DefaultStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusOK), logs.All()[0].ContextMap()["status"])
	_, hasID := logs.All()[0].ContextMap()["request_id"]
	assert.False(t, hasID)
}

func TestLogging_SkipPaths(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	var requestLogger *zap.Logger
	handler := LoggingWithConfig(LoggingConfig{Logger: zap.New(core), SkipPaths: []string{"/healthz"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestLogger = webctx.GetLogger(r.Context())
		}),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, 0, logs.Len())
	require.NotNil(t, requestLogger)

	requestLogger.Info("from handler")
	assert.Equal(t, 1, logs.Len())
}
