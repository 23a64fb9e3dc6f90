package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/registry"
	webctx "github.com/dougwollison/index-pages/internal/web/context"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingStore) Scan(context.Context, string) ([]options.Option, error) {
	return nil, errors.New("connection refused")
}

func TestRegistry_LoadsPerRequest(t *testing.T) {
	site := content.NewSite("http://localhost")
	store := options.NewMemoryStore(map[string]string{options.PageForPosts: "17"})

	built := 0
	factory := func() *registry.Registry {
		built++
		return registry.New(store, site, site)
	}

	var seen []*registry.Registry
	handler := Registry(factory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg, ok := webctx.GetRegistry(r.Context())
		require.True(t, ok)
		seen = append(seen, reg)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, 2, built)
	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	for _, reg := range seen {
		assert.True(t, reg.Loaded())
		pageID, ok := reg.GetIndexPage("post")
		assert.True(t, ok)
		assert.Equal(t, 17, pageID)
	}
}

func TestRegistry_StorageFailureContinues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	site := content.NewSite("http://localhost")

	called := false
	handler := NewChain(
		Logging(zap.New(core)),
		Registry(func() *registry.Registry { return registry.New(failingStore{}, site, site) }),
	).Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		reg, ok := webctx.GetRegistry(r.Context())
		require.True(t, ok)
		assert.True(t, reg.Loaded())
		_, bound := reg.GetIndexPage("post")
		assert.False(t, bound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, 1, logs.FilterMessage("serving with partial index page bindings").Len())
}
