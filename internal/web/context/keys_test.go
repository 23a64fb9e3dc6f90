package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/registry"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = SetRequestID(ctx, "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	_, ok := GetRegistry(ctx)
	assert.False(t, ok)

	site := content.NewSite("http://localhost")
	reg := registry.New(options.NewMemoryStore(nil), site, site)
	ctx = SetRegistry(ctx, reg)

	got, ok := GetRegistry(ctx)
	assert.True(t, ok)
	assert.Same(t, reg, got)

	_, ok = GetRegistry(SetRegistry(context.Background(), nil))
	assert.False(t, ok)
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := zap.NewExample()
	assert.Same(t, logger, GetLogger(SetLogger(context.Background(), logger)))
}
