package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGracefulShutdown_ContextCancel(t *testing.T) {
	cfg := DefaultConfig(okHandler())
	cfg.Address = "127.0.0.1:0"
	srv, err := New(cfg)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	gs := NewGracefulShutdown(srv, &ShutdownConfig{Timeout: time.Second, Logger: zap.New(core)})

	var order []string
	gs.RegisterHook(func(ctx context.Context) error {
		order = append(order, "first")
		return errors.New("flush failed")
	})
	gs.RegisterHook(func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Start(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("server listening").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("graceful shutdown did not finish")
	}

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, logs.FilterMessage("shutdown hook failed").Len())
	assert.NoError(t, gs.Wait())

	// Shutdown is idempotent
	assert.NoError(t, gs.Shutdown())
	assert.Len(t, order, 2)
}

func TestGracefulShutdown_ListenError(t *testing.T) {
	srv, err := New(&Config{Address: "256.0.0.1:bad", Handler: okHandler()})
	require.NoError(t, err)

	gs := NewGracefulShutdown(srv, nil)
	assert.Error(t, gs.Start(context.Background()))
}
