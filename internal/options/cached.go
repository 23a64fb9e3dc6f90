package options

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/cache"
)

// CachedStore is a read-through cache in front of another Store. Missing
// rows are cached too, so an unbound site does not hit storage on every
// request. Writes go to the underlying store and invalidate the cache.
type CachedStore struct {
	store  Store
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

type cachedRow struct {
	Value string `json:"v"`
	Found bool   `json:"f"`
}

// NewCachedStore wraps store with c. A zero ttl uses the cache's default.
func NewCachedStore(store Store, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{store: store, cache: c, ttl: ttl, logger: logger}
}

// Get returns a single row, from cache when possible
func (s *CachedStore) Get(ctx context.Context, name string) (string, bool, error) {
	key := "opt:" + name

	if data, err := s.cache.Get(ctx, key); err == nil {
		var row cachedRow
		if err := json.Unmarshal(data, &row); err == nil {
			return row.Value, row.Found, nil
		}
	} else if !cache.IsCacheMiss(err) {
		s.logger.Warn("option cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, found, err := s.store.Get(ctx, name)
	if err != nil {
		return "", false, err
	}

	s.put(ctx, key, cachedRow{Value: value, Found: found})
	return value, found, nil
}

// Scan returns all rows with the prefix, from cache when possible
func (s *CachedStore) Scan(ctx context.Context, prefix string) ([]Option, error) {
	key := "scan:" + prefix

	if data, err := s.cache.Get(ctx, key); err == nil {
		var rows []Option
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
	} else if !cache.IsCacheMiss(err) {
		s.logger.Warn("option cache read failed", zap.String("key", key), zap.Error(err))
	}

	rows, err := s.store.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	s.put(ctx, key, rows)
	return rows, nil
}

// Set writes through to the underlying store
func (s *CachedStore) Set(ctx context.Context, name, value string) error {
	w, ok := s.store.(Writer)
	if !ok {
		return fmt.Errorf("option store %T is read-only", s.store)
	}
	if err := w.Set(ctx, name, value); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

// Delete deletes from the underlying store
func (s *CachedStore) Delete(ctx context.Context, name string) error {
	w, ok := s.store.(Writer)
	if !ok {
		return fmt.Errorf("option store %T is read-only", s.store)
	}
	if err := w.Delete(ctx, name); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedStore) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("option cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Scans cannot be invalidated by name, so every write clears the cache.
func (s *CachedStore) invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to invalidate option cache: %w", err)
	}
	return nil
}
