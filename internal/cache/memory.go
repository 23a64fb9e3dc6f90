package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired in-process entries are purged
const DefaultCleanupInterval = 5 * time.Minute

// MemoryCache is an in-process cache backed by go-cache
type MemoryCache struct {
	cache  *gocache.Cache
	config Config
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithConfig(DefaultConfig())
}

// NewMemoryCacheWithConfig creates a new in-memory cache with custom configuration
func NewMemoryCacheWithConfig(config Config) *MemoryCache {
	return &MemoryCache{
		cache:  gocache.New(config.DefaultTTL, DefaultCleanupInterval),
		config: config,
	}
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, found := m.cache.Get(m.config.Prefix + key)
	if !found {
		return nil, ErrCacheMiss{Key: key}
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ErrCacheMiss{Key: key}
	}
	return data, nil
}

// Set stores a value in the cache. A zero TTL uses the default TTL; a
// negative TTL stores the value without expiration.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case ttl == 0:
		ttl = gocache.DefaultExpiration
	case ttl < 0:
		ttl = gocache.NoExpiration
	}

	m.cache.Set(m.config.Prefix+key, value, ttl)
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.cache.Delete(m.config.Prefix + key)
	return nil
}

// Clear removes all values with this cache's prefix
func (m *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for key := range m.cache.Items() {
		if strings.HasPrefix(key, m.config.Prefix) {
			m.cache.Delete(key)
		}
	}
	return nil
}

// Exists checks if a key exists in the cache
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, found := m.cache.Get(m.config.Prefix + key)
	return found, nil
}

// Len returns the number of unexpired entries
func (m *MemoryCache) Len() int {
	return m.cache.ItemCount()
}
