package options

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory ReadWriter, used for fixtures and tests
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]string
}

// NewMemoryStore creates a MemoryStore seeded with rows
func NewMemoryStore(rows map[string]string) *MemoryStore {
	m := &MemoryStore{rows: make(map[string]string, len(rows))}
	for k, v := range rows {
		m.rows[k] = v
	}
	return m
}

// Get returns a single row
func (m *MemoryStore) Get(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.rows[name]
	return value, ok, nil
}

// Scan returns all rows with the prefix, sorted by name
func (m *MemoryStore) Scan(ctx context.Context, prefix string) ([]Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Option, 0)
	for name, value := range m.rows {
		if strings.HasPrefix(name, prefix) {
			result = append(result, Option{Name: name, Value: value})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Set stores a row
func (m *MemoryStore) Set(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[name] = value
	return nil
}

// Delete removes a row
func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[name]; !ok {
		return ErrNotFound
	}
	delete(m.rows, name)
	return nil
}
