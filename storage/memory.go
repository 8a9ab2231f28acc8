// Package storage provides the key-value backends behind user state: an
// in-process map, a JSON file on disk and Redis.
package storage

import (
	"context"
	"sync"

	"github.com/giygas/emergency-reference/interfaces"
)

// Compile-time checks
var (
	_ interfaces.KeyValueStore = (*MemoryStore)(nil)
	_ interfaces.KeyValueStore = (*FileStore)(nil)
	_ interfaces.KeyValueStore = (*RedisStore)(nil)
)

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
