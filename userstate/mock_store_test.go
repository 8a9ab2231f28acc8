package userstate

import (
	"context"
	"errors"
	"sync"
)

var errStoreDown = errors.New("store unavailable")

// mockStore is an in-memory KeyValueStore whose operations can be made to fail.
type mockStore struct {
	mu         sync.Mutex
	values     map[string]string
	failGet    bool
	failSet    bool
	failRemove bool
	sets       int
}

func newMockStore(initial map[string]string) *mockStore {
	values := make(map[string]string)
	for k, v := range initial {
		values[k] = v
	}
	return &mockStore{values: values}
}

func (m *mockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errStoreDown
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errStoreDown
	}
	m.sets++
	m.values[key] = value
	return nil
}

func (m *mockStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRemove {
		return errStoreDown
	}
	delete(m.values, key)
	return nil
}

func (m *mockStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
