package repository

import (
	"context"
	"sync"
)

// MemoryStore is an in-process KeyValueStore. It is the default backend and
// the fake used by tests.
type MemoryStore struct {
	mu   sync.RWMutex
	Data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Data: make(map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Data[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Data, key)
	return nil
}
