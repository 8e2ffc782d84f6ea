package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. Used by tests and the memory backend.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailPut, when set, is returned by every Put.
	FailPut error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// SetFailPut makes subsequent Puts fail with err; nil restores writes.
func (m *MemoryStore) SetFailPut(err error) {
	m.mu.Lock()
	m.FailPut = err
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error { return nil }
