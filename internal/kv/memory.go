package kv

import (
	"slices"
	"sync"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var _ types.KV = (*Memory)(nil)

// Memory is a map-backed store. Values are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, types.ErrStoreClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, types.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
