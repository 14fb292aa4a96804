package storage

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// MemoryKV is a process-local KV. Values do not survive a restart.
type MemoryKV struct {
	mu     sync.RWMutex
	items  map[string][]byte
	closed bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (m *MemoryKV) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.items[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

// Set stores a key-value pair.
func (m *MemoryKV) Set(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items[string(key)] = bytes.Clone(value)
	return nil
}

// Delete removes a key.
func (m *MemoryKV) Delete(_ context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, string(key))
	return nil
}

// Scan iterates over keys with a given prefix in lexical order.
func (m *MemoryKV) Scan(_ context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	snapshot := make([][]byte, len(keys))
	for i, k := range keys {
		snapshot[i] = bytes.Clone(m.items[k])
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if !fn([]byte(k), snapshot[i]) {
			break
		}
	}
	return nil
}

// Close marks the store closed. Further calls return ErrClosed.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
