package blobstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/veclake/veclake/resource"
)

// MemoryStore is an in-memory ObjectStore for tests and embedded use.
// Thread-safe for concurrent calls.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

// Put stores each payload under its name.
func (m *MemoryStore) Put(_ context.Context, names []string, payloads [][]byte) (map[string]int64, error) {
	if len(names) != len(payloads) {
		return nil, fmt.Errorf("blobstore: %d names but %d payloads", len(names), len(payloads))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sizes := make(map[string]int64, len(names))
	for i, name := range names {
		// Copy to prevent external mutation.
		data := make([]byte, len(payloads[i]))
		copy(data, payloads[i])
		m.objects[name] = data
		sizes[name] = int64(len(data))
	}
	return sizes, nil
}

// Get returns the payloads for names in input order.
func (m *MemoryStore) Get(_ context.Context, names []string, _ resource.Priority) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, len(names))
	for i, name := range names {
		data, ok := m.objects[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		copied := make([]byte, len(data))
		copy(copied, data)
		out[i] = copied
	}
	return out, nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Names returns all stored object names in unspecified order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.objects))
	for name := range m.objects {
		names = append(names, name)
	}
	return names
}
