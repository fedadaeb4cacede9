package staging

import (
	"context"
	"errors"
	"sync"

	"github.com/veclake/veclake/resource"
)

// mockStore is an in-test ObjectStore with hooks for fault injection.
type mockStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	putCalls int
	getCalls int

	// failPutAt makes the n-th Put call (1-based) fail.
	failPutAt int
	// dropFromGet removes that many payloads from each Get result to
	// simulate an adapter violating its count contract.
	dropFromGet int
}

var errInjected = errors.New("injected store failure")

func newMockStore() *mockStore {
	return &mockStore{objects: make(map[string][]byte)}
}

func (m *mockStore) Put(_ context.Context, names []string, payloads [][]byte) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++
	if m.failPutAt > 0 && m.putCalls == m.failPutAt {
		return nil, errInjected
	}

	sizes := make(map[string]int64, len(names))
	for i, name := range names {
		m.objects[name] = payloads[i]
		sizes[name] = int64(len(payloads[i]))
	}
	return sizes, nil
}

func (m *mockStore) Get(_ context.Context, names []string, _ resource.Priority) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	out := make([][]byte, 0, len(names))
	for _, name := range names {
		data, ok := m.objects[name]
		if !ok {
			return nil, errors.New("not found: " + name)
		}
		out = append(out, data)
	}
	if m.dropFromGet > 0 && len(out) >= m.dropFromGet {
		out = out[:len(out)-m.dropFromGet]
	}
	return out, nil
}
