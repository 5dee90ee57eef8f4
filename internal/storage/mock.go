package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// MockStore is an in-memory Store for testing.
type MockStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*world.State

	// Error injection
	PingError error
	SaveError error
	LoadError error
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		states: make(map[uuid.UUID]*world.State),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) SaveState(ctx context.Context, id uuid.UUID, gs *world.State) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	copied, err := gs.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = copied
	return nil
}

func (m *MockStore) LoadState(ctx context.Context, id uuid.UUID) (*world.State, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	gs, ok := m.states[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return gs.Clone()
}

func (m *MockStore) DeleteState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// SaveCount returns the number of stored sessions.
func (m *MockStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
