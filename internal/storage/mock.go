package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// MockStore is an in-memory SceneStore for tests.
type MockStore struct {
	mu     sync.RWMutex
	scenes map[uuid.UUID]*scene.SceneDefinition

	PingErr error
	SaveErr error
	LoadErr error
}

var _ SceneStore = (*MockStore)(nil)

// NewMockStore creates an empty in-memory scene store.
func NewMockStore() *MockStore {
	return &MockStore{
		scenes: make(map[uuid.UUID]*scene.SceneDefinition),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) SaveScene(ctx context.Context, id uuid.UUID, sc *scene.SceneDefinition) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sc.UpdatedAt = time.Now()
	cp := *sc
	m.scenes[id] = &cp
	return nil
}

func (m *MockStore) LoadScene(ctx context.Context, id uuid.UUID) (*scene.SceneDefinition, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sc, ok := m.scenes[id]
	if !ok {
		return nil, nil
	}
	cp := *sc
	return &cp, nil
}

func (m *MockStore) DeleteScene(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scenes, id)
	return nil
}
