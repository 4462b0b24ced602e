package cache

import (
	"context"
	"itinerary-planner-service/internal/domain"
	"sync"
)

// In-memory coordinate store, used by tests and by the CLI when no backend is configured.
type MemoryCoordinateStore struct {
	mu    sync.RWMutex
	store map[string]domain.Coordinates
}

func NewMemoryCoordinateStore() *MemoryCoordinateStore {
	return &MemoryCoordinateStore{store: make(map[string]domain.Coordinates)}
}

func (m *MemoryCoordinateStore) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		if c, ok := m.store[a]; ok {
			out[a] = c
		}
	}
	return out, nil
}

func (m *MemoryCoordinateStore) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for addr, c := range results {
		if _, ok := m.store[addr]; ok {
			continue
		}
		m.store[addr] = c
	}
	return nil
}

func (m *MemoryCoordinateStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
