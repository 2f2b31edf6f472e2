package buyercache

import (
	"context"
	"sync"
)

// MemoryCache is the redis-free Cache used in tests and no-redis dev mode.
// Hydration is still explicit so callers exercise the same lifecycle.
type MemoryCache struct {
	mu     sync.RWMutex
	loaded bool
	orders []CachedOrder
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Seed pre-populates the not-yet-loaded cache, standing in for whatever a
// previous session persisted.
func (m *MemoryCache) Seed(orders ...CachedOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]CachedOrder(nil), orders...)
}

func (m *MemoryCache) Load(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true
	return nil
}

func (m *MemoryCache) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

func (m *MemoryCache) List(_ context.Context) ([]CachedOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]CachedOrder, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *MemoryCache) IDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return nil, ErrNotLoaded
	}
	ids := make([]string, 0, len(m.orders))
	for _, order := range m.orders {
		ids = append(ids, order.ID)
	}
	return ids, nil
}

func (m *MemoryCache) Put(_ context.Context, order CachedOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ErrNotLoaded
	}
	for i := range m.orders {
		if m.orders[i].ID == order.ID {
			m.orders[i] = order
			return nil
		}
	}
	m.orders = append([]CachedOrder{order}, m.orders...)
	return nil
}

func (m *MemoryCache) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ErrNotLoaded
	}
	for i, order := range m.orders {
		if order.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return nil
}
