package buyercache

import (
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

// Manager hands out one Cache per buyer. Caches are created lazily and kept
// for the life of the process; the persisted document outlives it.
type Manager struct {
	mu      sync.Mutex
	caches  map[string]Cache
	factory func(buyerID string) Cache
}

func NewManager(factory func(buyerID string) Cache) *Manager {
	return &Manager{caches: make(map[string]Cache), factory: factory}
}

// NewRedisManager builds a Manager backed by redis documents.
func NewRedisManager(client *redis.Client) *Manager {
	return NewManager(func(buyerID string) Cache {
		return NewRedisCache(client, buyerID)
	})
}

// NewMemoryManager builds a redis-free Manager for dev and tests.
func NewMemoryManager() *Manager {
	return NewManager(func(string) Cache {
		return NewMemoryCache()
	})
}

func (m *Manager) ForBuyer(buyerID string) Cache {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cache, exists := m.caches[buyerID]; exists {
		return cache
	}
	cache := m.factory(buyerID)
	m.caches[buyerID] = cache
	return cache
}

// FromOrder reduces an authoritative order row to the buyer's local
// projection.
func FromOrder(order *domain.Order, eta string) CachedOrder {
	items := make([]CachedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, CachedItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Image:    item.Image,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}
	return CachedOrder{
		ID:        order.ID,
		Status:    string(order.Status),
		ETA:       eta,
		Timestamp: order.CreatedAt,
		Amount:    order.Amount,
		Items:     items,
	}
}
