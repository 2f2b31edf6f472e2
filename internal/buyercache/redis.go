package buyercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisCache persists one buyer's order list as a single JSON document.
// Unlike a lookaside cache there is no TTL: this is the buyer's durable
// local state, refreshed whole on every write.
type RedisCache struct {
	client *redis.Client
	key    string

	mu     sync.RWMutex
	loaded bool
	orders []CachedOrder
}

func NewRedisCache(client *redis.Client, buyerID string) *RedisCache {
	return &RedisCache{
		client: client,
		key:    cacheKey(buyerID),
	}
}

func cacheKey(buyerID string) string {
	return fmt.Sprintf("myorders:%s", buyerID)
}

// Load hydrates the in-memory copy from redis. A missing key means a buyer
// with no orders yet; that is a confirmed-empty cache, not a failure.
func (r *RedisCache) Load(ctx context.Context) error {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.mu.Lock()
		r.orders = nil
		r.loaded = true
		r.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	var orders []CachedOrder
	if err2 := json.Unmarshal(data, &orders); err2 != nil {
		return fmt.Errorf("unmarshal cached orders failed: %w", err2)
	}

	r.mu.Lock()
	r.orders = orders
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *RedisCache) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *RedisCache) List(_ context.Context) ([]CachedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]CachedOrder, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *RedisCache) IDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, ErrNotLoaded
	}
	ids := make([]string, 0, len(r.orders))
	for _, order := range r.orders {
		ids = append(ids, order.ID)
	}
	return ids, nil
}

func (r *RedisCache) Put(ctx context.Context, order CachedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return ErrNotLoaded
	}

	replaced := false
	for i := range r.orders {
		if r.orders[i].ID == order.ID {
			r.orders[i] = order
			replaced = true
			break
		}
	}
	if !replaced {
		r.orders = append([]CachedOrder{order}, r.orders...)
	}

	return r.persist(ctx)
}

func (r *RedisCache) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return ErrNotLoaded
	}

	for i, order := range r.orders {
		if order.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return r.persist(ctx)
		}
	}
	return nil
}

// persist writes the whole document back; callers hold the lock.
func (r *RedisCache) persist(ctx context.Context) error {
	data, err := json.Marshal(r.orders)
	if err != nil {
		return fmt.Errorf("marshal cached orders failed: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
