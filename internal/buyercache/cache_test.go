package buyercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

func TestMemoryCache_AccessorsGateOnLoad(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	assert.False(t, cache.Loaded())
	_, err := cache.List(ctx)
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = cache.IDs(ctx)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, cache.Put(ctx, CachedOrder{ID: "A"}), ErrNotLoaded)
	assert.ErrorIs(t, cache.Remove(ctx, "A"), ErrNotLoaded)

	require.NoError(t, cache.Load(ctx))
	assert.True(t, cache.Loaded())

	orders, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "confirmed-empty, not unknown")
}

func TestMemoryCache_PutReplacesOrPrepends(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Load(ctx))

	require.NoError(t, cache.Put(ctx, CachedOrder{ID: "A", Status: "PENDING"}))
	require.NoError(t, cache.Put(ctx, CachedOrder{ID: "B", Status: "PENDING"}))
	require.NoError(t, cache.Put(ctx, CachedOrder{ID: "A", Status: "PROCESSING"}))

	orders, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "B", orders[0].ID)
	assert.Equal(t, "A", orders[1].ID)
	assert.Equal(t, "PROCESSING", orders[1].Status)
}

func TestMemoryCache_RemoveUnknownIsNoOp(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	require.NoError(t, cache.Load(ctx))
	require.NoError(t, cache.Put(ctx, CachedOrder{ID: "A"}))

	require.NoError(t, cache.Remove(ctx, "ghost"))

	orders, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestManager_ReturnsSameCachePerBuyer(t *testing.T) {
	manager := NewMemoryManager()

	a := manager.ForBuyer("buyer-1")
	b := manager.ForBuyer("buyer-1")
	other := manager.ForBuyer("buyer-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}

func TestFromOrder_ProjectsRow(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:        "o-1",
		Status:    domain.OrderStatusProcessing,
		Amount:    50000,
		CreatedAt: created,
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Keripik", Image: "/img/p1.png", UnitPrice: 15000, Quantity: 2},
		},
	}

	cached := FromOrder(order, "06 Aug 2026")

	assert.Equal(t, "o-1", cached.ID)
	assert.Equal(t, "PROCESSING", cached.Status)
	assert.Equal(t, "06 Aug 2026", cached.ETA)
	assert.Equal(t, created, cached.Timestamp)
	assert.Equal(t, int64(50000), cached.Amount)
	require.Len(t, cached.Items, 1)
	assert.Equal(t, CachedItem{ID: "p1", Name: "Keripik", Image: "/img/p1.png", Quantity: 2, Price: 15000}, cached.Items[0])
}
