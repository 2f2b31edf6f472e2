package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

func memOrder(id string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:           id,
		CustomerName: "Budi",
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Keripik", UnitPrice: 15000, Quantity: 1},
		},
		Amount:        15000,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		CreatedAt:     createdAt,
	}
}

func TestMemoryStore_OrderCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateOrder(ctx, memOrder("a", time.Now())))

	fetched, err := store.GetOrderByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Budi", fetched.CustomerName)

	fetched.Status = domain.OrderStatusProcessing
	require.NoError(t, store.UpdateOrder(ctx, fetched))

	again, err := store.GetOrderByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, again.Status)

	require.NoError(t, store.DeleteOrder(ctx, "a"))
	_, err = store.GetOrderByID(ctx, "a")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, store.DeleteOrder(ctx, "a"), ErrOrderNotFound)
}

func TestMemoryStore_UpdateMissingOrder(t *testing.T) {
	store := NewMemoryStore()
	err := store.UpdateOrder(context.Background(), memOrder("ghost", time.Now()))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryStore_ReturnsIsolatedCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.CreateOrder(ctx, memOrder("a", time.Now())))

	first, err := store.GetOrderByID(ctx, "a")
	require.NoError(t, err)
	first.CustomerName = "mutated"
	first.Items[0].Quantity = 99

	second, err := store.GetOrderByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Budi", second.CustomerName)
	assert.Equal(t, 1, second.Items[0].Quantity)
}

func TestMemoryStore_ListOrdersNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateOrder(ctx, memOrder("old", now.Add(-time.Hour))))
	require.NoError(t, store.CreateOrder(ctx, memOrder("new", now)))

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "new", orders[0].ID)
	assert.Equal(t, "old", orders[1].ID)
}

func TestMemoryStore_ListOrdersByIDsSkipsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.CreateOrder(ctx, memOrder("a", time.Now())))
	require.NoError(t, store.CreateOrder(ctx, memOrder("b", time.Now())))

	orders, err := store.ListOrdersByIDs(ctx, []string{"a", "gone", "b"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestMemoryStore_AdminLookups(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "staff", Email: "staff@toko.id", Role: domain.RoleStaff, CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "older", Email: "a@toko.id", Role: domain.RoleAdmin, CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "newer", Email: "b@toko.id", Role: domain.RoleAdmin, CreatedAt: now,
	}))

	byEmail, err := store.GetAdminByEmail(ctx, "b@toko.id")
	require.NoError(t, err)
	assert.Equal(t, "newer", byEmail.ID)

	// Staff emails never match, even exactly.
	_, err = store.GetAdminByEmail(ctx, "staff@toko.id")
	assert.ErrorIs(t, err, ErrUserNotFound)

	first, err := store.GetFirstAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "older", first.ID)
}

func TestMemoryStore_ProfileRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetProfile(ctx)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	profile := domain.Profile{Name: "Ibu Sari", Email: "sari@toko.id"}
	require.NoError(t, store.SaveProfile(ctx, profile))

	saved, err := store.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, *saved)
}
