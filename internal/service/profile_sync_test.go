package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
)

// countingUserRepo wraps the store so tests can assert how many profile
// writes actually happened.
type countingUserRepo struct {
	repository.UserRepository
	profileWrites int
}

func (r *countingUserRepo) UpdateUserProfile(ctx context.Context, id string, profile domain.Profile) error {
	r.profileWrites++
	return r.UserRepository.UpdateUserProfile(ctx, id, profile)
}

func newTestProfileSync(t *testing.T) (*ProfileSyncService, *countingUserRepo, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := &countingUserRepo{UserRepository: store}
	return NewProfileSyncService(users, store, feed.NewInProcBus()), users, store
}

func seedAdmin(t *testing.T, store *repository.MemoryStore, id, email string, createdAt time.Time) {
	t.Helper()
	err := store.CreateUser(context.Background(), &domain.User{
		ID:        id,
		Name:      "Admin",
		Email:     email,
		Role:      domain.RoleAdmin,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestSyncAdmin_WritesOnceThenConverges(t *testing.T) {
	svc, users, store := newTestProfileSync(t)
	ctx := context.Background()
	seedAdmin(t, store, "u1", "old@toko.id", time.Now())

	in := SyncAdminInput{
		Name:     "Ibu Sari",
		Email:    "sari@toko.id",
		Avatar:   "/avatars/sari.png",
		OldEmail: "old@toko.id",
	}

	skipped, err := svc.SyncAdmin(ctx, in)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 1, users.profileWrites)

	admin, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "sari@toko.id", admin.Email)
	assert.Equal(t, "Ibu Sari", admin.Name)

	// A replay of the same sync (the would-be echo) writes nothing.
	in.OldEmail = "sari@toko.id"
	skipped, err = svc.SyncAdmin(ctx, in)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, 1, users.profileWrites)
}

func TestSyncAdmin_FallsBackToFirstAdmin(t *testing.T) {
	svc, users, store := newTestProfileSync(t)
	ctx := context.Background()
	seedAdmin(t, store, "older", "a@toko.id", time.Now().Add(-time.Hour))
	seedAdmin(t, store, "newer", "b@toko.id", time.Now())

	// OldEmail matches no admin, so the oldest admin row is the target.
	skipped, err := svc.SyncAdmin(ctx, SyncAdminInput{
		Name:     "Ibu Sari",
		Email:    "sari@toko.id",
		OldEmail: "drifted@toko.id",
	})
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 1, users.profileWrites)

	older, err := store.GetUserByID(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, "sari@toko.id", older.Email)

	newer, err := store.GetUserByID(ctx, "newer")
	require.NoError(t, err)
	assert.Equal(t, "b@toko.id", newer.Email, "only the fallback target is touched")
}

func TestSyncAdmin_NoAdminFound(t *testing.T) {
	svc, _, store := newTestProfileSync(t)
	ctx := context.Background()

	// A staff user alone does not satisfy the sync.
	require.NoError(t, store.CreateUser(ctx, &domain.User{
		ID: "s1", Email: "staff@toko.id", Role: domain.RoleStaff,
	}))

	_, err := svc.SyncAdmin(ctx, SyncAdminInput{Email: "sari@toko.id", OldEmail: "old@toko.id"})
	assert.ErrorIs(t, err, ErrNoAdminFound)
}

func TestSaveProfile_PersistsSettingsAndSyncs(t *testing.T) {
	svc, users, store := newTestProfileSync(t)
	ctx := context.Background()
	seedAdmin(t, store, "u1", "old@toko.id", time.Now())

	profile := domain.Profile{Name: "Ibu Sari", Email: "sari@toko.id", Avatar: "/avatars/sari.png"}
	skipped, err := svc.SaveProfile(ctx, profile, "old@toko.id")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 1, users.profileWrites)

	saved, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, *saved)

	admin, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, profile, admin.Profile())
}

func TestSaveProfile_NoOpSaveStillSkipsUserWrite(t *testing.T) {
	svc, users, store := newTestProfileSync(t)
	ctx := context.Background()
	seedAdmin(t, store, "u1", "sari@toko.id", time.Now())
	require.NoError(t, store.UpdateUserProfile(ctx, "u1",
		domain.Profile{Name: "Ibu Sari", Email: "sari@toko.id", Avatar: "/a.png"}))
	users.profileWrites = 0

	profile := domain.Profile{Name: "Ibu Sari", Email: "sari@toko.id", Avatar: "/a.png"}
	skipped, err := svc.SaveProfile(ctx, profile, "sari@toko.id")
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, 0, users.profileWrites)
}
