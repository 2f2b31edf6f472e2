package buyercache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	existing []string
	err      error
	calls    int
}

func (c *stubChecker) ExistingIDs(context.Context, []string) ([]string, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.existing, nil
}

func loadedCache(t *testing.T, orders ...CachedOrder) *MemoryCache {
	t.Helper()
	cache := NewMemoryCache()
	cache.Seed(orders...)
	require.NoError(t, cache.Load(context.Background()))
	return cache
}

func cachedIDs(t *testing.T, cache Cache) []string {
	t.Helper()
	ids, err := cache.IDs(context.Background())
	require.NoError(t, err)
	return ids
}

func TestReconciler_PrunesMissingOrders(t *testing.T) {
	cache := loadedCache(t,
		CachedOrder{ID: "A", Status: "PROCESSING"},
		CachedOrder{ID: "B", Status: "PENDING"},
		CachedOrder{ID: "C", Status: "SHIPPED"},
	)
	checker := &stubChecker{existing: []string{"A", "C"}}

	r := NewReconciler(cache, checker)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"A", "C"}, cachedIDs(t, cache))
}

func TestReconciler_SkipsUnloadedCache(t *testing.T) {
	cache := NewMemoryCache()
	cache.Seed(CachedOrder{ID: "A"})
	checker := &stubChecker{existing: []string{}}

	r := NewReconciler(cache, checker)
	require.NoError(t, r.Run(context.Background()))

	assert.Zero(t, checker.calls, "unloaded cache must not even query")
	require.NoError(t, cache.Load(context.Background()))
	assert.Equal(t, []string{"A"}, cachedIDs(t, cache), "seeded data survives")
}

func TestReconciler_EmptyCacheSkipsQuery(t *testing.T) {
	cache := loadedCache(t)
	checker := &stubChecker{}

	r := NewReconciler(cache, checker)
	require.NoError(t, r.Run(context.Background()))
	assert.Zero(t, checker.calls)
}

func TestReconciler_QueryFailurePrunesNothing(t *testing.T) {
	cache := loadedCache(t,
		CachedOrder{ID: "A"},
		CachedOrder{ID: "B"},
	)
	checker := &stubChecker{err: errors.New("store unreachable")}

	r := NewReconciler(cache, checker)
	require.NoError(t, r.Run(context.Background()),
		"a failed pass is skipped, not surfaced")

	assert.Equal(t, []string{"A", "B"}, cachedIDs(t, cache))
}

func TestReconciler_RecoversAfterFailure(t *testing.T) {
	cache := loadedCache(t,
		CachedOrder{ID: "A"},
		CachedOrder{ID: "B"},
	)
	checker := &stubChecker{err: errors.New("store unreachable")}
	r := NewReconciler(cache, checker)

	require.NoError(t, r.Run(context.Background()))

	checker.err = nil
	checker.existing = []string{"A"}
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"A"}, cachedIDs(t, cache))
}
