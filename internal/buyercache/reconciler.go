package buyercache

import (
	"context"
	"fmt"
	"log"

	"github.com/sony/gobreaker/v2"
)

// ExistenceChecker answers one batched "which of these ids still exist"
// query against the order record store.
type ExistenceChecker interface {
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

// Reconciler prunes locally cached orders that no longer exist server-side.
// A pass is all-or-nothing: any query failure leaves the cache untouched,
// and the next trigger retries from scratch.
type Reconciler struct {
	cache   Cache
	checker ExistenceChecker
	breaker *gobreaker.CircuitBreaker[[]string]
}

func NewReconciler(cache Cache, checker ExistenceChecker) *Reconciler {
	breaker := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name: "order-reconciliation",
	})
	return &Reconciler{cache: cache, checker: checker, breaker: breaker}
}

// Run performs one reconciliation pass. It refuses to do anything while the
// cache has not finished hydrating: an unloaded cache looks empty, and
// pruning against that illusion would mask real staleness.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.cache.Loaded() {
		return nil
	}

	ids, err := r.cache.IDs(ctx)
	if err != nil {
		return fmt.Errorf("collect cached ids: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	existing, err := r.breaker.Execute(func() ([]string, error) {
		return r.checker.ExistingIDs(ctx, ids)
	})
	if err != nil {
		// Transient failure: skip this pass, prune nothing.
		log.Printf("buyercache: reconciliation skipped: %v", err)
		return nil
	}

	present := make(map[string]bool, len(existing))
	for _, id := range existing {
		present[id] = true
	}

	for _, id := range ids {
		if present[id] {
			continue
		}
		if err := r.cache.Remove(ctx, id); err != nil {
			return fmt.Errorf("prune order %s: %w", id, err)
		}
	}
	return nil
}
