package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/buyercache"
)

// MyOrdersHandler serves the buyer's locally persisted order list. Each
// request hydrates the buyer's cache if needed and runs one reconciliation
// pass before rendering, so ids deleted server-side disappear here too.
type MyOrdersHandler struct {
	caches  *buyercache.Manager
	checker buyercache.ExistenceChecker
	timeout time.Duration

	mu          sync.Mutex
	reconcilers map[string]*buyercache.Reconciler
}

func NewMyOrdersHandler(caches *buyercache.Manager, checker buyercache.ExistenceChecker, timeout time.Duration) *MyOrdersHandler {
	return &MyOrdersHandler{
		caches:      caches,
		checker:     checker,
		timeout:     timeout,
		reconcilers: make(map[string]*buyercache.Reconciler),
	}
}

// reconcilerFor keeps one reconciler (and so one circuit breaker) per buyer.
func (h *MyOrdersHandler) reconcilerFor(buyerID string, cache buyercache.Cache) *buyercache.Reconciler {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, exists := h.reconcilers[buyerID]; exists {
		return rec
	}
	rec := buyercache.NewReconciler(cache, h.checker)
	h.reconcilers[buyerID] = rec
	return rec
}

// GET /my-orders
func (h *MyOrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerID := getBuyerIDFromContext(r.Context())
	if buyerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing buyer identity")
		return
	}

	cache := h.caches.ForBuyer(buyerID)
	if !cache.Loaded() {
		if err := cache.Load(ctx); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	// Best-effort: a failed pass leaves the cache as-is and we still
	// render whatever is there.
	_ = h.reconcilerFor(buyerID, cache).Run(ctx)

	orders, err := cache.List(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []buyercache.CachedOrder{}
	}

	respondJSON(w, http.StatusOK, orders)
}
