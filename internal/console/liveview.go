// Package console holds the staff-side live operational view: an in-memory,
// non-persisted projection of every order, kept current by the change feed.
package console

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
)

// DefaultRefreshInterval is how often the view refetches the full order
// list. The feed is at-most-once, so a dropped event would otherwise leave
// the console divergent until a manual reload.
const DefaultRefreshInterval = 5 * time.Minute

type OrderSource interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// LiveView keeps orders newest-first. It only ever mutates its own copy:
// events replace whole rows, never individual fields.
type LiveView struct {
	mu     sync.RWMutex
	orders []*domain.Order
	index  map[string]int

	source      OrderSource
	bus         feed.Bus
	refresh     time.Duration
	unsubscribe func()
	stop        chan struct{}
	wg          sync.WaitGroup
}

func NewLiveView(source OrderSource, bus feed.Bus, refresh time.Duration) *LiveView {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return &LiveView{
		index:   make(map[string]int),
		source:  source,
		bus:     bus,
		refresh: refresh,
		stop:    make(chan struct{}),
	}
}

// Start hydrates the projection, subscribes to the orders feed, and begins
// the periodic full refetch.
func (v *LiveView) Start(ctx context.Context) error {
	if err := v.reload(ctx); err != nil {
		return err
	}

	v.unsubscribe = v.bus.Subscribe(feed.TableOrders, v.apply)

	v.wg.Add(1)
	go v.refreshLoop()
	return nil
}

// Close tears the subscription down and stops the refresh loop. There is
// nothing to roll back; the projection simply stops updating.
func (v *LiveView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
	close(v.stop)
	v.wg.Wait()
}

// Orders returns a snapshot copy, newest first.
func (v *LiveView) Orders() []domain.Order {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.Order, 0, len(v.orders))
	for _, order := range v.orders {
		out = append(out, *order)
	}
	return out
}

func (v *LiveView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.orders)
}

func (v *LiveView) refreshLoop() {
	defer v.wg.Done()

	ticker := time.NewTicker(v.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := v.reload(context.Background()); err != nil {
				// Non-fatal: keep serving the current projection and
				// retry on the next tick.
				log.Printf("console: full refresh failed: %v", err)
			}
		case <-v.stop:
			return
		}
	}
}

// reload replaces the projection wholesale from the record store.
func (v *LiveView) reload(ctx context.Context) error {
	orders, err := v.source.ListOrders(ctx)
	if err != nil {
		return err
	}

	index := make(map[string]int, len(orders))
	for i, order := range orders {
		index[order.ID] = i
	}

	v.mu.Lock()
	v.orders = orders
	v.index = index
	v.mu.Unlock()
	return nil
}

// apply merges one feed event: CREATED appends if absent, UPDATED replaces
// by id (inserting if the row is unknown), DELETED removes by id.
func (v *LiveView) apply(evt feed.Event) {
	var order domain.Order
	if err := json.Unmarshal(evt.Row, &order); err != nil {
		log.Printf("console: skipping malformed %s event: %v", evt.Kind, err)
		return
	}
	if order.ID == "" {
		log.Printf("console: skipping %s event without row id", evt.Kind)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch evt.Kind {
	case feed.EventCreated:
		if _, exists := v.index[order.ID]; exists {
			return
		}
		v.insertFront(&order)

	case feed.EventUpdated:
		if i, exists := v.index[order.ID]; exists {
			v.orders[i] = &order
			return
		}
		// An update for a row this view never saw: treat it as the
		// row's first appearance rather than dropping it.
		v.insertFront(&order)

	case feed.EventDeleted:
		i, exists := v.index[order.ID]
		if !exists {
			return
		}
		v.orders = append(v.orders[:i], v.orders[i+1:]...)
		delete(v.index, order.ID)
		for j := i; j < len(v.orders); j++ {
			v.index[v.orders[j].ID] = j
		}
	}
}

func (v *LiveView) insertFront(order *domain.Order) {
	v.orders = append([]*domain.Order{order}, v.orders...)
	for i, o := range v.orders {
		v.index[o.ID] = i
	}
}
