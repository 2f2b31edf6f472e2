package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

type EventKind string

const (
	EventCreated EventKind = "CREATED"
	EventUpdated EventKind = "UPDATED"
	EventDeleted EventKind = "DELETED"
)

// Tracked table names. One logical channel per table.
const (
	TableOrders    = "orders"
	TableProducts  = "products"
	TableCustomers = "customers"
	TableSettings  = "settings"
	TableUsers     = "users"
)

// Event carries the full new row image (last-known image for DELETED).
// Subscribers replace their local copy wholesale; there is no field merge.
type Event struct {
	Kind  EventKind       `json:"kind"`
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`
}

// NewEvent marshals row into an event for table.
func NewEvent(kind EventKind, table string, row any) (Event, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s row: %w", table, err)
	}
	return Event{Kind: kind, Table: table, Row: payload}, nil
}

type Handler func(Event)

// Bus fans events out to subscribers. Delivery is at-most-once and
// best-effort: a subscriber that misses an event stays divergent until its
// next full reconciliation or reload.
type Bus interface {
	Publish(Event)
	// Subscribe registers a handler for one table and returns an
	// unsubscribe func. Handlers must not mutate shared state, only their
	// own projection.
	Subscribe(table string, h Handler) (unsubscribe func())
}

type subscription struct {
	id      int
	handler Handler
}

// InProcBus delivers synchronously, in subscription order, on the
// publisher's goroutine. Same-row events therefore reach every subscriber
// in commit order.
type InProcBus struct {
	mu   sync.RWMutex
	subs map[string][]subscription
	next int
}

func NewInProcBus() *InProcBus {
	return &InProcBus{subs: make(map[string][]subscription)}
}

func (b *InProcBus) Subscribe(table string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.subs[table] = append(b.subs[table], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[table]
		for i, s := range list {
			if s.id == id {
				b.subs[table] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *InProcBus) Publish(evt Event) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[evt.Table]))
	copy(list, b.subs[evt.Table])
	b.mu.RUnlock()

	for _, s := range list {
		deliver(s.handler, evt)
	}
}

// deliver isolates one handler call: a panicking subscriber is logged and
// must not stop delivery to the remaining subscribers.
func deliver(h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("feed: handler panic on %s %s: %v", evt.Kind, evt.Table, r)
		}
	}()
	h(evt)
}
