// Package buyercache holds the buyer's persisted "my orders" mirror. The
// cache is render-only: it is written optimistically by the buyer's own
// actions and pruned by reconciliation, and must never be consulted to
// decide business logic.
package buyercache

import (
	"context"
	"errors"
	"time"
)

var ErrNotLoaded = errors.New("buyer cache not loaded")

type CachedItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// CachedOrder is the reduced projection the buyer keeps locally.
type CachedOrder struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	ETA       string       `json:"eta"`
	Timestamp time.Time    `json:"timestamp"`
	Amount    int64        `json:"amount"`
	Items     []CachedItem `json:"items"`
}

// Cache is a per-buyer persisted order list. Load is the explicit hydration
// phase: every accessor fails ErrNotLoaded until it has completed, so an
// unhydrated cache can never masquerade as a confirmed-empty one.
type Cache interface {
	Load(ctx context.Context) error
	Loaded() bool
	List(ctx context.Context) ([]CachedOrder, error)
	IDs(ctx context.Context) ([]string, error)
	// Put replaces the entry with the same id, or appends at the front.
	Put(ctx context.Context, order CachedOrder) error
	Remove(ctx context.Context, id string) error
}
