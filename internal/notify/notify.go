// Package notify routes reconciliation results to an external channel.
// Delivery is best-effort by contract: a persisted snapshot stands no
// matter what happens here.
package notify

import (
	"context"
	"time"

	"github.com/picknship/backend/internal/reconcile"
	"github.com/picknship/backend/internal/repo"
)

// Sink is the delivery channel. Implementations report failure through
// the error return; the Router decides what to do with it (nothing).
type Sink interface {
	OrderCreated(ctx context.Context, o repo.Snapshot) error
	OrderUpdated(ctx context.Context, orderID, storeID string, changes reconcile.Diff) error
	StoreInstalled(ctx context.Context, s repo.Store) error
}

const sendTimeout = 10 * time.Second

type Router struct {
	sink Sink
	logf func(string, ...any)
}

func NewRouter(sink Sink, logf func(string, ...any)) *Router {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Router{sink: sink, logf: logf}
}

// OrderReconciled fires a "created" event for a first-seen order, an
// "updated" event when the diff is non-empty, and nothing for an
// unchanged replay. Transport failures are logged and swallowed.
func (r *Router) OrderReconciled(ctx context.Context, isNew bool, o repo.Snapshot, d reconcile.Diff) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	switch {
	case isNew:
		if err := r.sink.OrderCreated(ctx, o); err != nil {
			r.logf("[NOTIFY] order created %s/%s: %v", o.OrderID, o.StoreID, err)
		}
	case len(d) > 0:
		if err := r.sink.OrderUpdated(ctx, o.OrderID, o.StoreID, d); err != nil {
			r.logf("[NOTIFY] order updated %s/%s: %v", o.OrderID, o.StoreID, err)
		}
	}
}

// StoreInstalled announces a new merchant installation, best-effort.
func (r *Router) StoreInstalled(ctx context.Context, s repo.Store) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := r.sink.StoreInstalled(ctx, s); err != nil {
		r.logf("[NOTIFY] store installed %s: %v", s.StoreID, err)
	}
}
