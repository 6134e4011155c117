package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/picknship/backend/internal/repo"
)

var ErrBadKey = errors.New("missing order_id or store_id")

// SnapshotStore is the durable Order Store consumed by the reconciler.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, orderID, storeID string) (repo.Snapshot, error)
	UpsertSnapshot(ctx context.Context, s repo.Snapshot) error
}

type Reconciler struct {
	store SnapshotStore
	locks keyLock
	now   func() time.Time
}

func New(store SnapshotStore) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// Reconcile decides whether the incoming snapshot is new or changed.
// First event for a key inserts it verbatim and reports isNew=true.
// Later events replace the stored snapshot unconditionally and report
// the diff against it, which may be empty; replaying the same event
// twice yields an empty diff the second time. Storage failures abort
// before any partial write so the sender's retry can re-deliver.
func (r *Reconciler) Reconcile(ctx context.Context, s repo.Snapshot) (bool, Diff, error) {
	if s.OrderID == "" || s.StoreID == "" {
		return false, nil, ErrBadKey
	}

	unlock := r.locks.lock(s.OrderID + "\x00" + s.StoreID)
	defer unlock()

	prev, err := r.store.GetSnapshot(ctx, s.OrderID, s.StoreID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		if err := r.store.UpsertSnapshot(ctx, s); err != nil {
			return false, nil, fmt.Errorf("insert snapshot: %w", err)
		}
		return true, nil, nil
	case err != nil:
		return false, nil, fmt.Errorf("load snapshot: %w", err)
	}

	d := Compare(prev, s)
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = r.now().UTC()
	}
	if err := r.store.UpsertSnapshot(ctx, s); err != nil {
		return false, nil, fmt.Errorf("replace snapshot: %w", err)
	}
	return false, d, nil
}
