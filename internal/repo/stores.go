package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StoresRepo is the Store Directory: one row per installed merchant,
// last-write-wins on re-authorization.
type StoresRepo struct {
	Pool     DB
	qTimeout time.Duration
}

func NewStoresRepo(pool *pgxpool.Pool) *StoresRepo {
	return &StoresRepo{Pool: pool, qTimeout: 2 * time.Second}
}

func (r *StoresRepo) withQ(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.qTimeout)
}

func (r *StoresRepo) UpsertStore(ctx context.Context, s Store) error {
	if badID(s.StoreID) {
		return ErrBadKey
	}
	if s.InstalledAt.IsZero() {
		s.InstalledAt = time.Now()
	}
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	_, err := r.Pool.Exec(ctxT, qUpsertStore,
		s.StoreID, s.Name, s.Domain, s.Email, s.AccessToken,
		s.InstalledAt.UTC(), s.ShippingConfigured,
	)
	if err != nil {
		return storageErr("upsertStore", err)
	}
	return nil
}

func (r *StoresRepo) GetStore(ctx context.Context, storeID string) (Store, error) {
	if badID(storeID) {
		return Store{}, ErrBadKey
	}
	var s Store
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	err := r.Pool.QueryRow(ctxT, qGetStore, storeID).Scan(
		&s.StoreID, &s.Name, &s.Domain, &s.Email, &s.AccessToken,
		&s.InstalledAt, &s.ShippingConfigured,
	)
	if errorsIsNoRows(err) {
		return Store{}, ErrStoreNotFound
	}
	if err != nil {
		return Store{}, storageErr("getStore", err)
	}
	return s, nil
}

func (r *StoresRepo) ListStores(ctx context.Context) ([]Store, error) {
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctxT, qListStores)
	if err != nil {
		return nil, storageErr("listStores query", err)
	}
	defer rows.Close()

	out := make([]Store, 0, 16)
	for rows.Next() {
		var s Store
		if err := rows.Scan(
			&s.StoreID, &s.Name, &s.Domain, &s.Email, &s.AccessToken,
			&s.InstalledAt, &s.ShippingConfigured,
		); err != nil {
			return nil, storageErr("listStores scan", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("listStores rows", err)
	}
	return out, nil
}

func (r *StoresRepo) MarkShippingConfigured(ctx context.Context, storeID string) error {
	if badID(storeID) {
		return ErrBadKey
	}
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctxT, qMarkShipping, storeID)
	if err != nil {
		return storageErr("markShippingConfigured", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStoreNotFound
	}
	return nil
}
