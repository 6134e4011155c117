package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// UpsertSnapshot replaces the stored snapshot for (order_id, store_id),
// header and shipping address in one transaction.
func (r *OrdersRepo) UpsertSnapshot(ctx context.Context, s Snapshot) error {
	if badID(s.OrderID) || badID(s.StoreID) {
		return ErrBadKey
	}
	if s.Total.IsNegative() {
		return fmt.Errorf("%w: negative total", ErrInconsistent)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()

	ctxT, cancel := r.withTx(ctx)
	defer cancel()

	tx, err := r.Pool.BeginTx(ctxT, pgx.TxOptions{})
	if err != nil {
		return storageErr("begin tx", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctxT)
			panic(p)
		}
	}()

	var b pgx.Batch
	b.Queue(qUpsertSnapshot,
		s.OrderID, s.StoreID, s.CustomerName, s.CustomerEmail, s.CustomerPhone,
		s.Total.String(), s.Currency, s.Status, s.ShippingMethod, s.ShippingOption,
		s.CreatedAt, s.UpdatedAt,
	)
	a := s.ShippingAddress
	b.Queue(qUpsertAddress,
		s.OrderID, s.StoreID, a.Street, a.Number, a.Floor, a.Locality,
		a.City, a.Province, a.PostalCode, a.Country,
	)

	br := tx.SendBatch(ctxT, &b)

	for i := 0; i < b.Len(); i++ {
		if _, execErr := br.Exec(); execErr != nil {
			_ = br.Close()
			_ = tx.Rollback(ctxT)
			return storageErr(fmt.Sprintf("batch step %d", i), execErr)
		}
	}

	if errClose := br.Close(); errClose != nil {
		_ = tx.Rollback(ctxT)
		return storageErr("batch close", errClose)
	}

	if cErr := tx.Commit(ctxT); cErr != nil {
		return storageErr("commit", cErr)
	}

	return nil
}
