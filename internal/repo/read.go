package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (r *OrdersRepo) getSnapshotHeader(ctx context.Context, orderID, storeID string) (Snapshot, error) {
	var (
		s        Snapshot
		totalStr string
	)
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	err := r.Pool.QueryRow(ctxT, qSnapshotHeader, orderID, storeID).Scan(
		&s.OrderID, &s.StoreID, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
		&totalStr, &s.Currency, &s.Status, &s.ShippingMethod, &s.ShippingOption,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errorsIsNoRows(err) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, storageErr("getSnapshotHeader", err)
	}
	if s.Total, err = decimal.NewFromString(totalStr); err != nil {
		return Snapshot{}, fmt.Errorf("%w: bad total %q", ErrInconsistent, totalStr)
	}
	return s, nil
}

func (r *OrdersRepo) getShippingAddress(ctx context.Context, orderID, storeID string) (Address, error) {
	var a Address
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	err := r.Pool.QueryRow(ctxT, qSnapshotAddress, orderID, storeID).Scan(
		&a.Street, &a.Number, &a.Floor, &a.Locality,
		&a.City, &a.Province, &a.PostalCode, &a.Country,
	)
	if errorsIsNoRows(err) {
		return Address{}, fmt.Errorf("%w: shipping address missing", ErrInconsistent)
	}
	if err != nil {
		return Address{}, storageErr("getShippingAddress", err)
	}
	return a, nil
}

// ListRecentSnapshots returns up to limit snapshots, newest first.
func (r *OrdersRepo) ListRecentSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		return []Snapshot{}, nil
	}
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctxT, qListSnapshots, limit)
	if err != nil {
		return nil, storageErr("listSnapshots query", err)
	}
	defer rows.Close()

	out := make([]Snapshot, 0, limit)
	for rows.Next() {
		var (
			s        Snapshot
			totalStr string
			a        [8]*string
		)
		if err := rows.Scan(
			&s.OrderID, &s.StoreID, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
			&totalStr, &s.Currency, &s.Status, &s.ShippingMethod, &s.ShippingOption,
			&a[0], &a[1], &a[2], &a[3], &a[4], &a[5], &a[6], &a[7],
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, storageErr("listSnapshots scan", err)
		}
		if s.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("%w: bad total %q", ErrInconsistent, totalStr)
		}
		s.ShippingAddress = Address{
			Street: deref(a[0]), Number: deref(a[1]), Floor: deref(a[2]), Locality: deref(a[3]),
			City: deref(a[4]), Province: deref(a[5]), PostalCode: deref(a[6]), Country: deref(a[7]),
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("listSnapshots rows", err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func errorsIsNoRows(err error) bool { return err == pgx.ErrNoRows }
