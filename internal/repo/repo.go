package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// OrdersRepo is the durable Order Store: one snapshot row per
// (order_id, store_id), replaced on every reconciliation.
type OrdersRepo struct {
	Pool      DB
	qTimeout  time.Duration
	txTimeout time.Duration
}

func NewOrdersRepo(pool *pgxpool.Pool) *OrdersRepo {
	return &OrdersRepo{
		Pool:      pool,
		qTimeout:  2 * time.Second,
		txTimeout: 5 * time.Second,
	}
}

func NewOrdersRepoWith(pool *pgxpool.Pool, qTimeout, txTimeout time.Duration) *OrdersRepo {
	return &OrdersRepo{
		Pool:      pool,
		qTimeout:  qTimeout,
		txTimeout: txTimeout,
	}
}

func (r *OrdersRepo) withQ(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.qTimeout)
}
func (r *OrdersRepo) withTx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.txTimeout)
}

// GetSnapshot loads the stored snapshot for (orderID, storeID).
// Returns ErrNotFound when the order has never been seen.
func (r *OrdersRepo) GetSnapshot(ctx context.Context, orderID, storeID string) (Snapshot, error) {
	if badID(orderID) || badID(storeID) {
		return Snapshot{}, ErrBadKey
	}

	s, err := r.getSnapshotHeader(ctx, orderID, storeID)
	if err != nil {
		return Snapshot{}, err
	}
	if s.ShippingAddress, err = r.getShippingAddress(ctx, orderID, storeID); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (r *OrdersRepo) Ping(ctx context.Context) error {
	ctxT, cancel := r.withQ(ctx)
	defer cancel()
	var x int
	if err := r.Pool.QueryRow(ctxT, "select 1").Scan(&x); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func badID(id string) bool { return id == "" || len(id) > maxIDLen }

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
