package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// roomLockNamespace is the first key of the two-key advisory lock so room
// locks never collide with other advisory lock users of the same database.
const roomLockNamespace = 7001

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
// Repositories run their statements through it so the same code works
// inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is implemented by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, db, fn)
}

// LockRoom takes a transaction-scoped advisory lock keyed by the room id.
// Every booking mutation for the room holds it from the conflict check until
// commit, which serializes check-then-write per room.
func LockRoom(ctx context.Context, q Querier, roomID string) error {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1, hashtext($2))", roomLockNamespace, roomID); err != nil {
		return fmt.Errorf("lock room %s failed: %w", roomID, err)
	}
	return nil
}
