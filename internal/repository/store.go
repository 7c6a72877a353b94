package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by the pool and an open transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txContextKey struct{}

// Store owns the connection pool and provides the unit-of-work boundary.
// Within begins a database transaction and stashes it in the context so
// repositories transparently join it; work outside Within runs directly on
// the pool.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a store around a pgx connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Pool exposes the underlying pool for health checks.
func (s *Store) Pool() *pgxpool.Pool {
	return s.db
}

// Within executes fn inside a single database transaction. The transaction
// is rolled back when fn returns an error or the context is canceled before
// commit.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// querier returns the transaction bound to ctx when one is open, otherwise
// the pool.
func (s *Store) querier(ctx context.Context) DBTX {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.db
}

func requireExactlyOne(tag pgconn.CommandTag, op string) error {
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, tag.RowsAffected())
	}
	return nil
}
