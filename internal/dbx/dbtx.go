// Package dbx holds the small database helpers shared by repositories and
// services: the DBTX handle and atomic execution with or without a real
// database behind it.
package dbx

import (
	"context"
	"database/sql"
	"sync"
)

// DBTX is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Handle returns db as a DBTX. A nil db yields a nil interface rather than
// a typed nil, which matters for the memory driver.
func Handle(db *sql.DB) DBTX {
	if db == nil {
		return nil
	}
	return db
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; a panic in fn rolls back and is
// re-raised.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	committed = true
	return tx.Commit()
}

// Atomic runs read-check-write sequences as one unit. With a database it
// uses WithTx; without one (memory driver) it serializes callers under a
// mutex and passes fn a nil handle.
type Atomic struct {
	db *sql.DB
	mu sync.Mutex
}

func NewAtomic(db *sql.DB) *Atomic {
	return &Atomic{db: db}
}

func (a *Atomic) Do(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	if a.db == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		return fn(ctx, nil)
	}
	return WithTx(ctx, a.db, nil, fn)
}
