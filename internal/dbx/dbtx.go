// Package dbx holds the database/sql plumbing behind the SQL key/value
// backends. A storage batch (for example the seed write that also drops
// the session snapshot) runs through WithTx so its writes land together.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the handle kv statements run against: the pool for single
// Get/Set/Delete calls, an open transaction inside a batch.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions; *sql.DB implements it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn inside one transaction on db. Nothing fn wrote survives
// an error from fn, a failed commit or a panic. Panics are re-raised
// after the rollback.
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit batch: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
