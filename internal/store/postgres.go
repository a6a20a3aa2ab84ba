package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"musiclib/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Postgres provides persistence backed by Postgres. Calls made directly on it
// run in autocommit mode; Atomically groups calls in one transaction.
type Postgres struct {
	pgRepo
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres sets up a store using the provided database handle. The schema
// is expected to be migrated already.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{pgRepo: pgRepo{q: db}, db: db}
}

// Atomically runs fn inside a transaction and commits when fn returns nil.
// Foreign keys are deferred to commit time, so fn may delete a parent before
// detaching its children.
func (p *Postgres) Atomically(ctx context.Context, fn func(Repository) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(pgRepo{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapWriteError("commit", err)
	}
	tx = nil
	return nil
}

// pgRepo implements Repository over a querier.
type pgRepo struct {
	q querier
}

// scanner is the subset of *sql.Row and *sql.Rows used by the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// mapWriteError folds constraint violations into the catalog's error kinds.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %v: %w", op, err, models.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %v: %w", op, err, models.ErrUnprocessableReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func rowErr(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(kind, id)
	}
	return fmt.Errorf("select %s: %w", kind, err)
}

func trimmed(p *string) any {
	if p == nil {
		return nil
	}
	return strings.TrimSpace(*p)
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
