// Package store is the relational repository behind the blog core. Every access pattern
// has its own query method; nothing relies on lazily loaded object graphs.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrDuplicate is returned when an insert or update hits a unique key.
var ErrDuplicate = errors.New("store: duplicate key")

// Queries runs statements against either the pool or an open transaction.
type Queries struct {
	ext sqlx.ExtContext
}

// Store owns the connection pool. Its embedded Queries run outside any transaction.
type Store struct {
	*Queries
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{Queries: &Queries{ext: db}, db: db}
}

// Open connects with the named driver ("pgx", "postgres" or "sqlite3").
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// sqlite allows a single writer; one connection serialises units of work.
		db.SetMaxOpenConns(1)
	}
	return New(db), nil
}

func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// InTx runs fn as one unit of work. Any error from fn rolls the transaction back.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Queries{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (q *Queries) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

// find is get for optional rows: it reports false instead of sql.ErrNoRows.
func (q *Queries) find(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	err := q.get(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (q *Queries) selectIn(ctx context.Context, dest any, query string, args ...any) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
	if err != nil {
		if IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return 0, err
	}
	return res.RowsAffected()
}
