// Package postgres implements a Postgres repository using pgx v5. Wholesale
// replaces drop and recreate the destination table and stream rows in with
// the COPY protocol inside one transaction.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reportetl/internal/schema"
	"reportetl/internal/storage"
	"reportetl/internal/table"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// Fetch returns a full snapshot of the named relation, or
// storage.ErrEntityNotFound when it does not exist.
func (r *Repository) Fetch(ctx context.Context, name string) (*table.Table, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1", name,
	).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("postgres: probe %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("postgres: %s: %w", name, storage.ErrEntityNotFound)
	}

	rows, err := r.pool.Query(ctx, "SELECT * FROM "+pgIdent(name))
	if err != nil {
		return nil, fmt.Errorf("postgres: select %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	out := table.New(cols...)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: values %s: %w", name, err)
		}
		rec := make(table.Record, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		out.Append(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch %s: %w", name, err)
	}
	return out, nil
}

// Replace drops and recreates the destination table, then COPYs every row
// inside one transaction.
func (r *Repository) Replace(ctx context.Context, name string, cols []schema.ColumnDef, t *table.Table) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgIdent(name)); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, dialect.RenderCreate(name, cols)); err != nil {
		return fmt.Errorf("postgres: create %s: %w", name, err)
	}

	colNames := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = c.Name
	}
	src := make([][]any, t.Len())
	for i, row := range t.Rows {
		src[i] = storage.RowValues(row, colNames)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{name}, colNames, pgx.CopyFromRows(src)); err != nil {
		return fmt.Errorf("postgres: copy %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit %s: %w", name, err)
	}
	return nil
}

var dialect = storage.Dialect{
	QuoteIdent: pgIdent,
	TypeFor: func(k schema.Kind) string {
		switch k {
		case schema.KindInt:
			return "BIGINT"
		case schema.KindFloat:
			return "DOUBLE PRECISION"
		case schema.KindDate:
			return "TIMESTAMPTZ"
		default:
			return "TEXT"
		}
	},
}

func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
