// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite has no dedicated bulk-load API; replaces run batched
// INSERTs inside a transaction, which keeps performance acceptable for the
// report volumes this job handles. Mostly useful for local runs and
// integration tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reportetl/internal/schema"
	"reportetl/internal/storage"
	"reportetl/internal/table"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// New opens a SQLite connection using the provided DSN, for example
// "file:reports.db?cache=shared" or just "reports.db".
func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Fetch(ctx context.Context, name string) (*table.Table, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: probe %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("sqlite: %s: %w", name, storage.ErrEntityNotFound)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+sqIdent(name))
	if err != nil {
		return nil, fmt.Errorf("sqlite: select %s: %w", name, err)
	}
	defer rows.Close()
	t, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch %s: %w", name, err)
	}
	return t, nil
}

func (r *Repository) Replace(ctx context.Context, name string, cols []schema.ColumnDef, t *table.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+sqIdent(name)); err != nil {
		rollback()
		return fmt.Errorf("sqlite: drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, dialect.RenderCreate(name, cols)); err != nil {
		rollback()
		return fmt.Errorf("sqlite: create %s: %w", name, err)
	}

	colNames := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = c.Name
	}
	stmt, err := tx.PrepareContext(ctx, dialect.RenderInsert(name, cols, func(int) string { return "?" }))
	if err != nil {
		rollback()
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	for i, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, sqValues(storage.RowValues(row, colNames))...); err != nil {
			_ = stmt.Close()
			rollback()
			return fmt.Errorf("sqlite: insert row %d: %w", i, err)
		}
	}
	if err := stmt.Close(); err != nil {
		rollback()
		return fmt.Errorf("sqlite: close insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", name, err)
	}
	return nil
}

// sqValues adapts cell values to what the driver stores natively: time
// columns as RFC3339 text so round-trips stay lossless.
func sqValues(vals []any) []any {
	for i, v := range vals {
		if t, ok := v.(time.Time); ok {
			vals[i] = t.UTC().Format(time.RFC3339Nano)
		}
	}
	return vals
}

var dialect = storage.Dialect{
	QuoteIdent: sqIdent,
	TypeFor: func(k schema.Kind) string {
		switch k {
		case schema.KindInt:
			return "INTEGER"
		case schema.KindFloat:
			return "REAL"
		default:
			return "TEXT"
		}
	},
}

func sqIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
