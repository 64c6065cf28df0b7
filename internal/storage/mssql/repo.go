// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. Snapshot reads go through a plain SELECT *;
// wholesale replaces drop and recreate the destination table and stream rows
// in with mssql.CopyIn inside one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"reportetl/internal/schema"
	"reportetl/internal/storage"
	"reportetl/internal/table"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// New validates the DSN early to fail fast on obvious mistakes, then opens
// the connection pool. Connectivity itself is checked by Ping.
func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql: dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mssql: ping: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Fetch returns a full snapshot of the named relation, or
// storage.ErrEntityNotFound when it does not exist.
func (r *Repository) Fetch(ctx context.Context, name string) (*table.Table, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = @p1", name,
	).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("mssql: probe %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("mssql: %s: %w", name, storage.ErrEntityNotFound)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+msIdent(name))
	if err != nil {
		return nil, fmt.Errorf("mssql: select %s: %w", name, err)
	}
	defer rows.Close()
	t, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mssql: fetch %s: %w", name, err)
	}
	return t, nil
}

// Replace drops and recreates the destination table, then bulk-copies every
// row in a single transaction.
func (r *Repository) Replace(ctx context.Context, name string, cols []schema.ColumnDef, t *table.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mssql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+msIdent(name)); err != nil {
		rollback()
		return fmt.Errorf("mssql: drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, dialect.RenderCreate(name, cols)); err != nil {
		rollback()
		return fmt.Errorf("mssql: create %s: %w", name, err)
	}

	colNames := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = c.Name
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(name, mssql.BulkOptions{}, colNames...))
	if err != nil {
		rollback()
		return fmt.Errorf("mssql: prepare bulk copy: %w", err)
	}
	for i, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, storage.RowValues(row, colNames)...); err != nil {
			_ = stmt.Close()
			rollback()
			return fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil { // flush
		_ = stmt.Close()
		rollback()
		return fmt.Errorf("mssql: bulk finalize: %w", err)
	}
	if err := stmt.Close(); err != nil {
		rollback()
		return fmt.Errorf("mssql: close bulk copy: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mssql: commit %s: %w", name, err)
	}
	return nil
}

var dialect = storage.Dialect{
	QuoteIdent: msIdent,
	TypeFor: func(k schema.Kind) string {
		switch k {
		case schema.KindInt:
			return "BIGINT"
		case schema.KindFloat:
			return "FLOAT"
		case schema.KindDate:
			return "DATETIME2"
		case schema.KindKey:
			return "NVARCHAR(255)"
		default:
			return "NVARCHAR(MAX)"
		}
	},
}

func msIdent(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}
