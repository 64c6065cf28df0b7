// Package mysql implements a MySQL/MariaDB-backed storage.Repository using
// database/sql and go-sql-driver. Replaces use batched multi-row INSERTs
// inside a transaction via the shared loader.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"reportetl/internal/schema"
	"reportetl/internal/storage"
	"reportetl/internal/table"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return New(ctx, cfg)
	})
}

const insertBatchSize = 500

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// New opens a connection pool for a go-sql-driver DSN, e.g.
// "user:pass@tcp(host:3306)/dbname?parseTime=true".
func New(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql: ping: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Fetch(ctx context.Context, name string) (*table.Table, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", name,
	).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("mysql: probe %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("mysql: %s: %w", name, storage.ErrEntityNotFound)
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+myIdent(name))
	if err != nil {
		return nil, fmt.Errorf("mysql: select %s: %w", name, err)
	}
	defer rows.Close()
	t, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mysql: fetch %s: %w", name, err)
	}
	return t, nil
}

func (r *Repository) Replace(ctx context.Context, name string, cols []schema.ColumnDef, t *table.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mysql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+myIdent(name)); err != nil {
		rollback()
		return fmt.Errorf("mysql: drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, dialect.RenderCreate(name, cols)); err != nil {
		rollback()
		return fmt.Errorf("mysql: create %s: %w", name, err)
	}

	colNames := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = c.Name
		quoted[i] = myIdent(c.Name)
	}
	src := make([][]any, t.Len())
	for i, row := range t.Rows {
		src[i] = myValues(storage.RowValues(row, colNames))
	}

	copyFn := func(ctx context.Context, batch [][]any) (int64, error) {
		row := "(" + strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"
		stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			myIdent(name),
			strings.Join(quoted, ", "),
			strings.TrimSuffix(strings.Repeat(row+",", len(batch)), ","),
		)
		args := make([]any, 0, len(batch)*len(cols))
		for _, b := range batch {
			args = append(args, b...)
		}
		res, err := tx.ExecContext(ctx, stmtSQL, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	if _, err := storage.InsertBatches(ctx, src, insertBatchSize, copyFn); err != nil {
		rollback()
		return fmt.Errorf("mysql: insert %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mysql: commit %s: %w", name, err)
	}
	return nil
}

// myValues renders time cells in the DATETIME literal layout the driver
// expects when parseTime round-trips are not in play.
func myValues(vals []any) []any {
	for i, v := range vals {
		if t, ok := v.(time.Time); ok {
			vals[i] = t.UTC().Format("2006-01-02 15:04:05")
		}
	}
	return vals
}

var dialect = storage.Dialect{
	QuoteIdent: myIdent,
	TypeFor: func(k schema.Kind) string {
		switch k {
		case schema.KindInt:
			return "BIGINT"
		case schema.KindFloat:
			return "DOUBLE"
		case schema.KindDate:
			return "DATETIME"
		case schema.KindKey:
			return "VARCHAR(255)"
		default:
			return "TEXT"
		}
	},
}

func myIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
