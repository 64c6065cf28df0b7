package storage

import (
	"database/sql"
	"fmt"

	"reportetl/internal/table"
)

// ScanRows drains a database/sql result set into a Table, preserving column
// order. Byte slices are copied to strings since drivers reuse buffers
// between Scan calls; everything else is stored as the driver returned it and
// left for the normalizer to coerce.
func ScanRows(rows *sql.Rows) (*table.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	out := table.New(cols...)

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r := make(table.Record, len(cols))
		for i, c := range cols {
			switch v := vals[i].(type) {
			case []byte:
				r[c] = string(v)
			default:
				r[c] = v
			}
		}
		out.Append(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// RowValues renders a table row as an ordered value slice aligned to the
// given columns; missing cells become nil.
func RowValues(r table.Record, columns []string) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}
	return out
}
