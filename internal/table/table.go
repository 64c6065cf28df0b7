// Package table provides the small tabular value type the reporting pipeline
// is built on: ordered, named columns over loosely typed rows, plus the
// relational operations (left join, group-by aggregation) the report builders
// need.
//
// Design goals:
//
//  1. Explicit semantics: left joins never drop or duplicate base rows,
//     group-by skips nil keys, and mean skips nil cells. The builders depend
//     on exactly these behaviors, so they live here where they can be tested
//     in isolation.
//  2. Loose typing: source snapshots arrive untyped; cells are any of int64,
//     float64, time.Time, string, or nil after normalization. Join and group
//     keys are compared on a canonical string form so int64(1), float64(1)
//     and "1" identify the same entity.
//  3. No external dataframe dependency: the operations used here are few and
//     their edge cases are contractual.
package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Table is an ordered set of named columns over a slice of rows. Rows may
// omit entries for a column; readers treat a missing entry as nil.
type Table struct {
	Columns []string
	Rows    []Record
}

// New returns an empty table with the given column order.
func New(cols ...string) *Table {
	return &Table{Columns: append([]string{}, cols...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Columns present in the record but not yet declared are
// not added to the header; declare columns up front or via AddColumn.
func (t *Table) Append(r Record) {
	t.Rows = append(t.Rows, r)
}

// Clone returns a deep copy of the table structure. Cell values are shared.
func (t *Table) Clone() *Table {
	out := New(t.Columns...)
	out.Rows = make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(Record, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// AddColumn declares a column if absent and sets fill on every row that has
// no value for it. Returns the receiver for chaining.
func (t *Table) AddColumn(name string, fill any) *Table {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for _, r := range t.Rows {
		if _, ok := r[name]; !ok || r[name] == nil {
			r[name] = fill
		}
	}
	return t
}

// Rename renames a column in place, in both the header and every row.
// Renaming a column to itself is a no-op.
func (t *Table) Rename(old, name string) *Table {
	if old == name {
		return t
	}
	for i, c := range t.Columns {
		if c == old {
			t.Columns[i] = name
		}
	}
	for _, r := range t.Rows {
		if v, ok := r[old]; ok {
			r[name] = v
			delete(r, old)
		}
	}
	return t
}

// Select returns a new table containing only the requested columns that the
// receiver actually declares, in the requested order. Absent columns are
// skipped, never an error.
func (t *Table) Select(cols ...string) *Table {
	keep := make([]string, 0, len(cols))
	for _, c := range cols {
		if t.HasColumn(c) {
			keep = append(keep, c)
		}
	}
	out := New(keep...)
	out.Rows = make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(Record, len(keep))
		for _, c := range keep {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// FillZero replaces nil (or missing) cells in the named columns with
// float64(0). Columns not declared on the table are ignored.
func (t *Table) FillZero(cols ...string) *Table {
	for _, c := range cols {
		if !t.HasColumn(c) {
			continue
		}
		for _, r := range t.Rows {
			if v, ok := r[c]; !ok || v == nil {
				r[c] = float64(0)
			}
		}
	}
	return t
}

// KeyString renders a cell value in the canonical form used for join and
// group-by comparison. The second return is false for nil, which never
// matches anything.
func KeyString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		if math.IsNaN(x) {
			return "", false
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10), true
		}
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case float32:
		return KeyString(float64(x))
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), true
	default:
		return fmt.Sprint(x), true
	}
}

// AsFloat converts a numeric cell to float64. The second return is false for
// nil and for values that are not numeric.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
