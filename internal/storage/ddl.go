package storage

import (
	"fmt"
	"strings"

	"reportetl/internal/schema"
)

// Dialect carries the backend-specific pieces needed to render destination
// DDL: an identifier quoter and the SQL type for each contract kind. The
// render logic itself is shared and deterministic, which keeps it testable
// without a live database.
type Dialect struct {
	QuoteIdent func(string) string
	TypeFor    func(schema.Kind) string
}

// RenderCreate renders a CREATE TABLE statement for a destination report.
// All report columns are nullable; the reports own their content wholesale
// and constraints would only get in the way of the recreate cycle.
func (d Dialect) RenderCreate(name string, cols []schema.ColumnDef) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", d.QuoteIdent(c.Name), d.TypeFor(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(name), strings.Join(defs, ", "))
}

// RenderInsert renders a single-row INSERT statement with the given
// placeholder generator (e.g. "?" for sqlite/mysql, "@p1" style for mssql).
func (d Dialect) RenderInsert(name string, cols []schema.ColumnDef, placeholder func(i int) string) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = d.QuoteIdent(c.Name)
		marks[i] = placeholder(i)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(name),
		strings.Join(names, ", "),
		strings.Join(marks, ", "),
	)
}
