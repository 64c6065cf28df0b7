// Package normalize makes each source snapshot robust to upstream schema
// drift before any cross-entity logic runs. Each entity has one exported
// routine; all are contract-driven, independently callable, and
// order-independent across entities.
//
// Contract per routine: given a raw table (unordered column set, untyped
// values), return a table with cleaned column names, every required contract
// column present, and canonical cell types. Missing columns are synthesized
// as all-nil with a single warning; malformed cell values recover silently to
// the typed default. Unexpected columns pass through untouched.
package normalize

import (
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

// cleanName trims a column name and folds the NBSP artifacts that show up in
// exports that round-tripped through spreadsheets.
func cleanName(name string) string {
	s := strings.ReplaceAll(name, " ", " ")
	s = strings.ReplaceAll(s, "Â ", " ")
	return strings.TrimSpace(norm.NFC.String(s))
}

// Apply normalizes a raw snapshot against a contract. It never fails: the
// only observable side effect is a warning per synthesized column.
func Apply(t *table.Table, c schema.Contract) *table.Table {
	if t == nil {
		t = table.New()
	}

	// Clean column names in both the header and the row keys.
	out := table.New()
	rename := map[string]string{}
	for _, col := range t.Columns {
		cleaned := cleanName(col)
		rename[col] = cleaned
		out.Columns = append(out.Columns, cleaned)
	}
	out.Rows = make([]table.Record, 0, t.Len())
	for _, r := range t.Rows {
		nr := make(table.Record, len(r))
		for k, v := range r {
			nr[rename[k]] = v
		}
		out.Rows = append(out.Rows, nr)
	}

	// Synthesize missing required columns as all-nil. Only the column-absent
	// case warns; malformed values below recover silently.
	synthesized := map[string]bool{}
	for _, col := range c.Columns {
		if col.Required && !out.HasColumn(col.Name) {
			log.Printf("normalize: %s: column %s missing; creating with null values", c.Entity, col.Name)
			out.AddColumn(col.Name, nil)
			synthesized[col.Name] = true
		}
	}

	// Coerce every contract column that is present. Numeric kinds default
	// absent cells to zero even in a synthesized column; date cells keep the
	// nil sentinel. The text Default (e.g. "unknown" for status) substitutes
	// only for missing values in a column the snapshot actually carried, so a
	// synthesized text column stays null.
	for _, col := range c.Columns {
		if !out.HasColumn(col.Name) {
			continue
		}
		for _, r := range out.Rows {
			v := r[col.Name]
			switch col.Kind {
			case schema.KindInt:
				r[col.Name] = coerceInt(v)
			case schema.KindFloat:
				r[col.Name] = coerceFloat(v)
			case schema.KindDate:
				r[col.Name] = coerceDate(v)
			case schema.KindText:
				def := col.Default
				if synthesized[col.Name] {
					def = nil
				}
				r[col.Name] = coerceText(v, def)
			case schema.KindKey:
				// pass through; joins canonicalize at compare time
			}
		}
	}
	return out
}

// Programs normalizes the Programs snapshot and derives duration_days from
// duration_weeks.
func Programs(t *table.Table) *table.Table {
	out := Apply(t, schema.Programs)
	out.AddColumn("duration_days", nil)
	for _, r := range out.Rows {
		weeks, _ := r["duration_weeks"].(int64)
		r["duration_days"] = weeks * 7
	}
	return out
}

// Projects normalizes the Projects snapshot.
func Projects(t *table.Table) *table.Table {
	return Apply(t, schema.Projects)
}

// Progress normalizes the Progress snapshot.
func Progress(t *table.Table) *table.Table {
	return Apply(t, schema.Progress)
}

// TeamMembers normalizes the Team_Members junction snapshot.
func TeamMembers(t *table.Table) *table.Table {
	return Apply(t, schema.TeamMembers)
}

// Teams normalizes the Teams snapshot.
func Teams(t *table.Table) *table.Table {
	return Apply(t, schema.Teams)
}

// Members normalizes the optional Members snapshot. Only member_id is
// contractual; the display-name column is left for the report builder's
// heuristic.
func Members(t *table.Table) *table.Table {
	return Apply(t, schema.Members)
}
