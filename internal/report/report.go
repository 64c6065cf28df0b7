// Package report implements the three summary report builders. Each builder
// is a stateless transform from normalized source tables to one destination
// table; none depends on another's output, and every builder yields exactly
// one row per base entity row (left-join semantics throughout) and a
// well-formed header even over empty inputs.
package report

import (
	"strings"
	"time"

	"reportetl/internal/table"
)

// stamp appends the report_generated_at column with the given timestamp on
// every row. All three reports of a run share one timestamp.
func stamp(t *table.Table, generatedAt time.Time) *table.Table {
	if !t.HasColumn("report_generated_at") {
		t.Columns = append(t.Columns, "report_generated_at")
	}
	for _, r := range t.Rows {
		r["report_generated_at"] = generatedAt
	}
	return t
}

// DetectNameColumn returns the first Members column, in declaration order,
// whose name contains "name" (case-insensitive). Empty string when none
// exists. The tie-break (first match wins) is load-bearing for downstream
// consumers; do not reorder.
func DetectNameColumn(members *table.Table) string {
	if members == nil {
		return ""
	}
	for _, c := range members.Columns {
		if strings.Contains(strings.ToLower(c), "name") {
			return c
		}
	}
	return ""
}
