package report

import (
	"log"
	"time"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

// MemberProgress builds the Member_Progress_Report table from the normalized
// Progress snapshot and the optional Members snapshot.
//
// nameColumn, when non-empty, is an explicit override for the Members
// display-name column; otherwise the first column whose name contains "name"
// is used (see DetectNameColumn). When no name column resolves the report is
// simply built without member_name, never an error.
func MemberProgress(progress, members *table.Table, nameColumn string, generatedAt time.Time) *table.Table {
	name := nameColumn
	if name != "" && !members.HasColumn(name) {
		log.Printf("report: member_progress: configured name column %q not present on Members; falling back to detection", name)
		name = ""
	}
	if name == "" {
		name = DetectNameColumn(members)
	}

	out := progress.Clone()

	// last_update is the later of the two progress dates; nil when both are.
	if out.HasColumn("start_date") && out.HasColumn("completion_date") {
		out.AddColumn("last_update", nil)
		for _, r := range out.Rows {
			r["last_update"] = laterOf(r["start_date"], r["completion_date"])
		}
	}

	if name != "" && out.HasColumn("member_id") && members.HasColumn("member_id") && !out.HasColumn(name) {
		out = table.LeftJoin(out, members.Select("member_id", name), "member_id")
		out.Rename(name, "member_name")
	}

	stamp(out, generatedAt)

	if out.Len() == 0 {
		// A zero-row result still carries the full documented header so the
		// destination shape is stable regardless of input availability.
		return table.New(schema.MemberProgress.ColumnNames()...)
	}
	return out.Select(schema.MemberProgress.ColumnNames()...)
}

func laterOf(a, b any) any {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	switch {
	case aok && bok:
		if bt.After(at) {
			return bt
		}
		return at
	case aok:
		return at
	case bok:
		return bt
	default:
		return nil
	}
}
