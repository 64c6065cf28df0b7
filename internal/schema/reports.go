package schema

// ColumnDef describes a destination report column in database-agnostic terms.
// Backends map Kind to their own SQL types when rendering CREATE TABLE.
type ColumnDef struct {
	Name string
	Kind Kind
}

// ReportDef holds a destination relation name and its ordered column defs.
// The order is the wire contract for the report.
type ReportDef struct {
	Name    string
	Columns []ColumnDef
}

// ColumnNames returns the ordered column names of the report.
func (r ReportDef) ColumnNames() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Name
	}
	return out
}

// Destination report definitions. Each report is fully recomputed and
// replaced wholesale on every run.
var (
	ProgramSummary = ReportDef{
		Name: "Program_Summary_Report",
		Columns: []ColumnDef{
			{Name: "program_id", Kind: KindKey},
			{Name: "program_name", Kind: KindText},
			{Name: "total_projects", Kind: KindInt},
			{Name: "total_teams", Kind: KindInt},
			{Name: "total_members", Kind: KindFloat},
			{Name: "avg_team_score", Kind: KindFloat},
			{Name: "capacity_sum", Kind: KindInt},
			{Name: "active_program_flag", Kind: KindInt},
			{Name: "report_generated_at", Kind: KindDate},
		},
	}

	TeamPerformance = ReportDef{
		Name: "Team_Performance_Report",
		Columns: []ColumnDef{
			{Name: "team_id", Kind: KindKey},
			{Name: "team_name", Kind: KindText},
			{Name: "project_id", Kind: KindKey},
			{Name: "team_size", Kind: KindInt},
			{Name: "avg_completion", Kind: KindFloat},
			{Name: "avg_grade", Kind: KindFloat},
			{Name: "last_submission_date", Kind: KindDate},
			{Name: "status", Kind: KindText},
			{Name: "report_generated_at", Kind: KindDate},
		},
	}

	MemberProgress = ReportDef{
		Name: "Member_Progress_Report",
		Columns: []ColumnDef{
			{Name: "member_id", Kind: KindKey},
			{Name: "member_name", Kind: KindText},
			{Name: "course_name", Kind: KindText},
			{Name: "completion_percentage", Kind: KindFloat},
			{Name: "status", Kind: KindText},
			{Name: "grade", Kind: KindFloat},
			{Name: "last_update", Kind: KindDate},
			{Name: "report_generated_at", Kind: KindDate},
		},
	}
)

// Def returns the subset of a report's column defs matching the given names,
// preserving the report order for names it knows and appending unknown names
// as text. Builders emit only the columns their inputs allow, so backends
// render DDL from the actual output header.
func (r ReportDef) Def(names []string) []ColumnDef {
	out := make([]ColumnDef, 0, len(names))
	for _, n := range names {
		found := false
		for _, c := range r.Columns {
			if c.Name == n {
				out = append(out, c)
				found = true
				break
			}
		}
		if !found {
			out = append(out, ColumnDef{Name: n, Kind: KindText})
		}
	}
	return out
}
