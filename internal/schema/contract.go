// Package schema declares the column contracts for the six source entities
// and the three destination reports. Contracts make schema-drift tolerance
// table-driven: the normalizer walks a contract instead of hand-checking
// individual columns, and the storage backends render destination DDL from
// the report column defs.
package schema

// Kind classifies a contract column for coercion and DDL purposes.
type Kind string

const (
	// KindKey passes through untouched; joins canonicalize at compare time.
	KindKey Kind = "key"
	// KindInt is parse-or-zero, truncated to int64.
	KindInt Kind = "int"
	// KindFloat is parse-or-zero, kept as float64.
	KindFloat Kind = "float"
	// KindDate parses to time.Time; unparsable or absent becomes nil.
	KindDate Kind = "date"
	// KindText coerces to string; Default substitutes for missing values.
	KindText Kind = "text"
)

// Column is one expected column of an entity contract.
type Column struct {
	Name string
	Kind Kind
	// Required columns are synthesized as all-nil when the snapshot lacks
	// them. Non-required columns are coerced only when present.
	Required bool
	// Default substitutes for nil text cells (e.g. "unknown" for status).
	// Nil means missing text stays nil.
	Default any
}

// Contract is the declarative schema descriptor for one source entity.
type Contract struct {
	Entity  string
	Columns []Column
}

// Column returns the contract column with the given name, if declared.
func (c Contract) Column(name string) (Column, bool) {
	for _, col := range c.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Source entity contracts. Column sets mirror the upstream schemas; every
// Required column is guaranteed present (possibly all-nil) after
// normalization.
var (
	Programs = Contract{
		Entity: "Programs",
		Columns: []Column{
			{Name: "program_id", Kind: KindKey, Required: true},
			{Name: "program_name", Kind: KindText, Required: true},
			{Name: "program_description", Kind: KindText, Required: true},
			{Name: "duration_weeks", Kind: KindInt, Required: true},
			{Name: "start_date", Kind: KindDate, Required: true},
			{Name: "end_date", Kind: KindDate, Required: true},
			{Name: "capacity", Kind: KindInt, Required: true},
			{Name: "is_active", Kind: KindInt, Required: true},
		},
	}

	Projects = Contract{
		Entity: "Projects",
		Columns: []Column{
			{Name: "project_id", Kind: KindKey, Required: true},
			{Name: "program_id", Kind: KindKey, Required: true},
			{Name: "due_date", Kind: KindDate, Required: true},
			{Name: "created_at", Kind: KindDate, Required: true},
			{Name: "week_number", Kind: KindInt, Required: true},
		},
	}

	Progress = Contract{
		Entity: "Progress",
		Columns: []Column{
			{Name: "member_id", Kind: KindKey, Required: true},
			{Name: "course_name", Kind: KindText, Required: true},
			{Name: "completion_percentage", Kind: KindFloat, Required: true},
			{Name: "grade", Kind: KindFloat, Required: true},
			{Name: "status", Kind: KindText, Required: true, Default: "unknown"},
			{Name: "start_date", Kind: KindDate, Required: true},
			{Name: "completion_date", Kind: KindDate, Required: true},
		},
	}

	// TeamMembers is the Team<->Member junction. Older schemas also carry a
	// project_id column; it is coerced when present but never synthesized,
	// and joined_date likewise.
	TeamMembers = Contract{
		Entity: "Team_Members",
		Columns: []Column{
			{Name: "team_id", Kind: KindKey, Required: true},
			{Name: "member_id", Kind: KindKey, Required: true},
			{Name: "project_id", Kind: KindKey},
			{Name: "joined_date", Kind: KindDate},
		},
	}

	Teams = Contract{
		Entity: "Teams",
		Columns: []Column{
			{Name: "team_id", Kind: KindKey, Required: true},
			{Name: "project_id", Kind: KindKey, Required: true},
			{Name: "score", Kind: KindFloat, Required: true},
			{Name: "submission_date", Kind: KindDate, Required: true},
			{Name: "status", Kind: KindText, Required: true, Default: "unknown"},
			{Name: "team_name", Kind: KindText},
		},
	}

	// Members is deliberately thin: only the key is contractual. The
	// display-name column is unspecified upstream and detected by the
	// MemberProgress builder, so everything else passes through untouched.
	Members = Contract{
		Entity: "Members",
		Columns: []Column{
			{Name: "member_id", Kind: KindKey, Required: true},
		},
	}
)
