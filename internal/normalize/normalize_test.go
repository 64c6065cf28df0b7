package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

/*
TestMissingColumnSynthesized verifies the schema-drift contract for every
entity routine: a snapshot missing an expected column comes back with that
column present, filled with the null sentinel on every row, and nothing
fails. Date columns are used because their synthesized cells stay nil
(numeric kinds coerce to zero, tested separately).
*/
func TestMissingColumnSynthesized(t *testing.T) {
	tests := []struct {
		name      string
		normalize func(*table.Table) *table.Table
		missing   string
	}{
		{name: "programs", normalize: Programs, missing: "start_date"},
		{name: "projects", normalize: Projects, missing: "due_date"},
		{name: "progress", normalize: Progress, missing: "completion_date"},
		{name: "team_members", normalize: TeamMembers, missing: "member_id"},
		{name: "teams", normalize: Teams, missing: "submission_date"},
		{name: "members", normalize: Members, missing: "member_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := table.New("some_column")
			in.Append(table.Record{"some_column": "x"})
			in.Append(table.Record{"some_column": "y"})

			got := tt.normalize(in)

			require.True(t, got.HasColumn(tt.missing))
			require.Len(t, got.Rows, 2)
			for _, r := range got.Rows {
				assert.Nil(t, r[tt.missing])
			}
		})
	}
}

func TestApply_NumericDefaultsToZero(t *testing.T) {
	in := table.New("program_id", "duration_weeks", "capacity")
	in.Append(table.Record{"program_id": int64(1), "duration_weeks": "bad", "capacity": nil})

	got := Programs(in)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, int64(0), got.Rows[0]["duration_weeks"])
	assert.Equal(t, int64(0), got.Rows[0]["capacity"])
	// is_active was absent entirely; numeric coercion still lands on zero.
	assert.Equal(t, int64(0), got.Rows[0]["is_active"])
}

func TestPrograms_DerivesDurationDays(t *testing.T) {
	in := table.New("program_id", "duration_weeks")
	in.Append(table.Record{"program_id": int64(1), "duration_weeks": "6"})

	got := Programs(in)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, int64(6), got.Rows[0]["duration_weeks"])
	assert.Equal(t, int64(42), got.Rows[0]["duration_days"])
}

func TestApply_ColumnNamesCleaned(t *testing.T) {
	in := table.New(" program_id ", "capacity ")
	in.Append(table.Record{" program_id ": int64(1), "capacity ": "20"})

	got := Programs(in)
	require.True(t, got.HasColumn("program_id"))
	require.True(t, got.HasColumn("capacity"))
	assert.Equal(t, int64(1), got.Rows[0]["program_id"])
	assert.Equal(t, int64(20), got.Rows[0]["capacity"])
}

func TestProgress_StatusDefaultsUnknownWhenPresent(t *testing.T) {
	in := table.New("member_id", "status")
	in.Append(table.Record{"member_id": int64(1), "status": "done"})
	in.Append(table.Record{"member_id": int64(2), "status": nil})

	got := Progress(in)
	assert.Equal(t, "done", got.Rows[0]["status"])
	assert.Equal(t, "unknown", got.Rows[1]["status"])
}

// Rows with unparsable dates are retained with the nil sentinel, never
// filtered out.
func TestProgress_BadDatesRetainRow(t *testing.T) {
	in := table.New("member_id", "start_date", "completion_date")
	in.Append(table.Record{"member_id": int64(1), "start_date": "2026-01-10", "completion_date": "garbage"})

	got := Progress(in)
	require.Len(t, got.Rows, 1)
	_, ok := got.Rows[0]["start_date"].(time.Time)
	assert.True(t, ok)
	assert.Nil(t, got.Rows[0]["completion_date"])
}

func TestTeamMembers_LegacyProjectColumnPreserved(t *testing.T) {
	in := table.New("team_id", "member_id", "project_id")
	in.Append(table.Record{"team_id": int64(9), "member_id": int64(1), "project_id": int64(4)})

	got := TeamMembers(in)
	assert.True(t, got.HasColumn("project_id"))
	assert.Equal(t, int64(4), got.Rows[0]["project_id"])

	// project_id is optional on the junction: never synthesized.
	legacy := TeamMembers(table.New("team_id", "member_id"))
	assert.False(t, legacy.HasColumn("project_id"))
}

func TestMembers_ExtraColumnsPassThrough(t *testing.T) {
	in := table.New("member_id", "full_name", "cohort")
	in.Append(table.Record{"member_id": int64(1), "full_name": "Ada", "cohort": 3})

	got := Members(in)
	assert.Equal(t, []string{"member_id", "full_name", "cohort"}, got.Columns)
	assert.Equal(t, "Ada", got.Rows[0]["full_name"])
	assert.Equal(t, 3, got.Rows[0]["cohort"])
}

func TestApply_OrderIndependentAndPure(t *testing.T) {
	in := table.New("team_id", "score")
	in.Append(table.Record{"team_id": int64(1), "score": "80"})

	first := Apply(in.Clone(), schema.Teams)
	second := Apply(in.Clone(), schema.Teams)
	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.Rows, second.Rows)

	// the input table itself is not mutated
	assert.Equal(t, "80", in.Rows[0]["score"])
}

func TestApply_EmptySnapshotKeepsHeader(t *testing.T) {
	got := Teams(table.New())
	for _, c := range []string{"team_id", "project_id", "score", "submission_date", "status"} {
		assert.True(t, got.HasColumn(c), "expected column %s", c)
	}
	assert.Len(t, got.Rows, 0)
}
