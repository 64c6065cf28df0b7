package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportetl/internal/normalize"
	"reportetl/internal/schema"
	"reportetl/internal/table"
)

/*
TestTeamPerformance_MeanOfMemberMeans pins the two-stage average. Member 1
has two progress rows (completion 100 and 50, member mean 75), member 2 has
one (completion 25). The team figure is mean(75, 25) = 50, not the raw-row
mean (100+50+25)/3.
*/
func TestTeamPerformance_MeanOfMemberMeans(t *testing.T) {
	teams := table.New("team_id", "project_id", "score", "team_name", "status")
	teams.Append(table.Record{"team_id": int64(9), "project_id": int64(4), "score": 80.0, "team_name": "Alpha", "status": "active"})

	teamMembers := table.New("team_id", "member_id")
	teamMembers.Append(table.Record{"team_id": int64(9), "member_id": int64(1)})
	teamMembers.Append(table.Record{"team_id": int64(9), "member_id": int64(2)})

	progress := table.New("member_id", "completion_percentage", "grade")
	progress.Append(table.Record{"member_id": int64(1), "completion_percentage": 100.0, "grade": 90.0})
	progress.Append(table.Record{"member_id": int64(1), "completion_percentage": 50.0, "grade": 70.0})
	progress.Append(table.Record{"member_id": int64(2), "completion_percentage": 25.0, "grade": 60.0})

	got := TeamPerformance(
		normalize.Teams(teams),
		normalize.TeamMembers(teamMembers),
		normalize.Progress(progress),
		testGeneratedAt,
	)

	assert.Equal(t, schema.TeamPerformance.ColumnNames(), got.Columns)
	require.Len(t, got.Rows, 1)
	r := got.Rows[0]
	assert.EqualValues(t, int64(2), r["team_size"])
	assert.EqualValues(t, 50.0, r["avg_completion"])
	assert.EqualValues(t, 70.0, r["avg_grade"])
	assert.Equal(t, "Alpha", r["team_name"])
	assert.Equal(t, "active", r["status"])
	assert.Equal(t, testGeneratedAt, r["report_generated_at"])
}

// A team with no junction rows still appears exactly once, with a zero size
// and zero averages.
func TestTeamPerformance_TeamWithoutMembers(t *testing.T) {
	teams := table.New("team_id", "project_id", "score", "submission_date")
	teams.Append(table.Record{"team_id": int64(7), "project_id": int64(1), "score": 0.0, "submission_date": "2026-02-01"})

	got := TeamPerformance(
		normalize.Teams(teams),
		normalize.TeamMembers(table.New()),
		normalize.Progress(table.New()),
		testGeneratedAt,
	)

	require.Len(t, got.Rows, 1)
	r := got.Rows[0]
	assert.EqualValues(t, 0, r["team_size"])
	assert.EqualValues(t, 0, r["avg_completion"])
	assert.EqualValues(t, 0, r["avg_grade"])
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), r["last_submission_date"])
}

// Members on the roster with no progress rows are excluded from the team
// averages instead of pulling them toward zero.
func TestTeamPerformance_MemberWithoutProgressSkipped(t *testing.T) {
	teams := table.New("team_id", "project_id", "score")
	teams.Append(table.Record{"team_id": int64(9), "project_id": int64(4), "score": 80.0})

	teamMembers := table.New("team_id", "member_id")
	teamMembers.Append(table.Record{"team_id": int64(9), "member_id": int64(1)})
	teamMembers.Append(table.Record{"team_id": int64(9), "member_id": int64(2)})

	progress := table.New("member_id", "completion_percentage", "grade")
	progress.Append(table.Record{"member_id": int64(1), "completion_percentage": 60.0, "grade": 80.0})

	got := TeamPerformance(
		normalize.Teams(teams),
		normalize.TeamMembers(teamMembers),
		normalize.Progress(progress),
		testGeneratedAt,
	)

	require.Len(t, got.Rows, 1)
	r := got.Rows[0]
	assert.EqualValues(t, int64(2), r["team_size"])
	assert.EqualValues(t, 60.0, r["avg_completion"])
	assert.EqualValues(t, 80.0, r["avg_grade"])
}

func TestTeamPerformance_EmptyInputsKeepShape(t *testing.T) {
	got := TeamPerformance(
		normalize.Teams(table.New()),
		normalize.TeamMembers(table.New()),
		normalize.Progress(table.New()),
		testGeneratedAt,
	)
	// team_name is not contractual on Teams, so an empty snapshot never
	// carries it and the output header omits it.
	assert.Equal(t, []string{
		"team_id", "project_id", "team_size", "avg_completion",
		"avg_grade", "last_submission_date", "status", "report_generated_at",
	}, got.Columns)
	assert.Len(t, got.Rows, 0)
}
