package report

import (
	"time"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

// TeamPerformance builds the Team_Performance_Report table from the
// normalized Teams, Team_Members, and Progress snapshots.
//
// Completion and grade are averaged twice: first per member over their
// Progress rows, then per team over its members. A team's average is the
// mean of member-level means, not a direct mean over raw Progress rows, so a
// member with many courses does not dominate the team figure. Members
// without any progress rows are skipped by the nil-skipping mean rather than
// dragged in as zeros.
func TeamPerformance(teams, teamMembers, progress *table.Table, generatedAt time.Time) *table.Table {
	teamSizes := table.GroupBy(teamMembers, "team_id",
		table.CountDistinct("member_id", "team_size"))

	memberAvgs := table.GroupBy(progress, "member_id",
		table.Mean("completion_percentage", "avg_completion"),
		table.Mean("grade", "avg_grade"))

	withAvgs := table.LeftJoin(teamMembers.Select("team_id", "member_id"), memberAvgs, "member_id")
	teamAvgs := table.GroupBy(withAvgs, "team_id",
		table.Mean("avg_completion", "avg_completion"),
		table.Mean("avg_grade", "avg_grade"))

	// Every team row survives, even with no membership and no progress.
	out := table.LeftJoin(teams, teamSizes, "team_id")
	out = table.LeftJoin(out, teamAvgs, "team_id")

	out.AddColumn("last_submission_date", nil)
	for _, r := range out.Rows {
		r["last_submission_date"] = r["submission_date"]
	}

	out.FillZero("team_size", "avg_completion", "avg_grade")
	stamp(out, generatedAt)

	// team_name is not contractual on Teams; Select drops what the source
	// never carried.
	return out.Select(schema.TeamPerformance.ColumnNames()...)
}
