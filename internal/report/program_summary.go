package report

import (
	"log"
	"time"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

// ProgramSummary builds the Program_Summary_Report table from the normalized
// Programs, Projects, Teams, and Team_Members snapshots.
//
// Team and member totals are scoped to a program through the
// Team.project_id -> Project.program_id chain. On legacy snapshots the Teams
// relation carries no project linkage (the column arrives synthesized
// all-nil); those teams attach to no program, so every program's
// total_teams/total_members/avg_team_score resolves to zero. That degraded
// outcome is deliberate and announced with a warning, never silently wrong
// non-zero numbers.
func ProgramSummary(programs, projects, teams, teamMembers *table.Table, generatedAt time.Time) *table.Table {
	// Distinct member count per team from the junction.
	memberCounts := table.GroupBy(teamMembers, "team_id",
		table.CountDistinct("member_id", "total_team_members"))

	// One row per team with its program attached via the project chain.
	teamFrame := teams.Select("team_id", "project_id", "score")
	if !teamFrame.HasColumn("project_id") {
		teamFrame.AddColumn("project_id", nil)
	}
	teamFrame = table.LeftJoin(teamFrame, projects.Select("project_id", "program_id"), "project_id")
	teamFrame = table.LeftJoin(teamFrame, memberCounts, "team_id")

	if teamFrame.Len() > 0 {
		linked := false
		for _, r := range teamFrame.Rows {
			if r["program_id"] != nil {
				linked = true
				break
			}
		}
		if !linked {
			log.Printf("report: program_summary: no team resolves a program linkage; program-scoped team metrics default to zero")
		}
	}

	// Teams without a program have a nil program_id and are skipped by the
	// group-by, which is exactly the legacy fallback.
	agg := table.GroupBy(teamFrame, "program_id",
		table.CountDistinct("team_id", "total_teams"),
		table.Sum("total_team_members", "total_members"),
		table.Mean("score", "avg_team_score"))

	// Every program row survives, with zero metrics where nothing matched.
	out := table.LeftJoin(programs, agg, "program_id")

	projectCounts := table.GroupBy(projects, "program_id",
		table.CountDistinct("project_id", "total_projects"))
	out = table.LeftJoin(out, projectCounts, "program_id")

	out.FillZero("total_projects", "total_teams", "total_members", "avg_team_score")

	out.AddColumn("capacity_sum", nil)
	out.AddColumn("active_program_flag", nil)
	for _, r := range out.Rows {
		r["capacity_sum"] = r["capacity"]
		r["active_program_flag"] = r["is_active"]
	}

	stamp(out, generatedAt)
	return out.Select(schema.ProgramSummary.ColumnNames()...)
}
