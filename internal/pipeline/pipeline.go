// Package pipeline wires the reporting job end-to-end: extract the six
// source snapshots, normalize each against its contract, build the three
// reports, and replace the destination relations. One invocation is one
// strictly sequential pass; nothing is retained across runs.
//
// Failure policy follows the job's error taxonomy: connectivity problems,
// missing required entities, and write failures are fatal; a missing Members
// relation is recovered locally with an empty table; malformed values never
// surface here at all (the normalizer absorbs them).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"reportetl/internal/config"
	"reportetl/internal/metrics"
	"reportetl/internal/normalize"
	"reportetl/internal/report"
	"reportetl/internal/schema"
	"reportetl/internal/storage"
	"reportetl/internal/table"
)

// nowFn is a test seam for the shared report timestamp.
var nowFn = time.Now

// Run executes one full pass against the given repository. The repository is
// both source and destination, matching the upstream deployment where the
// report tables live next to the entities they summarize.
//
// Two overlapping invocations racing Replace on the same destination is
// last-writer-wins; callers own scheduling.
func Run(ctx context.Context, job config.Job, repo storage.Repository) error {
	runID := uuid.NewString()
	log.Printf("pipeline: run=%s job=%s starting", runID, job.Name)

	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	log.Printf("pipeline: run=%s connected", runID)

	// Extract. The five required entities abort on any failure; Members is
	// optional and degrades to an empty snapshot.
	extractStart := time.Now()
	fetch := func(name string) (*table.Table, error) {
		t, err := repo.Fetch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		log.Printf("pipeline: run=%s extracted rows=%d from=%s", runID, t.Len(), name)
		metrics.RecordRows(job.Name, name, "extracted", int64(t.Len()))
		return t, nil
	}

	rawPrograms, err := fetch(job.Tables.Programs)
	if err != nil {
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	rawProjects, err := fetch(job.Tables.Projects)
	if err != nil {
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	rawProgress, err := fetch(job.Tables.Progress)
	if err != nil {
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	rawTeamMembers, err := fetch(job.Tables.TeamMembers)
	if err != nil {
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	rawTeams, err := fetch(job.Tables.Teams)
	if err != nil {
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	rawMembers, err := repo.Fetch(ctx, job.Tables.Members)
	if errors.Is(err, storage.ErrEntityNotFound) {
		log.Printf("pipeline: run=%s %s table not found; proceeding without it", runID, job.Tables.Members)
		rawMembers = table.New()
	} else if err != nil {
		err = fmt.Errorf("extract %s: %w", job.Tables.Members, err)
		metrics.RecordStep(job.Name, "extract", err, time.Since(extractStart))
		return err
	}
	metrics.RecordStep(job.Name, "extract", nil, time.Since(extractStart))

	// Normalize. Per entity, no cross-entity dependency.
	normStart := time.Now()
	programs := normalize.Programs(rawPrograms)
	projects := normalize.Projects(rawProjects)
	progress := normalize.Progress(rawProgress)
	teamMembers := normalize.TeamMembers(rawTeamMembers)
	teams := normalize.Teams(rawTeams)
	members := normalize.Members(rawMembers)
	metrics.RecordStep(job.Name, "normalize", nil, time.Since(normStart))

	// Aggregate. The three builders are independent; they share one
	// timestamp so a run is identifiable across its reports.
	aggStart := time.Now()
	generatedAt := nowFn().UTC()
	programSummary := report.ProgramSummary(programs, projects, teams, teamMembers, generatedAt)
	teamPerformance := report.TeamPerformance(teams, teamMembers, progress, generatedAt)
	memberProgress := report.MemberProgress(progress, members, job.Report.MemberNameColumn, generatedAt)
	metrics.RecordStep(job.Name, "aggregate", nil, time.Since(aggStart))

	// Load, fixed order. The first write failure aborts the remaining
	// writes; reports already written in this run stay written.
	loadStart := time.Now()
	writes := []struct {
		name string
		def  schema.ReportDef
		t    *table.Table
	}{
		{job.Tables.ProgramSummary, schema.ProgramSummary, programSummary},
		{job.Tables.TeamPerformance, schema.TeamPerformance, teamPerformance},
		{job.Tables.MemberProgress, schema.MemberProgress, memberProgress},
	}
	for _, w := range writes {
		if err := writeReport(ctx, repo, job, runID, w.name, w.def, w.t); err != nil {
			metrics.RecordStep(job.Name, "load", err, time.Since(loadStart))
			return err
		}
	}
	metrics.RecordStep(job.Name, "load", nil, time.Since(loadStart))

	log.Printf("pipeline: run=%s job=%s completed", runID, job.Name)
	return nil
}

// writeReport replaces one destination relation, or skips the write entirely
// when the computed report is empty. Skipping leaves whatever was previously
// stored untouched; an empty report never blanks its destination.
func writeReport(ctx context.Context, repo storage.Repository, job config.Job, runID, name string, def schema.ReportDef, t *table.Table) error {
	if t.Len() == 0 {
		log.Printf("pipeline: run=%s no data to write for %s; skipping", runID, name)
		metrics.RecordRows(job.Name, name, "skipped_empty", 1)
		return nil
	}
	if err := repo.Replace(ctx, name, def.Def(t.Columns), t); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	log.Printf("pipeline: run=%s wrote rows=%d to=%s fingerprint=%016x", runID, t.Len(), name, Fingerprint(t))
	metrics.RecordRows(job.Name, name, "written", int64(t.Len()))
	return nil
}
