// This file adds a lightweight linter/validator for Job values. It performs
// static checks over a decoded Job and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block
	// execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Job.
//
// Path is a dotted path into the config (e.g. "db.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Job. It does not mutate the job;
// callers may decide whether to treat warnings as fatal or not.
func Validate(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Name) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	issues = append(issues, validateDB(j.DB)...)
	issues = append(issues, validateMetrics(j.Metrics)...)
	return issues
}

func validateDB(d DBConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(d.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.kind",
			Message:  "db.kind must not be empty",
		})
		return issues
	}
	known := map[string]struct{}{
		"mssql": {}, "postgres": {}, "sqlite": {}, "mysql": {},
	}
	if _, ok := known[d.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "db.kind",
			Message:  fmt.Sprintf("unknown db kind %q; ensure a matching backend exists", d.Kind),
		})
	}

	if d.DSN == "" {
		// ResolveDSN happily assembles a connection string from blank
		// fields, so check the discrete inputs directly.
		missing := d.Server == "" || d.Database == ""
		if d.Kind == "sqlite" {
			missing = d.Database == ""
		}
		if missing {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db.dsn",
				Message:  "no dsn given and not enough fields to assemble one (server/database)",
			})
		}
	}
	if d.DSN == "" && d.Kind != "sqlite" && d.Password == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "db.password",
			Message:  "password empty; set SQL_PASSWORD or db.password unless the server allows it",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "none", "pushgateway":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics will be disabled", m.Backend),
		})
	}
	if m.Backend == "pushgateway" && strings.TrimSpace(m.PushgatewayURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.pushgateway_url",
			Message:  "pushgateway backend selected without a URL; the default http://localhost:9091 will be used",
		})
	}
	return issues
}
