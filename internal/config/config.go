// Package config defines the canonical, JSON-serializable configuration model
// for the reporting job. It is intentionally small, explicit, and dependency-
// free so that jobs can be loaded from disk and passed through the program
// without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in job files.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with environment fallbacks for the connection
//     settings the legacy deployment supplied via .env.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Job is the top-level object decoded from a job file.
type Job struct {
	// Name labels the run in logs and metrics.
	Name string `json:"job"`

	// DB configures source and destination connectivity. One database holds
	// both the six source relations and the three destination reports.
	DB DBConfig `json:"db"`

	// Tables overrides relation names; zero values use the defaults below.
	Tables Tables `json:"tables"`

	// Report carries report-builder options.
	Report ReportOptions `json:"report"`

	// Metrics selects the metrics backend.
	Metrics Metrics `json:"metrics"`
}

// DBConfig configures the database connection. Either DSN is given directly,
// or it is assembled per kind from the discrete fields. Empty discrete fields
// fall back to the SQL_SERVER/SQL_DB/SQL_USER/SQL_PASSWORD environment
// variables for parity with the legacy deployment.
type DBConfig struct {
	// Kind selects the storage backend: "mssql", "postgres", "sqlite",
	// or "mysql".
	Kind string `json:"kind"`

	// DSN is the backend-specific connection string. Takes precedence over
	// the discrete fields when set.
	DSN string `json:"dsn"`

	Server   string `json:"server"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// Tables maps logical entities and reports to relation names. Zero values
// resolve to the upstream defaults.
type Tables struct {
	Programs    string `json:"programs"`
	Projects    string `json:"projects"`
	Progress    string `json:"progress"`
	TeamMembers string `json:"team_members"`
	Teams       string `json:"teams"`
	Members     string `json:"members"`

	ProgramSummary  string `json:"program_summary"`
	TeamPerformance string `json:"team_performance"`
	MemberProgress  string `json:"member_progress"`
}

// ReportOptions carries report-builder options.
type ReportOptions struct {
	// MemberNameColumn explicitly names the Members display-name column,
	// bypassing the contains-"name" detection heuristic when set.
	MemberNameColumn string `json:"member_name_column"`
}

// Metrics selects and configures the metrics backend.
type Metrics struct {
	// Backend is "pushgateway" or "none"/empty.
	Backend string `json:"backend"`

	// PushgatewayURL is the Pushgateway base URL for the pushgateway backend.
	PushgatewayURL string `json:"pushgateway_url"`
}

// Defaults for relation names, matching the upstream database.
const (
	DefaultPrograms    = "Programs"
	DefaultProjects    = "Projects"
	DefaultProgress    = "Progress"
	DefaultTeamMembers = "Team_Members"
	DefaultTeams       = "Teams"
	DefaultMembers     = "Members"

	DefaultProgramSummary  = "Program_Summary_Report"
	DefaultTeamPerformance = "Team_Performance_Report"
	DefaultMemberProgress  = "Member_Progress_Report"
)

// Load decodes a job file and applies defaults and environment fallbacks.
func Load(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var j Job
	dec := json.NewDecoder(f)
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("decode config: %w", err)
	}
	j.ApplyDefaults()
	return j, nil
}

// ApplyDefaults fills zero-valued fields from defaults and the environment.
func (j *Job) ApplyDefaults() {
	if j.Name == "" {
		j.Name = "report_etl"
	}
	j.DB.applyEnv()

	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&j.Tables.Programs, DefaultPrograms)
	def(&j.Tables.Projects, DefaultProjects)
	def(&j.Tables.Progress, DefaultProgress)
	def(&j.Tables.TeamMembers, DefaultTeamMembers)
	def(&j.Tables.Teams, DefaultTeams)
	def(&j.Tables.Members, DefaultMembers)
	def(&j.Tables.ProgramSummary, DefaultProgramSummary)
	def(&j.Tables.TeamPerformance, DefaultTeamPerformance)
	def(&j.Tables.MemberProgress, DefaultMemberProgress)
}

func (d *DBConfig) applyEnv() {
	env := func(s *string, key string) {
		if *s == "" {
			*s = os.Getenv(key)
		}
	}
	env(&d.Server, "SQL_SERVER")
	env(&d.Database, "SQL_DB")
	env(&d.User, "SQL_USER")
	env(&d.Password, "SQL_PASSWORD")
}

// ResolveDSN returns the connection string for the configured kind,
// assembling one from the discrete fields when DSN is not given directly.
func (d DBConfig) ResolveDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Kind {
	case "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(d.User, d.Password),
			Host:     d.Server,
			RawQuery: url.Values{"database": []string{d.Database}}.Encode(),
		}
		return u.String()
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   d.Server,
			Path:   "/" + d.Database,
		}
		return u.String()
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", d.User, d.Password, d.Server, d.Database)
	case "sqlite":
		return d.Database
	default:
		return ""
	}
}
