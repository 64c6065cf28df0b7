// Package storage contains the storage-agnostic contracts of the reporting
// job: the Repository interface the pipeline talks to, a registry that maps a
// configured kind to a concrete backend, and the shared scan/DDL/insert
// helpers the database/sql backends build on.
//
// Backends (mssql, postgres, sqlite, mysql) register themselves at init time;
// importing internal/storage/all pulls every backend into the binary without
// coupling callers to driver packages.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"reportetl/internal/schema"
	"reportetl/internal/table"
)

// ErrEntityNotFound reports that a source relation does not exist. The
// pipeline treats it as fatal for required entities and recovers locally for
// the optional Members relation.
var ErrEntityNotFound = errors.New("entity not found")

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation: "mssql", "postgres",
	// "sqlite", or "mysql".
	Kind string `json:"kind"`

	// DSN is the backend-specific connection string.
	DSN string `json:"dsn"`
}

// Repository is the boundary contract between the pipeline and a database.
//
// Fetch returns a full snapshot of the named relation, wrapping
// ErrEntityNotFound when it does not exist. Replace performs a wholesale
// overwrite with drop-and-recreate semantics; callers decide whether to skip
// empty tables, backends just write what they are given.
type Repository interface {
	Fetch(ctx context.Context, name string) (*table.Table, error)
	Replace(ctx context.Context, name string, cols []schema.ColumnDef, t *table.Table) error
	Ping(ctx context.Context) error
	Close() error
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New dispatches on cfg.Kind and constructs the matching backend.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, for config validation messages.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
