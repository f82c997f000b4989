// Package storage exports analysis result tables to a SQL database through a
// pluggable backend registry. This is a one-shot export path, not a
// persistence layer: a table is created if absent and the result rows are
// appended in a single call.
//
// Backends register themselves from init() in their subpackages; importing
// storage/all links in every backend.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// Config selects and configures a backend.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// Repository is the minimal surface the export path needs. All cells travel
// as text; result tables are display artifacts, not a typed warehouse
// schema.
type Repository interface {
	// EnsureTable creates the table with TEXT-typed columns when it does not
	// exist yet. Idempotent.
	EnsureTable(ctx context.Context, table string, columns []string) error

	// InsertRows appends rows to the table. Rows must be aligned to columns.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]string) error

	// Close releases backend resources. Treat as "call once".
	Close() error
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. Failing fast avoids ambiguous backend
//     selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
//
// Errors:
//   - If cfg.Kind is empty or unsupported.
//   - Whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidIdent reports whether a name is safe to splice into SQL as a table or
// column identifier. Result names and canonical columns already satisfy
// this; anything else must be rejected rather than quoted.
func ValidIdent(name string) bool {
	return identRe.MatchString(name)
}

// CheckIdents validates a table name and its columns in one pass.
func CheckIdents(table string, columns []string) error {
	if !ValidIdent(table) {
		return fmt.Errorf("storage: invalid table name %q", table)
	}
	for _, c := range columns {
		if !ValidIdent(c) {
			return fmt.Errorf("storage: invalid column name %q in table %s", c, table)
		}
	}
	if len(columns) == 0 {
		return fmt.Errorf("storage: table %s has no columns", table)
	}
	return nil
}
