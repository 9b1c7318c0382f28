// Package ledger keeps a local history of conversion runs in SQLite.
// Every CLI invocation records what it converted and how it went, so
// the history command can answer "what did I run against this file".
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on runs.direction
const currentSchemaVersion = 1

// Direction values for a run.
const (
	DirectionToCIF = "to-cif"
	DirectionToIns = "to-ins"
	DirectionCheck = "check"
)

// Outcome values for a run.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Run is one recorded conversion.
type Run struct {
	ID          string
	Direction   string
	Input       string
	Atoms       int
	Constraints int
	Outcome     string
	Detail      string
	RecordedAt  time.Time
}

// Ledger provides durable storage for conversion runs.
// Uses SQLite with WAL mode for concurrent read access.
type Ledger struct {
	db    *sql.DB
	clock Clock
}

// Option configures a Ledger at open time.
type Option func(*Ledger)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// Open creates or opens the ledger database at the given path.
// Applies required pragmas and migrations automatically; safe to call
// repeatedly on the same file.
func Open(path string, opts ...Option) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	l := &Ledger{db: db, clock: SystemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record inserts a run. A run without an ID gets a fresh uuid; a run
// without a timestamp is stamped from the clock. Duplicate IDs are
// silently ignored for idempotency.
func (l *Ledger) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = l.clock.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, direction, input, atom_count, constraint_count, outcome, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Direction,
		run.Input,
		run.Atoms,
		run.Constraints,
		run.Outcome,
		run.Detail,
		run.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 adds the direction index for databases created before v1.
// New databases are unaffected; the statement is a no-op when the index
// exists.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_runs_direction
		ON runs(direction)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
