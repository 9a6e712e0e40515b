// Package metrics records one row per build invocation in a SQLite database
// and serves the aggregates behind `cm stats`.
package metrics

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Build is the metrics record for one invocation.
type Build struct {
	Timestamp            time.Time
	Command              string
	Duration             time.Duration
	Success              bool
	ErrorCount           int
	WarningCount         int
	Incremental          bool
	Profile              string
	Features             []string
	DependenciesCompiled int
	CrateUnitsCompiled   int
}

// Summary aggregates the recorded builds.
type Summary struct {
	TotalBuilds      int
	SuccessfulBuilds int
	SuccessRate      float64
	AvgDuration      time.Duration
	TotalErrors      int
	TotalWarnings    int
	SlowestCommands  []CommandDuration
}

// CommandDuration pairs a command with its average duration.
type CommandDuration struct {
	Command     string
	AvgDuration time.Duration
	Runs        int
}

// Store wraps the metrics database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	command TEXT NOT NULL,
	duration_seconds REAL NOT NULL,
	success INTEGER NOT NULL,
	error_count INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	incremental INTEGER NOT NULL,
	profile TEXT NOT NULL,
	features TEXT NOT NULL,
	dependencies_compiled INTEGER NOT NULL,
	crate_units_compiled INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_builds_command ON builds(command);
`

// Open opens (or creates) the metrics database inside dir.
func Open(dir string) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, "metrics.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate metrics schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one build row.
func (s *Store) Record(b Build) error {
	_, err := s.db.Exec(`INSERT INTO builds
		(timestamp, command, duration_seconds, success, error_count,
		 warning_count, incremental, profile, features,
		 dependencies_compiled, crate_units_compiled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Timestamp.UTC().Format(time.RFC3339),
		b.Command,
		b.Duration.Seconds(),
		boolInt(b.Success),
		b.ErrorCount,
		b.WarningCount,
		boolInt(b.Incremental),
		b.Profile,
		strings.Join(b.Features, ","),
		b.DependenciesCompiled,
		b.CrateUnitsCompiled,
	)
	if err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}
	return nil
}

// Summarize computes aggregates over all recorded builds.
func (s *Store) Summarize() (Summary, error) {
	var sum Summary
	row := s.db.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(success), 0),
		COALESCE(AVG(duration_seconds), 0),
		COALESCE(SUM(error_count), 0),
		COALESCE(SUM(warning_count), 0)
		FROM builds`)
	var avgSeconds float64
	if err := row.Scan(&sum.TotalBuilds, &sum.SuccessfulBuilds, &avgSeconds,
		&sum.TotalErrors, &sum.TotalWarnings); err != nil {
		return sum, fmt.Errorf("failed to summarize builds: %w", err)
	}
	sum.AvgDuration = time.Duration(avgSeconds * float64(time.Second))
	if sum.TotalBuilds > 0 {
		sum.SuccessRate = float64(sum.SuccessfulBuilds) / float64(sum.TotalBuilds) * 100
	}

	rows, err := s.db.Query(`SELECT command, AVG(duration_seconds), COUNT(*)
		FROM builds GROUP BY command
		ORDER BY AVG(duration_seconds) DESC LIMIT 3`)
	if err != nil {
		return sum, fmt.Errorf("failed to query slowest commands: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cd CommandDuration
		var seconds float64
		if err := rows.Scan(&cd.Command, &seconds, &cd.Runs); err != nil {
			return sum, err
		}
		cd.AvgDuration = time.Duration(seconds * float64(time.Second))
		sum.SlowestCommands = append(sum.SlowestCommands, cd)
	}
	return sum, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
