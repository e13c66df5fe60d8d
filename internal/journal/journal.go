// Package journal keeps an optional SQLite audit trail of organize runs.
//
// The journal only records what happened. The destination tree remains the
// sole input to duplicate and collision decisions.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates a journal written by an incompatible version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Journal is an open audit database.
type Journal struct {
	db   *sql.DB
	path string
}

// Run summarizes one recorded run.
type Run struct {
	ID         string
	SourceRoot string
	DestRoot   string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Files      int
	Failed     int
}

// Entry is one file's recorded outcome.
type Entry struct {
	Source          string
	Target          string
	Action          string
	CapturedAt      time.Time
	Provenance      string
	TimestampSource string
	Backfilled      bool
	ReplacedStale   bool
	ErrorCategory   string
	Error           string
}

// Open creates or opens the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) initSchema(ctx context.Context) error {
	var tableExists int
	if err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := j.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := j.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := j.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: journal has version %d, expected %d; move %s aside to start a new journal",
			ErrSchemaMismatch, version, schemaVersion, j.path)
	}
	return nil
}

// Path is the database file location.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// StartRun records the beginning of a run.
func (j *Journal) StartRun(ctx context.Context, run Run) error {
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, source_root, dest_root, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourceRoot, run.DestRoot, boolInt(run.DryRun), formatTime(started),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Record appends one file outcome to a run.
func (j *Journal) Record(ctx context.Context, runID string, e Entry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO entries (
            run_id, source_path, target_path, action, captured_at, provenance, timestamp_source,
            backfilled, replaced_stale, error_category, error_message, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, e.Source, nullString(e.Target), nullString(e.Action), nullTime(e.CapturedAt),
		nullString(e.Provenance), nullString(e.TimestampSource), boolInt(e.Backfilled), boolInt(e.ReplacedStale),
		nullString(e.ErrorCategory), nullString(e.Error), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion and totals.
func (j *Journal) FinishRun(ctx context.Context, runID string, files, failed int) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, files = ?, failed = ? WHERE id = ?`,
		formatTime(time.Now()), files, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run: unknown run %q", runID)
	}
	return nil
}

// RecentRuns lists up to limit runs, newest first.
func (j *Journal) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, source_root, dest_root, dry_run, started_at, finished_at, files, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			dryRun   int
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.SourceRoot, &r.DestRoot, &dryRun, &started, &finished, &r.Files, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.DryRun = dryRun != 0
		r.StartedAt = parseTime(started)
		if finished.Valid {
			r.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns a run's recorded outcomes in insertion order.
func (j *Journal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT source_path, target_path, action, captured_at, provenance, timestamp_source,
                backfilled, replaced_stale, error_category, error_message
         FROM entries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                                             Entry
			target, action, captured, prov, src, cat, msg sql.NullString
			backfilled, replaced                          int
		)
		if err := rows.Scan(&e.Source, &target, &action, &captured, &prov, &src, &backfilled, &replaced, &cat, &msg); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Target = target.String
		e.Action = action.String
		if captured.Valid {
			e.CapturedAt = parseTime(captured.String)
		}
		e.Provenance = prov.String
		e.TimestampSource = src.String
		e.Backfilled = backfilled != 0
		e.ReplacedStale = replaced != 0
		e.ErrorCategory = cat.String
		e.Error = msg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
