package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lxcsetup/internal/config"
)

// Run outcomes recorded in the journal.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeNoOp    = "no-op"
)

// Run is one recorded invocation.
type Run struct {
	ID          string
	Command     string
	Fingerprint string
	Groups      []string
	Variant     string
	Outcome     string
	Detail      string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Step is one recorded action within a run.
type Step struct {
	Seq    int
	Kind   string
	Target string
	Status string
	Detail string
}

// Store persists the run journal in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin records the start of a run and returns its identifier.
func (s *Store) Begin(ctx context.Context, command, fingerprint string, groups []string) (string, error) {
	id := uuid.NewString()
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return "", fmt.Errorf("encode groups: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, fingerprint, groups, variant, outcome, detail, started_at)
         VALUES (?, ?, ?, ?, '', 'running', '', ?)`,
		id, command, fingerprint, string(groupsJSON), now)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordStep appends one executed action to the run.
func (s *Store) RecordStep(ctx context.Context, runID string, seq int, kind, target, status, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_steps (run_id, seq, kind, target, status, detail)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, seq, kind, target, status, detail)
	if err != nil {
		return fmt.Errorf("insert run step: %w", err)
	}
	return nil
}

// Finish closes a run with its outcome and chosen variant.
func (s *Store) Finish(ctx context.Context, runID, variant, outcome, detail string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET variant = ?, outcome = ?, detail = ?, finished_at = ? WHERE id = ?`,
		variant, outcome, detail, now, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, fingerprint, groups, variant, outcome, detail, started_at, finished_at
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var groupsJSON, startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&run.ID, &run.Command, &run.Fingerprint, &groupsJSON,
			&run.Variant, &run.Outcome, &run.Detail, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(groupsJSON), &run.Groups); err != nil {
			return nil, fmt.Errorf("decode groups for run %s: %w", run.ID, err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt.Valid {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Steps returns the recorded actions of a run in execution order.
func (s *Store) Steps(ctx context.Context, runID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, kind, target, status, detail FROM run_steps
         WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var step Step
		if err := rows.Scan(&step.Seq, &step.Kind, &step.Target, &step.Status, &step.Detail); err != nil {
			return nil, fmt.Errorf("scan run step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}
