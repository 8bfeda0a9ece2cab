package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/umputun/netdiag/app/web/enums"
)

// ErrNotFound returned by Get for unknown run id
var ErrNotFound = errors.New("run not found")

// DefaultRetention is the number of runs kept when retention is not set
const DefaultRetention = 200

// Run is a recorded diagnostic
type Run struct {
	ID         int64           `json:"id"`
	Kind       string          `json:"kind"`
	Target     string          `json:"target,omitempty"`
	Command    string          `json:"command"`
	Status     enums.RunStatus `json:"status"`
	ExitCode   int             `json:"exit_code"`
	Output     string          `json:"output,omitempty"`
	Source     enums.Source    `json:"source"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Duration of the run
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// runRow is the db representation, timestamps kept as unix milliseconds
type runRow struct {
	ID         int64           `db:"id"`
	Kind       string          `db:"kind"`
	Target     string          `db:"target"`
	Command    string          `db:"command"`
	Status     enums.RunStatus `db:"status"`
	ExitCode   int             `db:"exit_code"`
	Output     string          `db:"output"`
	Source     enums.Source    `db:"source"`
	StartedAt  int64           `db:"started_at"`
	FinishedAt int64           `db:"finished_at"`
}

func (r runRow) run() Run {
	return Run{ID: r.ID, Kind: r.Kind, Target: r.Target, Command: r.Command, Status: r.Status, ExitCode: r.ExitCode,
		Output: r.Output, Source: r.Source, StartedAt: time.UnixMilli(r.StartedAt), FinishedAt: time.UnixMilli(r.FinishedAt)}
}

// SQLiteStore implements run history using SQLite
type SQLiteStore struct {
	db        *sqlx.DB
	retention int
}

// NewSQLiteStore opens the database and creates the schema. retention <= 0 means DefaultRetention.
func NewSQLiteStore(dbPath string, retention int) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite allows a single writer

	// enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to set WAL mode: %w (also failed to close db: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if retention <= 0 {
		retention = DefaultRetention
	}
	s := &SQLiteStore{db: db, retention: retention}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			target TEXT NOT NULL DEFAULT '',
			command TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL DEFAULT 0,
			output TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Save inserts a run, sets its ID and drops runs beyond retention
func (s *SQLiteStore) Save(ctx context.Context, r *Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	row := runRow{Kind: r.Kind, Target: r.Target, Command: r.Command, Status: r.Status, ExitCode: r.ExitCode,
		Output: r.Output, Source: r.Source, StartedAt: r.StartedAt.UnixMilli(), FinishedAt: r.FinishedAt.UnixMilli()}
	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (kind, target, command, status, exit_code, output, source, started_at, finished_at)
		VALUES (:kind, :target, :command, :status, :exit_code, :output, :source, :started_at, :finished_at)`, row)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.Kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	cleanup, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`,
		s.retention)
	if err != nil {
		return fmt.Errorf("failed to apply retention: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	if n, err := cleanup.RowsAffected(); err == nil && n > 0 {
		log.Printf("[DEBUG] removed %d old runs", n)
	}
	r.ID = id
	return nil
}

// List returns up to limit recent runs, newest first, without output
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > s.retention {
		limit = s.retention
	}
	rows := []runRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, kind, target, command, status, exit_code, '' AS output, source, started_at, finished_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	res := make([]Run, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.run())
	}
	return res, nil
}

// Get returns a single run with output
func (s *SQLiteStore) Get(ctx context.Context, id int64) (Run, error) {
	var row runRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, kind, target, command, status, exit_code, output, source, started_at, finished_at
		FROM runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return row.run(), nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
