// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists processing jobs in a SQLite database and
// exports them as YAML or JSON.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cardpress/pkg/types"
)

const (
	appDir = "cardpress"
	dbFile = "history.db"

	// timeFormat is fixed width so created_at sorts as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned by Get for unknown job IDs.
var ErrNotFound = errors.New("job not found")

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, appDir, dbFile)
}

// Store manages the job history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and its parent directory.
// It creates the schema if it does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			source_name TEXT NOT NULL,
			source_kind TEXT NOT NULL,
			item_count INTEGER NOT NULL DEFAULT 0,
			output_name TEXT,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts job, replacing an earlier record with the same ID.
func (s *Store) Record(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job has no ID")
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO jobs (id, source_name, source_kind, item_count, output_name, status, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.SourceName, string(job.SourceKind), job.ItemCount, job.OutputName,
		string(job.Status), job.Error, job.Duration.Milliseconds(),
		job.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("recording job %s: %w", job.ID, err)
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Limit bounds the number of jobs; zero means 20.
	Limit int
	// Status keeps only jobs with this status when set.
	Status types.JobStatus
	// Since keeps only jobs created at or after this time when set.
	Since time.Time
}

// List returns jobs, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, source_name, source_kind, item_count, output_name, status, error, duration_ms, created_at FROM jobs WHERE 1=1`
	var args []any
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if !opts.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, opts.Since.UTC().Format(timeFormat))
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Get returns the job with id.
func (s *Store) Get(ctx context.Context, id string) (types.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_name, source_kind, item_count, output_name, status, error, duration_ms, created_at FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Job{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return job, err
}

// Summary aggregates the whole history.
type Summary struct {
	Jobs   int `json:"jobs" yaml:"jobs"`
	Done   int `json:"done" yaml:"done"`
	Failed int `json:"failed" yaml:"failed"`
	Items  int `json:"items" yaml:"items"`
}

// Summarize counts jobs by status and the cards rendered by successful ones.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*),
			coalesce(sum(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN status = ? THEN item_count ELSE 0 END), 0)
		 FROM jobs`,
		string(types.JobDone), string(types.JobFailed), string(types.JobDone),
	).Scan(&sum.Jobs, &sum.Done, &sum.Failed, &sum.Items)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing jobs: %w", err)
	}
	return sum, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (types.Job, error) {
	var (
		job        types.Job
		kind       string
		status     string
		outputName sql.NullString
		errMsg     sql.NullString
		durationMS int64
		createdAt  string
	)
	if err := sc.Scan(&job.ID, &job.SourceName, &kind, &job.ItemCount, &outputName, &status, &errMsg, &durationMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job, err
		}
		return job, fmt.Errorf("scanning job: %w", err)
	}
	job.SourceKind = types.SourceKind(kind)
	job.Status = types.JobStatus(status)
	job.OutputName = outputName.String
	job.Error = errMsg.String
	job.Duration = time.Duration(durationMS) * time.Millisecond
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return job, fmt.Errorf("parsing created_at of job %s: %w", job.ID, err)
	}
	job.CreatedAt = t
	return job, nil
}
