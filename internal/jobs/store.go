package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cardpress/internal/config"
)

// Store manages export history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
}

// OpenPath connects to the history database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
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
	if err := store.initSchema(context.Background()); err != nil {
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

// Create inserts a new running job and returns the stored row.
func (s *Store) Create(ctx context.Context, mode string, fronts int, requestID string) (*Job, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO export_jobs (
            mode, status, fronts, request_id, progress_percent, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		mode,
		StatusRunning,
		fronts,
		nullableString(requestID),
		0.0,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists the mutable fields of a job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("nil job")
	}
	if !job.Status.Valid() {
		return fmt.Errorf("unknown job status %q", string(job.Status))
	}
	job.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE export_jobs SET
            status = ?, batches = ?, pages = ?, filename = ?, output_path = ?,
            request_id = ?, error_message = ?, progress_percent = ?, updated_at = ?
        WHERE id = ?`,
		job.Status,
		job.Batches,
		job.Pages,
		nullableString(job.Filename),
		nullableString(job.OutputPath),
		nullableString(job.RequestID),
		nullableString(job.ErrorMessage),
		job.ProgressPercent,
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return nil
}

// GetByID fetches a job by identifier. A missing row returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM export_jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// List returns jobs newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	query := "SELECT " + jobColumns + " FROM export_jobs"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for _, status := range statuses {
			placeholders = append(placeholders, "?")
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, scanErr := scanJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// Clear deletes terminal jobs, keeping running rows intact.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM export_jobs WHERE status IN (?, ?, ?)",
		StatusDelivered, StatusCancelled, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// Stats aggregates job counts per lifecycle state.
func (s *Store) Stats(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM export_jobs GROUP BY status")
	if err != nil {
		return Summary{}, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	var summary Summary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, fmt.Errorf("scan stats: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusRunning:
			summary.Running += count
		case StatusDelivered:
			summary.Delivered += count
		case StatusCancelled:
			summary.Cancelled += count
		case StatusFailed:
			summary.Failed += count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate stats: %w", err)
	}
	return summary, nil
}

const jobColumns = "id, mode, status, fronts, batches, pages, filename, output_path, request_id, error_message, progress_percent, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id              int64
		mode            string
		statusStr       string
		frontsCount     int
		batches         int
		pages           int
		filename        sql.NullString
		outputPath      sql.NullString
		requestID       sql.NullString
		errorMessage    sql.NullString
		progressPercent sql.NullFloat64
		createdRaw      string
		updatedRaw      string
	)

	if err := scanner.Scan(
		&id,
		&mode,
		&statusStr,
		&frontsCount,
		&batches,
		&pages,
		&filename,
		&outputPath,
		&requestID,
		&errorMessage,
		&progressPercent,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	return &Job{
		ID:              id,
		Mode:            mode,
		Status:          Status(statusStr),
		Fronts:          frontsCount,
		Batches:         batches,
		Pages:           pages,
		Filename:        filename.String,
		OutputPath:      outputPath.String,
		RequestID:       requestID.String,
		ErrorMessage:    errorMessage.String,
		ProgressPercent: progressPercent.Float64,
		CreatedAt:       parseTimestamp(createdRaw),
		UpdatedAt:       parseTimestamp(updatedRaw),
	}, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func parseTimestamp(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
