package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// jobsKindResumableConstraint is the partial unique index enforcing at
// most one resumable job per kind.
const jobsKindResumableConstraint = "jobs_kind_resumable_idx"

// PostgresJobStore implements the job.JobStore interface
// using a PostgreSQL database as the storage backend.
type PostgresJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobStore creates a new PostgreSQL implementation of the
// job.JobStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresJobStore(db store.DBTX, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements job.JobStore
var _ job.JobStore = (*PostgresJobStore)(nil)

// Create implements job.JobStore.Create
func (s *PostgresJobStore) Create(ctx context.Context, j *job.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := j.Validate(); err != nil {
		log.Warn("job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", j.ID.String()))
		return err
	}

	query := `
		INSERT INTO jobs (id, name, kind, status, progress, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		j.ID,
		j.Name,
		j.Kind,
		j.Status,
		j.Progress,
		j.Result,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) && ConstraintName(err) == jobsKindResumableConstraint {
			log.Debug("resumable job already exists for kind",
				slog.String("job_kind", j.Kind))
			return store.ErrResumableJobExists
		}
		log.Error("failed to create job",
			slog.String("error", err.Error()),
			slog.String("job_id", j.ID.String()))
		return MapError(err)
	}

	return nil
}

// UpdateStatus implements job.JobStore.UpdateStatus
func (s *PostgresJobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status job.Status, progress int, result string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status = $1, progress = $2, result = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := s.db.ExecContext(ctx, query, status, progress, result, time.Now().UTC(), id)
	if err != nil {
		if IsUniqueViolation(err) && ConstraintName(err) == jobsKindResumableConstraint {
			log.Debug("resumable job already exists for kind",
				slog.String("job_id", id.String()))
			return store.ErrResumableJobExists
		}
		log.Error("failed to update job status",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrJobNotFound)
}

// UpdateProgress implements job.JobStore.UpdateProgress
func (s *PostgresJobStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET progress = $1, updated_at = $2
		WHERE id = $3
	`
	res, err := s.db.ExecContext(ctx, query, progress, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update job progress",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrJobNotFound)
}

// GetByID implements job.JobStore.GetByID
func (s *PostgresJobStore) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `
		SELECT id, name, kind, status, progress, result, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id)

	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrJobNotFound
		}
		return nil, MapError(err)
	}

	return j, nil
}

// List implements job.JobStore.List
func (s *PostgresJobStore) List(ctx context.Context, limit int) ([]*job.Job, error) {
	query := `
		SELECT id, name, kind, status, progress, result, created_at, updated_at
		FROM jobs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectJobs(rows)
}

// ListByStatus implements job.JobStore.ListByStatus
func (s *PostgresJobStore) ListByStatus(ctx context.Context, status job.Status) ([]*job.Job, error) {
	query := `
		SELECT id, name, kind, status, progress, result, created_at, updated_at
		FROM jobs
		WHERE status = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectJobs(rows)
}

// DeleteTerminal implements job.JobStore.DeleteTerminal
func (s *PostgresJobStore) DeleteTerminal(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM jobs
		WHERE status IN ($1, $2)
	`
	result, err := s.db.ExecContext(ctx, query, job.StatusCompleted, job.StatusFailed)
	if err != nil {
		return 0, MapError(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted jobs: %w", err)
	}

	if deleted > 0 {
		log.Info("deleted terminal jobs", slog.Int64("count", deleted))
	}
	return deleted, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID,
		&j.Name,
		&j.Kind,
		&j.Status,
		&j.Progress,
		&j.Result,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func collectJobs(rows *sql.Rows) ([]*job.Job, error) {
	var jobs []*job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return jobs, nil
}
