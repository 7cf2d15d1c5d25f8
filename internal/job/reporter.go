package job

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// DefaultListLimit is the number of jobs returned when the caller does not
// specify one.
const DefaultListLimit = 10

// StatusReporter is the read side of the job system. Listings refresh the
// resumable-job invariant first, so a backlog left by a crash is always
// visible in the very next status query without waiting for a restart.
type StatusReporter struct {
	jobs     JobStore
	recovery *RecoveryManager
	logger   *slog.Logger
}

// NewStatusReporter creates a new StatusReporter
func NewStatusReporter(jobs JobStore, recovery *RecoveryManager, logger *slog.Logger) (*StatusReporter, error) {
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if recovery == nil {
		return nil, ErrNilRecoveryManager
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &StatusReporter{
		jobs:     jobs,
		recovery: recovery,
		logger:   logger,
	}, nil
}

// GetJob retrieves a single job by ID.
// Returns store.ErrJobNotFound if the job does not exist.
func (r *StatusReporter) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	return r.jobs.GetByID(ctx, id)
}

// ListJobs returns the most recent jobs, newest first. A failed invariant
// refresh is logged but does not block the listing itself.
func (r *StatusReporter) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	if _, err := r.recovery.EnsureResumable(ctx); err != nil {
		r.logger.Warn("failed to refresh resumable job before listing", "error", err)
	}

	return r.jobs.List(ctx, limit)
}
