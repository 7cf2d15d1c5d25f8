package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kestrelab/linkhoard/internal/store"
)

// ResumeJobName is the display name recovery gives the job it creates for a
// surviving backlog.
const ResumeJobName = "Resume favorites import"

// RecoveryManager reconciles durable job state with reality after a
// restart. It is the only component that creates resumable jobs.
type RecoveryManager struct {
	jobs    JobStore
	pending store.PendingItemStore
	logger  *slog.Logger

	// mu serializes EnsureResumable: it is called at startup and again on
	// every job listing, and the check-then-create must not interleave.
	mu sync.Mutex
}

// NewRecoveryManager creates a new RecoveryManager
func NewRecoveryManager(jobs JobStore, pending store.PendingItemStore, logger *slog.Logger) (*RecoveryManager, error) {
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if pending == nil {
		return nil, ErrNilPendingStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &RecoveryManager{
		jobs:    jobs,
		pending: pending,
		logger:  logger,
	}, nil
}

// Run executes startup recovery: every job stranded in processing by the
// previous process is marked failed, then any surviving import backlog gets
// its resumable job. Runs once, synchronously, before the dispatcher
// accepts new work.
func (m *RecoveryManager) Run(ctx context.Context) error {
	stale, err := m.jobs.ListByStatus(ctx, StatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to list interrupted jobs: %w", err)
	}

	for _, j := range stale {
		if err := m.jobs.UpdateStatus(ctx, j.ID, StatusFailed, 0, "interrupted by restart"); err != nil {
			return fmt.Errorf("failed to fail interrupted job %s: %w", j.ID, err)
		}
		m.logger.Info("marked interrupted job as failed",
			"job_id", j.ID,
			"job_kind", j.Kind)
	}

	if _, err := m.EnsureResumable(ctx); err != nil {
		return err
	}

	return nil
}

// EnsureResumable upholds the backlog invariant: unprocessed items imply
// exactly one resumable import job. Returns that job, or nil when there is
// no backlog or an import is actively draining it.
func (m *RecoveryManager) EnsureResumable(ctx context.Context) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count, err := m.pending.CountUnprocessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count staged items: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	existing, err := m.jobs.ListByStatus(ctx, StatusResumable)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumable jobs: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	processing, err := m.jobs.ListByStatus(ctx, StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing jobs: %w", err)
	}
	for _, j := range processing {
		if j.Kind == KindImport {
			// An import is already draining the backlog.
			return nil, nil
		}
	}

	j, err := New(ResumeJobName, KindImport)
	if err != nil {
		return nil, err
	}
	j.Status = StatusResumable
	j.Result = fmt.Sprintf("%d favorites need to be processed", count)

	if err := m.jobs.Create(ctx, j); err != nil {
		if errors.Is(err, store.ErrResumableJobExists) {
			// Lost a race to another process; surface the winner's job.
			winners, lerr := m.jobs.ListByStatus(ctx, StatusResumable)
			if lerr == nil && len(winners) > 0 {
				return winners[0], nil
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create resumable job: %w", err)
	}

	m.logger.Info("created resumable job for surviving backlog",
		"job_id", j.ID,
		"backlog", count)

	return j, nil
}
