package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a background job
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"

	// StatusResumable marks a job whose backlog of staged import items
	// survived an interruption. Resumable jobs are created only by the
	// RecoveryManager, never by the dispatcher.
	StatusResumable Status = "resumable"
)

// Terminal reports whether the status admits no further transitions by the
// dispatcher. A failed job may still be superseded by a resumable job, but
// the failed record itself never changes again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job kind constants
const (
	// KindImport represents the bulk favorites import pipeline
	KindImport = "import"

	// KindEnrich represents single-bookmark re-enrichment
	KindEnrich = "enrich"
)

// Common validation errors for Job
var (
	ErrEmptyJobName   = errors.New("job name cannot be empty")
	ErrUnknownJobKind = errors.New("unknown job kind")
)

// Job represents one unit of background work and its durable progress
// record. The record outlives the process: status and progress are written
// to the store at every transition so a restart can reconstruct what was
// running.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a pending Job with a fresh identity.
// Returns an error if validation fails.
func New(name, kind string) (*Job, error) {
	now := time.Now().UTC()
	j := &Job{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := j.Validate(); err != nil {
		return nil, err
	}

	return j, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.Name == "" {
		return ErrEmptyJobName
	}

	if j.Kind != KindImport && j.Kind != KindEnrich {
		return ErrUnknownJobKind
	}

	return nil
}

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// Create persists a job with the status it carries. Returns
	// store.ErrResumableJobExists when the job is resumable and its kind
	// already has a resumable record.
	Create(ctx context.Context, j *Job) error

	// UpdateStatus transitions a job to the given status, overwriting
	// progress and result in the same statement.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, progress int, result string) error

	// UpdateProgress overwrites only the progress column. Used by running
	// pipelines between items.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error

	// GetByID retrieves a job by its unique ID.
	// Returns store.ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// List retrieves the most recent jobs, newest first.
	List(ctx context.Context, limit int) ([]*Job, error)

	// ListByStatus retrieves all jobs with the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*Job, error)

	// DeleteTerminal removes completed and failed job records, returning
	// the number of rows deleted. Operator cleanup; never run automatically.
	DeleteTerminal(ctx context.Context) (int64, error)
}

// WorkFunc is the unit of work a submitted job executes. It returns the
// human-readable result string recorded on the completed job, or an error
// whose message becomes the failed job's result.
type WorkFunc func(ctx context.Context, jobID uuid.UUID) (string, error)
