package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/events"
	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// ImportRequest is one favorite submitted for bulk import.
type ImportRequest struct {
	URL      string
	Title    string
	Metadata string
}

// ImportService accepts import and enrichment requests. It records nothing
// itself: each request is turned into an event with a pregenerated job ID,
// and the job system picks the event up asynchronously. The ID is returned
// to the caller immediately so progress can be polled.
type ImportService interface {
	// QueueImport requests a bulk import of the given favorites and
	// returns the job ID that will track it. Items without a URL are
	// dropped; if nothing remains, ErrNothingToImport is returned.
	QueueImport(ctx context.Context, items []ImportRequest) (uuid.UUID, error)

	// QueueEnrich requests re-enrichment of an existing bookmark and
	// returns the job ID that will track it.
	QueueEnrich(ctx context.Context, bookmarkID uuid.UUID) (uuid.UUID, error)

	// ResumeImport requests that the backlog behind the given job be
	// drained. The job must be resumable, or failed with staged favorites
	// still unprocessed; otherwise ErrNotResumable is returned.
	ResumeImport(ctx context.Context, jobID uuid.UUID) error
}

type importServiceImpl struct {
	jobs      job.JobStore
	pending   store.PendingItemStore
	bookmarks BookmarkRepository
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ ImportService = (*importServiceImpl)(nil)

// NewImportService creates a new ImportService.
func NewImportService(jobs job.JobStore, pending store.PendingItemStore, bookmarks BookmarkRepository, emitter events.EventEmitter, log *slog.Logger) (ImportService, error) {
	if jobs == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "job store cannot be nil"}
	}
	if pending == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "pending item store cannot be nil"}
	}
	if bookmarks == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "bookmark repository cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "event emitter cannot be nil"}
	}
	if log == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "logger cannot be nil"}
	}

	return &importServiceImpl{
		jobs:      jobs,
		pending:   pending,
		bookmarks: bookmarks,
		emitter:   emitter,
		logger:    log.With("component", "import_service"),
	}, nil
}

func (s *importServiceImpl) QueueImport(ctx context.Context, items []ImportRequest) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payloadItems := make([]events.ImportItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.URL) == "" {
			continue
		}
		payloadItems = append(payloadItems, events.ImportItem{
			URL:      item.URL,
			Title:    item.Title,
			Metadata: item.Metadata,
		})
	}
	if len(payloadItems) == 0 {
		return uuid.Nil, ErrNothingToImport
	}

	jobID := uuid.New()
	payload := events.ImportRequestPayload{
		JobID: jobID,
		Name:  fmt.Sprintf("Import %d favorites", len(payloadItems)),
		Items: payloadItems,
	}

	event, err := events.NewJobRequestEvent(events.EventTypeImport, payload)
	if err != nil {
		return uuid.Nil, NewServiceError("queue_import", "failed to build import event", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return uuid.Nil, NewServiceError("queue_import", "failed to emit import event", err)
	}

	log.Info("import queued", "job_id", jobID, "item_count", len(payloadItems))
	return jobID, nil
}

func (s *importServiceImpl) QueueEnrich(ctx context.Context, bookmarkID uuid.UUID) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookmark, err := s.bookmarks.GetByID(ctx, bookmarkID)
	if err != nil {
		return uuid.Nil, NewServiceError("queue_enrich", "failed to retrieve bookmark", err)
	}

	jobID := uuid.New()
	payload := events.EnrichRequestPayload{
		JobID: jobID,
		Name:  fmt.Sprintf("Enrich %s", bookmark.URL),
		URL:   bookmark.URL,
		Title: bookmark.Title,
	}

	event, err := events.NewJobRequestEvent(events.EventTypeEnrich, payload)
	if err != nil {
		return uuid.Nil, NewServiceError("queue_enrich", "failed to build enrich event", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return uuid.Nil, NewServiceError("queue_enrich", "failed to emit enrich event", err)
	}

	log.Info("enrichment queued", "job_id", jobID, "bookmark_id", bookmarkID)
	return jobID, nil
}

func (s *importServiceImpl) ResumeImport(ctx context.Context, jobID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return ErrJobNotFound
		}
		return NewServiceError("resume_import", "failed to retrieve job", err)
	}

	switch j.Status {
	case job.StatusResumable:
		// Always eligible.
	case job.StatusFailed:
		count, err := s.pending.CountUnprocessed(ctx)
		if err != nil {
			return NewServiceError("resume_import", "failed to count staged favorites", err)
		}
		if count == 0 {
			return ErrNotResumable
		}
	default:
		return ErrNotResumable
	}

	payload := events.ResumeRequestPayload{JobID: jobID}
	event, err := events.NewJobRequestEvent(events.EventTypeImportResume, payload)
	if err != nil {
		return NewServiceError("resume_import", "failed to build resume event", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return NewServiceError("resume_import", "failed to emit resume event", err)
	}

	log.Info("resume queued", "job_id", jobID)
	return nil
}
