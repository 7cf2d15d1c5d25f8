package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelab/linkhoard/internal/events"
)

// PipelineEventHandler implements events.EventHandler, turning job request
// events into dispatched work. It is the only bridge between the service
// layer (which emits events) and the dispatcher.
type PipelineEventHandler struct {
	pipeline   *ImportPipeline
	dispatcher *Dispatcher
	jobs       JobStore
	logger     *slog.Logger
}

// NewPipelineEventHandler creates a new event handler backed by the given
// pipeline and dispatcher.
func NewPipelineEventHandler(
	pipeline *ImportPipeline,
	dispatcher *Dispatcher,
	jobs JobStore,
	logger *slog.Logger,
) (*PipelineEventHandler, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher cannot be nil")
	}
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &PipelineEventHandler{
		pipeline:   pipeline,
		dispatcher: dispatcher,
		jobs:       jobs,
		logger:     logger.With("component", "pipeline_event_handler"),
	}, nil
}

// Ensure PipelineEventHandler implements events.EventHandler
var _ events.EventHandler = (*PipelineEventHandler)(nil)

// HandleEvent processes job request events by building the matching work
// and handing it to the dispatcher.
func (h *PipelineEventHandler) HandleEvent(ctx context.Context, event *events.JobRequestEvent) error {
	switch event.Type {
	case events.EventTypeImport:
		return h.handleImport(ctx, event)
	case events.EventTypeImportResume:
		return h.handleResume(ctx, event)
	case events.EventTypeEnrich:
		return h.handleEnrich(ctx, event)
	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}
}

func (h *PipelineEventHandler) handleImport(ctx context.Context, event *events.JobRequestEvent) error {
	var payload events.ImportRequestPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal import payload: %w", err)
	}

	candidates := make([]ImportCandidate, 0, len(payload.Items))
	for _, item := range payload.Items {
		candidates = append(candidates, ImportCandidate{
			URL:      item.URL,
			Title:    item.Title,
			Metadata: item.Metadata,
		})
	}

	j, err := jobFromPayload(payload.JobID, payload.Name, KindImport)
	if err != nil {
		return err
	}

	h.logger.Info("submitting import job",
		"job_id", j.ID,
		"item_count", len(candidates),
		"event_id", event.ID)

	if err := h.dispatcher.Submit(ctx, j, h.pipeline.Run(candidates)); err != nil {
		return fmt.Errorf("failed to submit import job: %w", err)
	}
	return nil
}

func (h *PipelineEventHandler) handleResume(ctx context.Context, event *events.JobRequestEvent) error {
	var payload events.ResumeRequestPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal resume payload: %w", err)
	}

	j, err := h.jobs.GetByID(ctx, payload.JobID)
	if err != nil {
		return fmt.Errorf("failed to load job to resume: %w", err)
	}

	h.logger.Info("requeueing resumable job",
		"job_id", j.ID,
		"event_id", event.ID)

	if err := h.dispatcher.Requeue(j, h.pipeline.Resume()); err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}
	return nil
}

func (h *PipelineEventHandler) handleEnrich(ctx context.Context, event *events.JobRequestEvent) error {
	var payload events.EnrichRequestPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal enrich payload: %w", err)
	}

	j, err := jobFromPayload(payload.JobID, payload.Name, KindEnrich)
	if err != nil {
		return err
	}

	h.logger.Info("submitting enrich job",
		"job_id", j.ID,
		"url", payload.URL,
		"event_id", event.ID)

	if err := h.dispatcher.Submit(ctx, j, h.pipeline.EnrichOne(payload.URL, payload.Title)); err != nil {
		return fmt.Errorf("failed to submit enrich job: %w", err)
	}
	return nil
}

// jobFromPayload builds a pending job record carrying the requester's
// pregenerated ID, so the ID a client was handed at request time matches
// the record the dispatcher persists.
func jobFromPayload(id uuid.UUID, name, kind string) (*Job, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("job ID cannot be empty")
	}

	now := time.Now().UTC()
	j := &Job{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}
