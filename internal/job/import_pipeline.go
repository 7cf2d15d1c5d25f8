package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/enrich"
	"github.com/kestrelab/linkhoard/internal/store"
)

// Common errors
var (
	ErrNilJobStore        = errors.New("job store cannot be nil")
	ErrNilPendingStore    = errors.New("pending item store cannot be nil")
	ErrNilEnricher        = errors.New("enricher cannot be nil")
	ErrNilBookmarkWriter  = errors.New("bookmark writer cannot be nil")
	ErrNilLogger          = errors.New("logger cannot be nil")
	ErrNilRecoveryManager = errors.New("recovery manager cannot be nil")
	ErrNoCandidates       = errors.New("import batch contains no candidates")
)

// ImportCandidate is one raw favorite handed to the pipeline before staging.
type ImportCandidate struct {
	URL      string
	Title    string
	Metadata string
}

// BookmarkWriter defines the slice of the bookmark service the pipeline
// needs. Upsert must be idempotent on URL so re-running a drained batch
// after a crash updates bookmarks in place instead of duplicating them.
type BookmarkWriter interface {
	// Upsert creates the bookmark for url or updates the existing one,
	// returning its ID.
	Upsert(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error)
}

// ImportPipeline processes staged favorites one at a time: enrich, upsert,
// retire, record progress. Staging is durable before any enrichment starts,
// so a crash at any point leaves a backlog the RecoveryManager can offer
// for resumption.
type ImportPipeline struct {
	jobs      JobStore
	pending   store.PendingItemStore
	enricher  enrich.Enricher
	bookmarks BookmarkWriter
	itemDelay time.Duration
	logger    *slog.Logger
}

// NewImportPipeline creates a new import pipeline
func NewImportPipeline(
	jobs JobStore,
	pending store.PendingItemStore,
	enricher enrich.Enricher,
	bookmarks BookmarkWriter,
	itemDelay time.Duration,
	logger *slog.Logger,
) (*ImportPipeline, error) {
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if pending == nil {
		return nil, ErrNilPendingStore
	}
	if enricher == nil {
		return nil, ErrNilEnricher
	}
	if bookmarks == nil {
		return nil, ErrNilBookmarkWriter
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &ImportPipeline{
		jobs:      jobs,
		pending:   pending,
		enricher:  enricher,
		bookmarks: bookmarks,
		itemDelay: itemDelay,
		logger:    logger,
	}, nil
}

// Run returns the work for a fresh import: stage every candidate durably,
// then drain the backlog.
func (p *ImportPipeline) Run(candidates []ImportCandidate) WorkFunc {
	return func(ctx context.Context, jobID uuid.UUID) (string, error) {
		if err := p.stage(ctx, candidates); err != nil {
			return "", err
		}
		return p.drain(ctx, jobID)
	}
}

// Resume returns the work that drains whatever backlog is already staged,
// without staging anything new.
func (p *ImportPipeline) Resume() WorkFunc {
	return func(ctx context.Context, jobID uuid.UUID) (string, error) {
		return p.drain(ctx, jobID)
	}
}

// EnrichOne returns the work that regenerates summary, tags, and folder for
// a single bookmark and writes the result back in place.
func (p *ImportPipeline) EnrichOne(url, title string) WorkFunc {
	return func(ctx context.Context, jobID uuid.UUID) (string, error) {
		item := &domain.PendingItem{URL: url, Title: title}
		if err := p.enrichItem(ctx, item); err != nil {
			return "", err
		}
		return fmt.Sprintf("enriched %s", url), nil
	}
}

// stage validates candidates and persists them as pending items in a single
// transaction. Invalid candidates are logged and skipped rather than
// failing the whole batch.
func (p *ImportPipeline) stage(ctx context.Context, candidates []ImportCandidate) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}

	items := make([]*domain.PendingItem, 0, len(candidates))
	for _, c := range candidates {
		item, err := domain.NewPendingItem(c.URL, c.Title, c.Metadata)
		if err != nil {
			p.logger.Warn("skipping invalid import candidate",
				"url", c.URL,
				"error", err)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return ErrNoCandidates
	}

	if err := p.pending.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to stage import batch: %w", err)
	}

	p.logger.Info("import batch staged", "item_count", len(items))
	return nil
}

// drain processes every unprocessed item in insertion order. Enrichment
// failures on a single item are logged and the item retired so one bad URL
// can never wedge the backlog; failures of the control loop itself (listing,
// retiring, progress writes) abort the drain and fail the job.
func (p *ImportPipeline) drain(ctx context.Context, jobID uuid.UUID) (string, error) {
	items, err := p.pending.ListUnprocessed(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list staged items: %w", err)
	}

	total := len(items)
	if total == 0 {
		return "processed 0 of 0 favorites", nil
	}

	logger := p.logger.With("job_id", jobID, "item_count", total)
	logger.Info("draining import backlog")

	succeeded := 0
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("import interrupted: %w", err)
		}

		if err := p.enrichItem(ctx, item); err != nil {
			logger.Error("failed to process favorite, skipping",
				"url", item.URL,
				"error", err)
		} else {
			succeeded++
		}

		if err := p.pending.MarkProcessed(ctx, item.ID); err != nil {
			return "", fmt.Errorf("failed to retire staged item: %w", err)
		}

		progress := int(math.Floor(float64(i+1) * 100 / float64(total)))
		if err := p.jobs.UpdateProgress(ctx, jobID, progress); err != nil {
			return "", fmt.Errorf("failed to record progress: %w", err)
		}

		// Pace requests to the AI provider between items, not after the last.
		if p.itemDelay > 0 && i < total-1 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("import interrupted: %w", ctx.Err())
			case <-time.After(p.itemDelay):
			}
		}
	}

	logger.Info("import backlog drained",
		"succeeded", succeeded,
		"failed", total-succeeded)

	return fmt.Sprintf("processed %d of %d favorites", succeeded, total), nil
}

// enrichItem runs the summarize/tag/classify sequence for one item and
// upserts the resulting bookmark.
func (p *ImportPipeline) enrichItem(ctx context.Context, item *domain.PendingItem) error {
	summary, err := p.enricher.Summarize(ctx, item.URL, item.Metadata)
	if err != nil {
		return fmt.Errorf("failed to summarize content: %w", err)
	}

	tags, err := p.enricher.SuggestTags(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to suggest tags: %w", err)
	}

	folderID, err := p.enricher.SuggestFolder(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to suggest folder: %w", err)
	}

	var folder *uuid.UUID
	if folderID != uuid.Nil {
		folder = &folderID
	}

	if _, err := p.bookmarks.Upsert(ctx, item.URL, item.Title, summary, folder, tags); err != nil {
		return fmt.Errorf("failed to upsert bookmark: %w", err)
	}

	return nil
}
