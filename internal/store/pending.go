package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
)

// PendingItemStore defines the interface for persisting bulk-import
// candidates. The table is the crash-safety anchor of the import pipeline:
// once a batch is staged here, the backlog survives the process regardless
// of what happens to the job that staged it.
type PendingItemStore interface {
	// CreateBatch persists all items in a single transaction. Either every
	// item is durably staged or none is.
	CreateBatch(ctx context.Context, items []*domain.PendingItem) error

	// ListUnprocessed retrieves all items with processed=false in stable
	// insertion order.
	ListUnprocessed(ctx context.Context) ([]*domain.PendingItem, error)

	// CountUnprocessed returns the number of items with processed=false.
	CountUnprocessed(ctx context.Context) (int, error)

	// MarkProcessed retires an item by flipping its processed flag.
	// Returns ErrPendingItemNotFound if the item does not exist.
	MarkProcessed(ctx context.Context, id uuid.UUID) error

	// DeleteProcessed removes retired items. Administrative cleanup; the
	// pipeline itself never deletes.
	DeleteProcessed(ctx context.Context) (int64, error)
}
