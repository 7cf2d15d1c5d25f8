package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
)

// FolderStore defines the interface for folder data persistence.
type FolderStore interface {
	// Create saves a new folder to the store.
	Create(ctx context.Context, folder *domain.Folder) error

	// GetByID retrieves a folder by its unique ID.
	// Returns ErrFolderNotFound if the folder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error)

	// Update saves changes to an existing folder.
	// Returns ErrFolderNotFound if the folder does not exist.
	Update(ctx context.Context, folder *domain.Folder) error

	// Delete removes a folder. Children and bookmarks must be reassigned
	// first (see Reparent and BookmarkStore.MoveFolder).
	// Returns ErrFolderNotFound if the folder does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAll retrieves every folder, ordered by creation time. Folder
	// counts are small enough that tree assembly happens in memory.
	ListAll(ctx context.Context) ([]*domain.Folder, error)

	// Reparent moves all direct children of one folder under another
	// parent (nil makes them roots). Used when folders are deleted.
	Reparent(ctx context.Context, fromParentID uuid.UUID, toParentID *uuid.UUID) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FolderStore
}
