package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
)

// BookmarkStore defines the interface for bookmark data persistence.
type BookmarkStore interface {
	// Create saves a new bookmark to the store.
	// Returns ErrDuplicate if a bookmark with the same URL already exists.
	Create(ctx context.Context, bookmark *domain.Bookmark) error

	// GetByID retrieves a bookmark by its unique ID, including its tags.
	// Returns ErrBookmarkNotFound if the bookmark does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error)

	// GetByURL retrieves a bookmark by its URL, including its tags.
	// Returns ErrBookmarkNotFound if no bookmark has that URL.
	GetByURL(ctx context.Context, url string) (*domain.Bookmark, error)

	// Update saves changes to an existing bookmark.
	// Returns ErrBookmarkNotFound if the bookmark does not exist.
	Update(ctx context.Context, bookmark *domain.Bookmark) error

	// Delete removes a bookmark and its tag associations.
	// Returns ErrBookmarkNotFound if the bookmark does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves bookmarks ordered by creation time, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error)

	// ReplaceTags replaces the set of tags associated with a bookmark.
	ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error

	// MoveFolder reassigns every bookmark in the given folder to another
	// folder (nil detaches them). Used when folders are deleted.
	MoveFolder(ctx context.Context, fromFolderID uuid.UUID, toFolderID *uuid.UUID) error

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BookmarkStore
}
