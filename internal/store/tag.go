package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag to the store.
	// Returns ErrTagNameExists if a tag with the same name already exists.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique ID.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// GetByName retrieves a tag by its normalized name.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)

	// Delete removes a tag and its bookmark associations.
	// Returns ErrTagNotFound if the tag does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves tags ordered by name.
	List(ctx context.Context, offset, limit int) ([]*domain.Tag, error)

	// Search retrieves tags whose name contains the query substring.
	Search(ctx context.Context, query string) ([]*domain.Tag, error)

	// Popular retrieves the most-used tags, ordered by how many bookmarks
	// carry them.
	Popular(ctx context.Context, limit int) ([]*domain.Tag, error)

	// WithTx returns a new store instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
