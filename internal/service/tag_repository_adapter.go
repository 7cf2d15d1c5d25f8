package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/store"
)

// NewTagRepositoryAdapter creates a new adapter that allows a
// store.TagStore to be used where a TagRepository is expected.
func NewTagRepositoryAdapter(tagStore store.TagStore) TagRepository {
	return &tagRepositoryAdapter{
		tagStore: tagStore,
	}
}

// tagRepositoryAdapter adapts a store.TagStore to the TagRepository
// interface
type tagRepositoryAdapter struct {
	tagStore store.TagStore
}

// Create implements TagRepository.Create
func (a *tagRepositoryAdapter) Create(ctx context.Context, tag *domain.Tag) error {
	return a.tagStore.Create(ctx, tag)
}

// GetByID implements TagRepository.GetByID
func (a *tagRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return a.tagStore.GetByID(ctx, id)
}

// GetByName implements TagRepository.GetByName
func (a *tagRepositoryAdapter) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return a.tagStore.GetByName(ctx, name)
}

// Delete implements TagRepository.Delete
func (a *tagRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.tagStore.Delete(ctx, id)
}

// List implements TagRepository.List
func (a *tagRepositoryAdapter) List(ctx context.Context, offset, limit int) ([]*domain.Tag, error) {
	return a.tagStore.List(ctx, offset, limit)
}

// Search implements TagRepository.Search
func (a *tagRepositoryAdapter) Search(ctx context.Context, query string) ([]*domain.Tag, error) {
	return a.tagStore.Search(ctx, query)
}

// Popular implements TagRepository.Popular
func (a *tagRepositoryAdapter) Popular(ctx context.Context, limit int) ([]*domain.Tag, error) {
	return a.tagStore.Popular(ctx, limit)
}

// WithTx implements TagRepository.WithTx
func (a *tagRepositoryAdapter) WithTx(tx *sql.Tx) TagRepository {
	return &tagRepositoryAdapter{
		tagStore: a.tagStore.WithTx(tx),
	}
}
