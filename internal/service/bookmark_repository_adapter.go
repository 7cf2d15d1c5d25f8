package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/store"
)

// NewBookmarkRepositoryAdapter creates a new adapter that allows a
// store.BookmarkStore to be used where a BookmarkRepository is expected.
func NewBookmarkRepositoryAdapter(bookmarkStore store.BookmarkStore, db *sql.DB) BookmarkRepository {
	return &bookmarkRepositoryAdapter{
		bookmarkStore: bookmarkStore,
		db:            db,
	}
}

// bookmarkRepositoryAdapter adapts a store.BookmarkStore to the
// BookmarkRepository interface
type bookmarkRepositoryAdapter struct {
	bookmarkStore store.BookmarkStore
	db            *sql.DB
}

// Create implements BookmarkRepository.Create
func (a *bookmarkRepositoryAdapter) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	return a.bookmarkStore.Create(ctx, bookmark)
}

// GetByID implements BookmarkRepository.GetByID
func (a *bookmarkRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	return a.bookmarkStore.GetByID(ctx, id)
}

// GetByURL implements BookmarkRepository.GetByURL
func (a *bookmarkRepositoryAdapter) GetByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	return a.bookmarkStore.GetByURL(ctx, url)
}

// Update implements BookmarkRepository.Update
func (a *bookmarkRepositoryAdapter) Update(ctx context.Context, bookmark *domain.Bookmark) error {
	return a.bookmarkStore.Update(ctx, bookmark)
}

// Delete implements BookmarkRepository.Delete
func (a *bookmarkRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.bookmarkStore.Delete(ctx, id)
}

// List implements BookmarkRepository.List
func (a *bookmarkRepositoryAdapter) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error) {
	return a.bookmarkStore.List(ctx, offset, limit)
}

// ReplaceTags implements BookmarkRepository.ReplaceTags
func (a *bookmarkRepositoryAdapter) ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error {
	return a.bookmarkStore.ReplaceTags(ctx, bookmarkID, tagIDs)
}

// MoveFolder implements BookmarkRepository.MoveFolder
func (a *bookmarkRepositoryAdapter) MoveFolder(ctx context.Context, from, to *uuid.UUID) error {
	return a.bookmarkStore.MoveFolder(ctx, *from, to)
}

// WithTx implements BookmarkRepository.WithTx
func (a *bookmarkRepositoryAdapter) WithTx(tx *sql.Tx) BookmarkRepository {
	return &bookmarkRepositoryAdapter{
		bookmarkStore: a.bookmarkStore.WithTx(tx),
		db:            a.db,
	}
}

// DB implements BookmarkRepository.DB
func (a *bookmarkRepositoryAdapter) DB() *sql.DB {
	return a.db
}
