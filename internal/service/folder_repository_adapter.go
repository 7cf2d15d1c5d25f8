package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/store"
)

// NewFolderRepositoryAdapter creates a new adapter that allows a
// store.FolderStore to be used where a FolderRepository is expected.
func NewFolderRepositoryAdapter(folderStore store.FolderStore, db *sql.DB) FolderRepository {
	return &folderRepositoryAdapter{
		folderStore: folderStore,
		db:          db,
	}
}

// folderRepositoryAdapter adapts a store.FolderStore to the
// FolderRepository interface
type folderRepositoryAdapter struct {
	folderStore store.FolderStore
	db          *sql.DB
}

// Create implements FolderRepository.Create
func (a *folderRepositoryAdapter) Create(ctx context.Context, folder *domain.Folder) error {
	return a.folderStore.Create(ctx, folder)
}

// GetByID implements FolderRepository.GetByID
func (a *folderRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	return a.folderStore.GetByID(ctx, id)
}

// Update implements FolderRepository.Update
func (a *folderRepositoryAdapter) Update(ctx context.Context, folder *domain.Folder) error {
	return a.folderStore.Update(ctx, folder)
}

// Delete implements FolderRepository.Delete
func (a *folderRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.folderStore.Delete(ctx, id)
}

// ListAll implements FolderRepository.ListAll
func (a *folderRepositoryAdapter) ListAll(ctx context.Context) ([]*domain.Folder, error) {
	return a.folderStore.ListAll(ctx)
}

// Reparent implements FolderRepository.Reparent
func (a *folderRepositoryAdapter) Reparent(ctx context.Context, from, to *uuid.UUID) error {
	return a.folderStore.Reparent(ctx, *from, to)
}

// WithTx implements FolderRepository.WithTx
func (a *folderRepositoryAdapter) WithTx(tx *sql.Tx) FolderRepository {
	return &folderRepositoryAdapter{
		folderStore: a.folderStore.WithTx(tx),
		db:          a.db,
	}
}

// DB implements FolderRepository.DB
func (a *folderRepositoryAdapter) DB() *sql.DB {
	return a.db
}
