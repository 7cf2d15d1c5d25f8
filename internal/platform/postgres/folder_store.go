package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// PostgresFolderStore implements the store.FolderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFolderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFolderStore creates a new PostgreSQL implementation of the
// store.FolderStore interface.
func NewPostgresFolderStore(db store.DBTX, logger *slog.Logger) *PostgresFolderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFolderStore{
		db:     db,
		logger: logger.With(slog.String("component", "folder_store")),
	}
}

// Ensure PostgresFolderStore implements store.FolderStore
var _ store.FolderStore = (*PostgresFolderStore)(nil)

// Create implements store.FolderStore.Create
func (s *PostgresFolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		log.Warn("folder validation failed during create",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return err
	}

	query := `
		INSERT INTO folders (id, name, parent_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.Description,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.FolderStore.GetByID
func (s *PostgresFolderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	query := `
		SELECT id, name, parent_id, description, created_at, updated_at
		FROM folders
		WHERE id = $1
	`
	var f domain.Folder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.ParentID,
		&f.Description,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrFolderNotFound
		}
		return nil, MapError(err)
	}

	return &f, nil
}

// Update implements store.FolderStore.Update
func (s *PostgresFolderStore) Update(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		log.Warn("folder validation failed during update",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return err
	}

	query := `
		UPDATE folders
		SET name = $1, parent_id = $2, description = $3, updated_at = $4
		WHERE id = $5
	`
	res, err := s.db.ExecContext(
		ctx,
		query,
		folder.Name,
		folder.ParentID,
		folder.Description,
		time.Now().UTC(),
		folder.ID,
	)
	if err != nil {
		log.Error("failed to update folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrFolderNotFound)
}

// Delete implements store.FolderStore.Delete
func (s *PostgresFolderStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrFolderNotFound)
}

// ListAll implements store.FolderStore.ListAll
func (s *PostgresFolderStore) ListAll(ctx context.Context) ([]*domain.Folder, error) {
	query := `
		SELECT id, name, parent_id, description, created_at, updated_at
		FROM folders
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var folders []*domain.Folder
	for rows.Next() {
		var f domain.Folder
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.ParentID,
			&f.Description,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return folders, nil
}

// Reparent implements store.FolderStore.Reparent
func (s *PostgresFolderStore) Reparent(ctx context.Context, fromParentID uuid.UUID, toParentID *uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE folders SET parent_id = $1, updated_at = $2 WHERE parent_id = $3`,
		toParentID, time.Now().UTC(), fromParentID,
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// WithTx implements store.FolderStore.WithTx
func (s *PostgresFolderStore) WithTx(tx *sql.Tx) store.FolderStore {
	return &PostgresFolderStore{
		db:     tx,
		logger: s.logger,
	}
}
