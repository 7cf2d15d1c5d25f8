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

// PostgresBookmarkStore implements the store.BookmarkStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookmarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkStore creates a new PostgreSQL implementation of the
// store.BookmarkStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
func NewPostgresBookmarkStore(db store.DBTX, logger *slog.Logger) *PostgresBookmarkStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookmarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "bookmark_store")),
	}
}

// Ensure PostgresBookmarkStore implements store.BookmarkStore
var _ store.BookmarkStore = (*PostgresBookmarkStore)(nil)

// Create implements store.BookmarkStore.Create
func (s *PostgresBookmarkStore) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := bookmark.Validate(); err != nil {
		log.Warn("bookmark validation failed during create",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return err
	}

	query := `
		INSERT INTO bookmarks (id, url, title, summary, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		bookmark.ID,
		bookmark.URL,
		bookmark.Title,
		bookmark.Summary,
		bookmark.FolderID,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.BookmarkStore.GetByID
func (s *PostgresBookmarkStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByURL implements store.BookmarkStore.GetByURL
func (s *PostgresBookmarkStore) GetByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	return s.getBy(ctx, "url = $1", url)
}

func (s *PostgresBookmarkStore) getBy(ctx context.Context, where string, arg any) (*domain.Bookmark, error) {
	query := `
		SELECT id, url, title, summary, folder_id, created_at, updated_at
		FROM bookmarks
		WHERE ` + where

	var b domain.Bookmark
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&b.ID,
		&b.URL,
		&b.Title,
		&b.Summary,
		&b.FolderID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrBookmarkNotFound
		}
		return nil, MapError(err)
	}

	tags, err := s.tagsFor(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Tags = tags

	return &b, nil
}

// Update implements store.BookmarkStore.Update
func (s *PostgresBookmarkStore) Update(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := bookmark.Validate(); err != nil {
		log.Warn("bookmark validation failed during update",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return err
	}

	query := `
		UPDATE bookmarks
		SET url = $1, title = $2, summary = $3, folder_id = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := s.db.ExecContext(
		ctx,
		query,
		bookmark.URL,
		bookmark.Title,
		bookmark.Summary,
		bookmark.FolderID,
		time.Now().UTC(),
		bookmark.ID,
	)
	if err != nil {
		log.Error("failed to update bookmark",
			slog.String("error", err.Error()),
			slog.String("bookmark_id", bookmark.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrBookmarkNotFound)
}

// Delete implements store.BookmarkStore.Delete. The bookmark_tags rows go
// with it via ON DELETE CASCADE.
func (s *PostgresBookmarkStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrBookmarkNotFound)
}

// List implements store.BookmarkStore.List
func (s *PostgresBookmarkStore) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error) {
	query := `
		SELECT id, url, title, summary, folder_id, created_at, updated_at
		FROM bookmarks
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		err := rows.Scan(
			&b.ID,
			&b.URL,
			&b.Title,
			&b.Summary,
			&b.FolderID,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	for _, b := range bookmarks {
		tags, err := s.tagsFor(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Tags = tags
	}

	return bookmarks, nil
}

// ReplaceTags implements store.BookmarkStore.ReplaceTags
func (s *PostgresBookmarkStore) ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmark_tags WHERE bookmark_id = $1`, bookmarkID,
	); err != nil {
		return MapError(err)
	}

	for _, tagID := range tagIDs {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			bookmarkID, tagID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach tag %s: %w", tagID, MapError(err))
		}
	}

	return nil
}

// MoveFolder implements store.BookmarkStore.MoveFolder
func (s *PostgresBookmarkStore) MoveFolder(ctx context.Context, fromFolderID uuid.UUID, toFolderID *uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET folder_id = $1, updated_at = $2 WHERE folder_id = $3`,
		toFolderID, time.Now().UTC(), fromFolderID,
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// WithTx implements store.BookmarkStore.WithTx
func (s *PostgresBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore {
	return &PostgresBookmarkStore{
		db:     tx,
		logger: s.logger,
	}
}

// tagsFor loads the tags attached to one bookmark, ordered by name.
func (s *PostgresBookmarkStore) tagsFor(ctx context.Context, bookmarkID uuid.UUID) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		WHERE bt.bookmark_id = $1
		ORDER BY t.name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, bookmarkID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}
