package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// BookmarkRepository defines the data access contract needed by the
// bookmark service. It aligns with store.BookmarkStore but adds
// transaction support hooks.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error)
	GetByURL(ctx context.Context, url string) (*domain.Bookmark, error)
	Update(ctx context.Context, bookmark *domain.Bookmark) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error)
	ReplaceTags(ctx context.Context, bookmarkID uuid.UUID, tagIDs []uuid.UUID) error
	MoveFolder(ctx context.Context, from, to *uuid.UUID) error

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *sql.Tx) BookmarkRepository

	// DB returns the underlying database connection for transaction management.
	DB() *sql.DB
}

// TagRepository defines the data access contract needed for tag
// get-or-create during bookmark writes.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*domain.Tag, error)
	Search(ctx context.Context, query string) ([]*domain.Tag, error)
	Popular(ctx context.Context, limit int) ([]*domain.Tag, error)

	WithTx(tx *sql.Tx) TagRepository
}

// BookmarkService defines the operations for managing bookmarks.
type BookmarkService interface {
	// Create saves a new bookmark with the given tags. Returns
	// ErrBookmarkExists if the URL is already saved.
	Create(ctx context.Context, url, title string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error)

	// Get retrieves a bookmark by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error)

	// Update applies new title, summary, and folder to an existing
	// bookmark and replaces its tags.
	Update(ctx context.Context, id uuid.UUID, title, summary string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error)

	// Delete removes a bookmark.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of bookmarks, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error)

	// Upsert creates the bookmark for url or refreshes it in place when it
	// already exists, then replaces its tags. Tags are created on demand.
	// Returns the bookmark ID.
	Upsert(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error)
}

type bookmarkServiceImpl struct {
	bookmarks BookmarkRepository
	tags      TagRepository
	logger    *slog.Logger
}

var _ BookmarkService = (*bookmarkServiceImpl)(nil)

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(bookmarks BookmarkRepository, tags TagRepository, log *slog.Logger) (BookmarkService, error) {
	if bookmarks == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "bookmark repository cannot be nil"}
	}
	if tags == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "tag repository cannot be nil"}
	}
	if log == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "logger cannot be nil"}
	}

	return &bookmarkServiceImpl{
		bookmarks: bookmarks,
		tags:      tags,
		logger:    log.With("component", "bookmark_service"),
	}, nil
}

func (s *bookmarkServiceImpl) Create(ctx context.Context, url, title string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.bookmarks.GetByURL(ctx, url); err == nil {
		return nil, ErrBookmarkExists
	} else if !errors.Is(err, store.ErrBookmarkNotFound) {
		return nil, NewServiceError("create_bookmark", "failed to check existing URL", err)
	}

	bookmark, err := domain.NewBookmark(url, title)
	if err != nil {
		return nil, NewServiceError("create_bookmark", "invalid bookmark", err)
	}
	bookmark.FolderID = folderID

	err = store.RunInTransaction(ctx, s.bookmarks.DB(), func(txCtx context.Context, tx *sql.Tx) error {
		txBookmarks := s.bookmarks.WithTx(tx)
		txTags := s.tags.WithTx(tx)

		if err := txBookmarks.Create(txCtx, bookmark); err != nil {
			return err
		}
		return s.applyTags(txCtx, txBookmarks, txTags, bookmark, tags)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			return nil, ErrBookmarkExists
		}
		return nil, NewServiceError("create_bookmark", "failed to save bookmark", err)
	}

	log.Debug("bookmark created", "bookmark_id", bookmark.ID, "url", url)
	return bookmark, nil
}

func (s *bookmarkServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	bookmark, err := s.bookmarks.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_bookmark", "failed to retrieve bookmark", err)
	}
	return bookmark, nil
}

func (s *bookmarkServiceImpl) Update(ctx context.Context, id uuid.UUID, title, summary string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	bookmark, err := s.bookmarks.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("update_bookmark", "failed to retrieve bookmark", err)
	}

	bookmark.Title = title
	bookmark.Summary = summary
	bookmark.FolderID = folderID
	bookmark.Touch()

	err = store.RunInTransaction(ctx, s.bookmarks.DB(), func(txCtx context.Context, tx *sql.Tx) error {
		txBookmarks := s.bookmarks.WithTx(tx)
		txTags := s.tags.WithTx(tx)

		if err := txBookmarks.Update(txCtx, bookmark); err != nil {
			return err
		}
		return s.applyTags(txCtx, txBookmarks, txTags, bookmark, tags)
	})
	if err != nil {
		return nil, NewServiceError("update_bookmark", "failed to update bookmark", err)
	}

	log.Debug("bookmark updated", "bookmark_id", bookmark.ID)
	return bookmark, nil
}

func (s *bookmarkServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookmarks.Delete(ctx, id); err != nil {
		return NewServiceError("delete_bookmark", "failed to delete bookmark", err)
	}
	return nil
}

func (s *bookmarkServiceImpl) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error) {
	bookmarks, err := s.bookmarks.List(ctx, offset, limit)
	if err != nil {
		return nil, NewServiceError("list_bookmarks", "failed to list bookmarks", err)
	}
	return bookmarks, nil
}

func (s *bookmarkServiceImpl) Upsert(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var bookmarkID uuid.UUID
	err := store.RunInTransaction(ctx, s.bookmarks.DB(), func(txCtx context.Context, tx *sql.Tx) error {
		txBookmarks := s.bookmarks.WithTx(tx)
		txTags := s.tags.WithTx(tx)

		bookmark, err := txBookmarks.GetByURL(txCtx, url)
		switch {
		case err == nil:
			bookmark.Title = title
			bookmark.Summary = summary
			bookmark.FolderID = folderID
			bookmark.Touch()
			if err := txBookmarks.Update(txCtx, bookmark); err != nil {
				return fmt.Errorf("failed to refresh bookmark: %w", err)
			}
		case errors.Is(err, store.ErrBookmarkNotFound):
			bookmark, err = domain.NewBookmark(url, title)
			if err != nil {
				return err
			}
			bookmark.Summary = summary
			bookmark.FolderID = folderID
			if err := txBookmarks.Create(txCtx, bookmark); err != nil {
				return fmt.Errorf("failed to create bookmark: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up bookmark by URL: %w", err)
		}

		bookmarkID = bookmark.ID
		return s.applyTags(txCtx, txBookmarks, txTags, bookmark, tags)
	})
	if err != nil {
		return uuid.Nil, NewServiceError("upsert_bookmark", "failed to upsert bookmark", err)
	}

	log.Debug("bookmark upserted", "bookmark_id", bookmarkID, "url", url, "tag_count", len(tags))
	return bookmarkID, nil
}

// applyTags resolves tag names to IDs, creating missing tags, and replaces
// the bookmark's tag set. Concurrent creation of the same tag name is
// tolerated by re-reading after a uniqueness conflict.
func (s *bookmarkServiceImpl) applyTags(ctx context.Context, bookmarks BookmarkRepository, tags TagRepository, bookmark *domain.Bookmark, names []string) error {
	tagIDs := make([]uuid.UUID, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		normalized := domain.NormalizeTagName(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		tag, err := tags.GetByName(ctx, normalized)
		if errors.Is(err, store.ErrTagNotFound) {
			tag, err = domain.NewTag(normalized)
			if err != nil {
				continue
			}
			createErr := tags.Create(ctx, tag)
			if errors.Is(createErr, store.ErrTagNameExists) {
				tag, err = tags.GetByName(ctx, normalized)
			} else {
				err = createErr
			}
		}
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", normalized, err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := bookmarks.ReplaceTags(ctx, bookmark.ID, tagIDs); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return nil
}
