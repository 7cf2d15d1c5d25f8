package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// TagService defines the operations for managing tags.
type TagService interface {
	// GetOrCreate resolves a tag by normalized name, creating it if absent.
	GetOrCreate(ctx context.Context, name string) (*domain.Tag, error)

	// Get retrieves a tag by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Tag, error)

	// Delete removes a tag and its bookmark associations.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns a page of tags ordered by name.
	List(ctx context.Context, offset, limit int) ([]*domain.Tag, error)

	// Search returns tags whose name contains the query.
	Search(ctx context.Context, query string) ([]*domain.Tag, error)

	// Popular returns the most-used tags, most used first.
	Popular(ctx context.Context, limit int) ([]*domain.Tag, error)
}

type tagServiceImpl struct {
	tags   TagRepository
	logger *slog.Logger
}

var _ TagService = (*tagServiceImpl)(nil)

// NewTagService creates a new TagService.
func NewTagService(tags TagRepository, log *slog.Logger) (TagService, error) {
	if tags == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "tag repository cannot be nil"}
	}
	if log == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "logger cannot be nil"}
	}

	return &tagServiceImpl{
		tags:   tags,
		logger: log.With("component", "tag_service"),
	}, nil
}

func (s *tagServiceImpl) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	normalized := domain.NormalizeTagName(name)
	tag, err := s.tags.GetByName(ctx, normalized)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, NewServiceError("get_or_create_tag", "failed to look up tag", err)
	}

	tag, err = domain.NewTag(normalized)
	if err != nil {
		return nil, NewServiceError("get_or_create_tag", "invalid tag name", err)
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		// Lost a race with a concurrent creator; the winner's row serves.
		if errors.Is(err, store.ErrTagNameExists) {
			return s.tags.GetByName(ctx, normalized)
		}
		return nil, NewServiceError("get_or_create_tag", "failed to create tag", err)
	}

	log.Debug("tag created", "tag_id", tag.ID, "name", normalized)
	return tag, nil
}

func (s *tagServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_tag", "failed to retrieve tag", err)
	}
	return tag, nil
}

func (s *tagServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return NewServiceError("delete_tag", "failed to delete tag", err)
	}
	return nil
}

func (s *tagServiceImpl) List(ctx context.Context, offset, limit int) ([]*domain.Tag, error) {
	tags, err := s.tags.List(ctx, offset, limit)
	if err != nil {
		return nil, NewServiceError("list_tags", "failed to list tags", err)
	}
	return tags, nil
}

func (s *tagServiceImpl) Search(ctx context.Context, query string) ([]*domain.Tag, error) {
	tags, err := s.tags.Search(ctx, query)
	if err != nil {
		return nil, NewServiceError("search_tags", "failed to search tags", err)
	}
	return tags, nil
}

func (s *tagServiceImpl) Popular(ctx context.Context, limit int) ([]*domain.Tag, error) {
	tags, err := s.tags.Popular(ctx, limit)
	if err != nil {
		return nil, NewServiceError("popular_tags", "failed to rank tags", err)
	}
	return tags, nil
}
