package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// stubBookmarkService implements service.BookmarkService with overridable
// hooks.
type stubBookmarkService struct {
	CreateFn func(ctx context.Context, url, title string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, title, summary string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
	ListFn   func(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error)
	UpsertFn func(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error)
}

var _ service.BookmarkService = (*stubBookmarkService)(nil)

func (s *stubBookmarkService) Create(ctx context.Context, url, title string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error) {
	return s.CreateFn(ctx, url, title, folderID, tags)
}

func (s *stubBookmarkService) Get(ctx context.Context, id uuid.UUID) (*domain.Bookmark, error) {
	return s.GetFn(ctx, id)
}

func (s *stubBookmarkService) Update(ctx context.Context, id uuid.UUID, title, summary string, folderID *uuid.UUID, tags []string) (*domain.Bookmark, error) {
	return s.UpdateFn(ctx, id, title, summary, folderID, tags)
}

func (s *stubBookmarkService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DeleteFn(ctx, id)
}

func (s *stubBookmarkService) List(ctx context.Context, offset, limit int) ([]*domain.Bookmark, error) {
	return s.ListFn(ctx, offset, limit)
}

func (s *stubBookmarkService) Upsert(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error) {
	return s.UpsertFn(ctx, url, title, summary, folderID, tags)
}

// stubImportService implements service.ImportService with overridable
// hooks.
type stubImportService struct {
	QueueImportFn  func(ctx context.Context, items []service.ImportRequest) (uuid.UUID, error)
	QueueEnrichFn  func(ctx context.Context, bookmarkID uuid.UUID) (uuid.UUID, error)
	ResumeImportFn func(ctx context.Context, jobID uuid.UUID) error
}

var _ service.ImportService = (*stubImportService)(nil)

func (s *stubImportService) QueueImport(ctx context.Context, items []service.ImportRequest) (uuid.UUID, error) {
	return s.QueueImportFn(ctx, items)
}

func (s *stubImportService) QueueEnrich(ctx context.Context, bookmarkID uuid.UUID) (uuid.UUID, error) {
	return s.QueueEnrichFn(ctx, bookmarkID)
}

func (s *stubImportService) ResumeImport(ctx context.Context, jobID uuid.UUID) error {
	return s.ResumeImportFn(ctx, jobID)
}

// stubFolderService implements service.FolderService with overridable
// hooks.
type stubFolderService struct {
	CreateFn     func(ctx context.Context, name string, parentID *uuid.UUID, description string) (*domain.Folder, error)
	GetFn        func(ctx context.Context, id uuid.UUID) (*domain.Folder, error)
	UpdateFn     func(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, description string) (*domain.Folder, error)
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	TreeFn       func(ctx context.Context) ([]*domain.FolderNode, error)
	FormatTreeFn func(ctx context.Context) (string, error)
}

var _ service.FolderService = (*stubFolderService)(nil)

func (s *stubFolderService) Create(ctx context.Context, name string, parentID *uuid.UUID, description string) (*domain.Folder, error) {
	return s.CreateFn(ctx, name, parentID, description)
}

func (s *stubFolderService) Get(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	return s.GetFn(ctx, id)
}

func (s *stubFolderService) Update(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, description string) (*domain.Folder, error) {
	return s.UpdateFn(ctx, id, name, parentID, description)
}

func (s *stubFolderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DeleteFn(ctx, id)
}

func (s *stubFolderService) Tree(ctx context.Context) ([]*domain.FolderNode, error) {
	return s.TreeFn(ctx)
}

func (s *stubFolderService) FormatTree(ctx context.Context) (string, error) {
	return s.FormatTreeFn(ctx)
}

// stubTagService implements service.TagService with overridable hooks.
type stubTagService struct {
	GetOrCreateFn func(ctx context.Context, name string) (*domain.Tag, error)
	GetFn         func(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	ListFn        func(ctx context.Context, offset, limit int) ([]*domain.Tag, error)
	SearchFn      func(ctx context.Context, query string) ([]*domain.Tag, error)
	PopularFn     func(ctx context.Context, limit int) ([]*domain.Tag, error)
}

var _ service.TagService = (*stubTagService)(nil)

func (s *stubTagService) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	return s.GetOrCreateFn(ctx, name)
}

func (s *stubTagService) Get(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.GetFn(ctx, id)
}

func (s *stubTagService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.DeleteFn(ctx, id)
}

func (s *stubTagService) List(ctx context.Context, offset, limit int) ([]*domain.Tag, error) {
	return s.ListFn(ctx, offset, limit)
}

func (s *stubTagService) Search(ctx context.Context, query string) ([]*domain.Tag, error) {
	return s.SearchFn(ctx, query)
}

func (s *stubTagService) Popular(ctx context.Context, limit int) ([]*domain.Tag, error) {
	return s.PopularFn(ctx, limit)
}
