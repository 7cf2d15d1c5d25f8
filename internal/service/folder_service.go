package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// FolderRepository defines the data access contract needed by the folder
// service.
type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error)
	Update(ctx context.Context, folder *domain.Folder) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*domain.Folder, error)
	Reparent(ctx context.Context, from, to *uuid.UUID) error

	WithTx(tx *sql.Tx) FolderRepository
	DB() *sql.DB
}

// FolderService defines the operations for managing the folder tree.
type FolderService interface {
	// Create adds a folder under the given parent. A nil parent creates a
	// root folder.
	Create(ctx context.Context, name string, parentID *uuid.UUID, description string) (*domain.Folder, error)

	// Get retrieves a folder by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Folder, error)

	// Update renames or moves a folder.
	Update(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, description string) (*domain.Folder, error)

	// Delete removes a folder. Its subfolders and bookmarks are reattached
	// to the deleted folder's parent.
	Delete(ctx context.Context, id uuid.UUID) error

	// Tree returns the full folder hierarchy as root nodes with nested
	// children, siblings sorted by name.
	Tree(ctx context.Context) ([]*domain.FolderNode, error)

	// FormatTree renders the hierarchy as an indented text listing.
	FormatTree(ctx context.Context) (string, error)
}

type folderServiceImpl struct {
	folders   FolderRepository
	bookmarks BookmarkRepository
	logger    *slog.Logger
}

var _ FolderService = (*folderServiceImpl)(nil)

// NewFolderService creates a new FolderService.
func NewFolderService(folders FolderRepository, bookmarks BookmarkRepository, log *slog.Logger) (FolderService, error) {
	if folders == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "folder repository cannot be nil"}
	}
	if bookmarks == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "bookmark repository cannot be nil"}
	}
	if log == nil {
		return nil, &ServiceError{Operation: "initialization", Message: "logger cannot be nil"}
	}

	return &folderServiceImpl{
		folders:   folders,
		bookmarks: bookmarks,
		logger:    log.With("component", "folder_service"),
	}, nil
}

func (s *folderServiceImpl) Create(ctx context.Context, name string, parentID *uuid.UUID, description string) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if parentID != nil {
		if _, err := s.folders.GetByID(ctx, *parentID); err != nil {
			return nil, NewServiceError("create_folder", "failed to resolve parent folder", err)
		}
	}

	folder, err := domain.NewFolder(name, parentID, description)
	if err != nil {
		return nil, NewServiceError("create_folder", "invalid folder", err)
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, NewServiceError("create_folder", "failed to save folder", err)
	}

	log.Debug("folder created", "folder_id", folder.ID, "name", name)
	return folder, nil
}

func (s *folderServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_folder", "failed to retrieve folder", err)
	}
	return folder, nil
}

func (s *folderServiceImpl) Update(ctx context.Context, id uuid.UUID, name string, parentID *uuid.UUID, description string) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("update_folder", "failed to retrieve folder", err)
	}

	if parentID != nil {
		if *parentID == id {
			return nil, NewServiceError("update_folder", "invalid folder", domain.ErrFolderSelfCycle)
		}
		if _, err := s.folders.GetByID(ctx, *parentID); err != nil {
			return nil, NewServiceError("update_folder", "failed to resolve parent folder", err)
		}
	}

	folder.Name = name
	folder.ParentID = parentID
	folder.Description = description
	folder.UpdatedAt = time.Now().UTC()

	if err := folder.Validate(); err != nil {
		return nil, NewServiceError("update_folder", "invalid folder", err)
	}
	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, NewServiceError("update_folder", "failed to update folder", err)
	}

	log.Debug("folder updated", "folder_id", folder.ID)
	return folder, nil
}

func (s *folderServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return NewServiceError("delete_folder", "failed to retrieve folder", err)
	}

	from := folder.ID
	err = store.RunInTransaction(ctx, s.folders.DB(), func(txCtx context.Context, tx *sql.Tx) error {
		txFolders := s.folders.WithTx(tx)
		txBookmarks := s.bookmarks.WithTx(tx)

		if err := txFolders.Reparent(txCtx, &from, folder.ParentID); err != nil {
			return err
		}
		if err := txBookmarks.MoveFolder(txCtx, &from, folder.ParentID); err != nil {
			return err
		}
		return txFolders.Delete(txCtx, id)
	})
	if err != nil {
		return NewServiceError("delete_folder", "failed to delete folder", err)
	}

	log.Debug("folder deleted", "folder_id", id)
	return nil
}

func (s *folderServiceImpl) Tree(ctx context.Context) ([]*domain.FolderNode, error) {
	folders, err := s.folders.ListAll(ctx)
	if err != nil {
		return nil, NewServiceError("folder_tree", "failed to list folders", err)
	}
	return buildTree(folders), nil
}

func (s *folderServiceImpl) FormatTree(ctx context.Context) (string, error) {
	roots, err := s.Tree(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	// Explicit stack instead of recursion so arbitrarily deep trees cannot
	// exhaust the goroutine stack. Children are pushed in reverse to keep
	// the rendered order stable.
	stack := make([]*domain.FolderNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.WriteString(strings.Repeat("  ", node.Level))
		b.WriteString("- ")
		b.WriteString(node.Folder.Name)
		b.WriteString("\n")

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return b.String(), nil
}

// buildTree links a flat folder list into root nodes with nested children.
// Folders whose parent is missing are treated as roots so a damaged
// hierarchy still renders.
func buildTree(folders []*domain.Folder) []*domain.FolderNode {
	nodes := make(map[uuid.UUID]*domain.FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &domain.FolderNode{Folder: f}
	}

	var roots []*domain.FolderNode
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID != nil {
			if parent, ok := nodes[*f.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	// Assign depth levels iteratively.
	stack := make([]*domain.FolderNode, len(roots))
	copy(stack, roots)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sortNodes(node.Children)
		for _, child := range node.Children {
			child.Level = node.Level + 1
			stack = append(stack, child)
		}
	}
	return roots
}

func sortNodes(nodes []*domain.FolderNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Folder.Name < nodes[j].Folder.Name
	})
}
