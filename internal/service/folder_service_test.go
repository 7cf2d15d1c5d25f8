package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFolderService(t *testing.T) (FolderService, *fakeFolderRepo, *fakeBookmarkRepo) {
	t.Helper()
	db := newTxDB(t)
	folders := newFakeFolderRepo(db)
	bookmarks := newFakeBookmarkRepo(db)
	svc, err := NewFolderService(folders, bookmarks, testLogger())
	require.NoError(t, err)
	return svc, folders, bookmarks
}

func TestFolderService_Create(t *testing.T) {
	t.Parallel()

	t.Run("root folder", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)

		folder, err := svc.Create(context.Background(), "Favorites", nil, "")
		require.NoError(t, err)
		assert.Nil(t, folder.ParentID)

		_, err = folders.GetByID(context.Background(), folder.ID)
		assert.NoError(t, err)
	})

	t.Run("nested folder", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)
		root := folders.seed(t, "Favorites", nil)

		folder, err := svc.Create(context.Background(), "Reading", &root.ID, "articles to read")
		require.NoError(t, err)
		require.NotNil(t, folder.ParentID)
		assert.Equal(t, root.ID, *folder.ParentID)
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newFolderService(t)
		missing := uuid.New()

		_, err := svc.Create(context.Background(), "Orphan", &missing, "")
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newFolderService(t)

		_, err := svc.Create(context.Background(), "", nil, "")
		assert.Error(t, err)
	})
}

func TestFolderService_Update(t *testing.T) {
	t.Parallel()

	t.Run("rename and move", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)
		root := folders.seed(t, "Favorites", nil)
		other := folders.seed(t, "Archive", nil)
		child := folders.seed(t, "Reading", &root.ID)

		updated, err := svc.Update(context.Background(), child.ID, "Reading List", &other.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "Reading List", updated.Name)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, other.ID, *updated.ParentID)
	})

	t.Run("self parent rejected", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)
		folder := folders.seed(t, "Favorites", nil)

		_, err := svc.Update(context.Background(), folder.ID, "Favorites", &folder.ID, "")
		assert.Error(t, err)
	})
}

func TestFolderService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("children and bookmarks reattach to grandparent", func(t *testing.T) {
		t.Parallel()
		svc, folders, bookmarks := newFolderService(t)
		root := folders.seed(t, "Favorites", nil)
		middle := folders.seed(t, "Reading", &root.ID)
		leaf := folders.seed(t, "Go", &middle.ID)

		b, err := domain.NewBookmark("https://go.dev", "Go")
		require.NoError(t, err)
		b.FolderID = &middle.ID
		require.NoError(t, bookmarks.Create(context.Background(), b))

		require.NoError(t, svc.Delete(context.Background(), middle.ID))

		_, err = folders.GetByID(context.Background(), middle.ID)
		assert.ErrorIs(t, err, ErrFolderNotFound)

		moved, err := folders.GetByID(context.Background(), leaf.ID)
		require.NoError(t, err)
		require.NotNil(t, moved.ParentID)
		assert.Equal(t, root.ID, *moved.ParentID)

		movedBookmark, err := bookmarks.GetByID(context.Background(), b.ID)
		require.NoError(t, err)
		require.NotNil(t, movedBookmark.FolderID)
		assert.Equal(t, root.ID, *movedBookmark.FolderID)
	})

	t.Run("missing folder", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newFolderService(t)

		err := svc.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})
}

func TestFolderService_Tree(t *testing.T) {
	t.Parallel()

	t.Run("nests children under parents sorted by name", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)
		root := folders.seed(t, "Favorites", nil)
		folders.seed(t, "Zines", &root.ID)
		folders.seed(t, "Articles", &root.ID)

		roots, err := svc.Tree(context.Background())
		require.NoError(t, err)
		require.Len(t, roots, 1)
		require.Len(t, roots[0].Children, 2)
		assert.Equal(t, "Articles", roots[0].Children[0].Folder.Name)
		assert.Equal(t, "Zines", roots[0].Children[1].Folder.Name)
		assert.Equal(t, 1, roots[0].Children[0].Level)
	})

	t.Run("orphaned folder becomes a root", func(t *testing.T) {
		t.Parallel()
		svc, folders, _ := newFolderService(t)
		missing := uuid.New()
		folders.seed(t, "Favorites", nil)
		folders.seed(t, "Stray", &missing)

		roots, err := svc.Tree(context.Background())
		require.NoError(t, err)
		assert.Len(t, roots, 2)
	})

	t.Run("empty tree renders empty", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newFolderService(t)

		out, err := svc.FormatTree(context.Background())
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestFolderService_FormatTree(t *testing.T) {
	t.Parallel()

	svc, folders, _ := newFolderService(t)
	root := folders.seed(t, "Favorites", nil)
	folders.seed(t, "Reading", &root.ID)

	out, err := svc.FormatTree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "- Favorites\n  - Reading\n", out)
}
