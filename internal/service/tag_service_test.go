package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagService(t *testing.T) (TagService, *fakeTagRepo) {
	t.Helper()
	tags := newFakeTagRepo()
	svc, err := NewTagService(tags, testLogger())
	require.NoError(t, err)
	return svc, tags
}

func TestTagService_GetOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates missing tag with normalized name", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTagService(t)

		tag, err := svc.GetOrCreate(context.Background(), "  Go  ")
		require.NoError(t, err)
		assert.Equal(t, "go", tag.Name)
	})

	t.Run("returns existing tag", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTagService(t)

		first, err := svc.GetOrCreate(context.Background(), "go")
		require.NoError(t, err)
		second, err := svc.GetOrCreate(context.Background(), "GO")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("lost race falls back to winner", func(t *testing.T) {
		t.Parallel()
		svc, tags := newTagService(t)
		tags.createConflicts = true

		tag, err := svc.GetOrCreate(context.Background(), "go")
		require.NoError(t, err)
		assert.Equal(t, "go", tag.Name)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		t.Parallel()
		svc, tags := newTagService(t)
		tags.createErr = errors.New("db down")

		_, err := svc.GetOrCreate(context.Background(), "go")
		assert.Error(t, err)
	})
}

func TestTagService_Delete(t *testing.T) {
	t.Parallel()

	svc, _ := newTagService(t)

	tag, err := svc.GetOrCreate(context.Background(), "go")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), tag.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), tag.ID), ErrTagNotFound)
}

func TestTagService_Get(t *testing.T) {
	t.Parallel()

	svc, _ := newTagService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagService_Search(t *testing.T) {
	t.Parallel()

	svc, _ := newTagService(t)
	for _, name := range []string{"golang", "go", "rust"} {
		_, err := svc.GetOrCreate(context.Background(), name)
		require.NoError(t, err)
	}

	matches, err := svc.Search(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
