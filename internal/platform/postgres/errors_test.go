package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/kestrelab/linkhoard/internal/store"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := MapError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrapped no rows maps to not found", func(t *testing.T) {
		err := MapError(fmt.Errorf("query failed: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		err := MapError(pgError(uniqueViolationCode, "bookmarks_url_key"))
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("foreign key violation maps to invalid entity", func(t *testing.T) {
		err := MapError(pgError(foreignKeyViolationCode, "bookmarks_folder_id_fkey"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "bookmarks_folder_id_fkey")
	})

	t.Run("check violation maps to invalid entity", func(t *testing.T) {
		err := MapError(pgError(checkViolationCode, "jobs_progress_check"))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("not null violation maps to invalid entity", func(t *testing.T) {
		err := MapError(pgError(notNullViolationCode, ""))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		original := errors.New("connection refused")
		assert.Equal(t, original, MapError(original))
	})
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	unique := pgError(uniqueViolationCode, "tags_name_key")
	fk := pgError(foreignKeyViolationCode, "bookmark_tags_tag_id_fkey")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("other")))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.Equal(t, "tags_name_key", ConstraintName(unique))
	assert.Equal(t, "", ConstraintName(errors.New("other")))
}

func TestViolationPredicates_WrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert failed: %w", pgError(uniqueViolationCode, jobsKindResumableConstraint))

	assert.True(t, IsUniqueViolation(wrapped))
	assert.Equal(t, jobsKindResumableConstraint, ConstraintName(wrapped))
}
