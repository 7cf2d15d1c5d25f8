package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the
// store.TagStore interface.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore
var _ store.TagStore = (*PostgresTagStore)(nil)

// Create implements store.TagStore.Create
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2)`,
		tag.ID, tag.Name,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrTagNameExists
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_name", tag.Name))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TagStore.GetByID
func (s *PostgresTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	return s.getBy(ctx, "id = $1", id)
}

// GetByName implements store.TagStore.GetByName. The name is normalized
// before lookup so callers can pass raw input.
func (s *PostgresTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	return s.getBy(ctx, "name = $1", domain.NormalizeTagName(name))
}

func (s *PostgresTagStore) getBy(ctx context.Context, where string, arg any) (*domain.Tag, error) {
	var t domain.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE `+where, arg,
	).Scan(&t.ID, &t.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTagNotFound
		}
		return nil, MapError(err)
	}

	return &t, nil
}

// Delete implements store.TagStore.Delete. The bookmark_tags rows go with
// it via ON DELETE CASCADE.
func (s *PostgresTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrTagNotFound)
}

// List implements store.TagStore.List
func (s *PostgresTagStore) List(ctx context.Context, offset, limit int) ([]*domain.Tag, error) {
	return s.collect(ctx,
		`SELECT id, name FROM tags ORDER BY name ASC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
}

// Search implements store.TagStore.Search
func (s *PostgresTagStore) Search(ctx context.Context, query string) ([]*domain.Tag, error) {
	return s.collect(ctx,
		`SELECT id, name FROM tags WHERE name ILIKE $1 ORDER BY name ASC`,
		"%"+query+"%",
	)
}

// Popular implements store.TagStore.Popular
func (s *PostgresTagStore) Popular(ctx context.Context, limit int) ([]*domain.Tag, error) {
	return s.collect(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN bookmark_tags bt ON bt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY COUNT(bt.bookmark_id) DESC, t.name ASC
		LIMIT $1
	`, limit)
}

func (s *PostgresTagStore) collect(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tags []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tags, nil
}

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}
