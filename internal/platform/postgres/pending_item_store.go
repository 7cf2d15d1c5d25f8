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

// PostgresPendingItemStore implements the store.PendingItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPendingItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPendingItemStore creates a new PostgreSQL implementation of
// the store.PendingItemStore interface.
func NewPostgresPendingItemStore(db store.DBTX, logger *slog.Logger) *PostgresPendingItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPendingItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "pending_item_store")),
	}
}

// Ensure PostgresPendingItemStore implements store.PendingItemStore
var _ store.PendingItemStore = (*PostgresPendingItemStore)(nil)

// CreateBatch implements store.PendingItemStore.CreateBatch.
// All items are inserted in one transaction when the store is backed by a
// *sql.DB; when it already runs inside a transaction the caller's
// transaction provides the atomicity.
func (s *PostgresPendingItemStore) CreateBatch(ctx context.Context, items []*domain.PendingItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("pending item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(txCtx context.Context, tx *sql.Tx) error {
			return insertPendingItems(txCtx, tx, items)
		})
	}

	return insertPendingItems(ctx, s.db, items)
}

func insertPendingItems(ctx context.Context, db store.DBTX, items []*domain.PendingItem) error {
	query := `
		INSERT INTO pending_items (id, url, title, metadata, processed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range items {
		_, err := db.ExecContext(
			ctx,
			query,
			item.ID,
			item.URL,
			item.Title,
			item.Metadata,
			item.Processed,
			item.CreatedAt,
			item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to stage pending item %s: %w", item.ID, MapError(err))
		}
	}
	return nil
}

// ListUnprocessed implements store.PendingItemStore.ListUnprocessed
func (s *PostgresPendingItemStore) ListUnprocessed(ctx context.Context) ([]*domain.PendingItem, error) {
	query := `
		SELECT id, url, title, metadata, processed, created_at, updated_at
		FROM pending_items
		WHERE processed = FALSE
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.PendingItem
	for rows.Next() {
		var item domain.PendingItem
		err := rows.Scan(
			&item.ID,
			&item.URL,
			&item.Title,
			&item.Metadata,
			&item.Processed,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending item row: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return items, nil
}

// CountUnprocessed implements store.PendingItemStore.CountUnprocessed
func (s *PostgresPendingItemStore) CountUnprocessed(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_items WHERE processed = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// MarkProcessed implements store.PendingItemStore.MarkProcessed
func (s *PostgresPendingItemStore) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE pending_items
		SET processed = TRUE, updated_at = $1
		WHERE id = $2
	`
	res, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to mark pending item processed",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(res, store.ErrPendingItemNotFound)
}

// DeleteProcessed implements store.PendingItemStore.DeleteProcessed
func (s *PostgresPendingItemStore) DeleteProcessed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_items WHERE processed = TRUE`)
	if err != nil {
		return 0, MapError(err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
