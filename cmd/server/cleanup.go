package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kestrelab/linkhoard/internal/config"
	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/platform/postgres"
	"github.com/kestrelab/linkhoard/internal/store"
)

// runCleanup deletes terminal job records and retired pending items, then
// exits. Nothing in the server removes these rows automatically; this is
// the operator entry point for reclaiming them.
func runCleanup(cfg *config.Config, logger *slog.Logger) error {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Error closing database connection", "error", closeErr)
		}
	}()

	return cleanupStores(
		context.Background(),
		postgres.NewPostgresJobStore(db, logger),
		postgres.NewPostgresPendingItemStore(db, logger),
		logger,
	)
}

// cleanupStores removes completed and failed jobs plus already-processed
// pending items. Resumable jobs and unprocessed items are untouched: they
// still describe work the system may pick up.
func cleanupStores(ctx context.Context, jobs job.JobStore, pending store.PendingItemStore, logger *slog.Logger) error {
	deletedJobs, err := jobs.DeleteTerminal(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete terminal jobs: %w", err)
	}

	deletedItems, err := pending.DeleteProcessed(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete retired pending items: %w", err)
	}

	logger.Info("Cleanup finished",
		"jobs_deleted", deletedJobs,
		"pending_items_deleted", deletedItems)
	return nil
}
