package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kestrelab/linkhoard/internal/config"
	"github.com/kestrelab/linkhoard/internal/events"
	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/platform/gemini"
	"github.com/kestrelab/linkhoard/internal/platform/postgres"
	"github.com/kestrelab/linkhoard/internal/service"
	"github.com/kestrelab/linkhoard/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	bookmarkStore store.BookmarkStore
	folderStore   store.FolderStore
	tagStore      store.TagStore
	pendingStore  store.PendingItemStore
	jobStore      job.JobStore

	// Service interfaces
	bookmarkService service.BookmarkService
	folderService   service.FolderService
	tagService      service.TagService
	importService   service.ImportService

	// Event system
	eventEmitter events.EventEmitter

	// Job handling
	dispatcher *job.Dispatcher
	recovery   *job.RecoveryManager
	reporter   *job.StatusReporter
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.bookmarkStore = postgres.NewPostgresBookmarkStore(db, logger)
	app.folderStore = postgres.NewPostgresFolderStore(db, logger)
	app.tagStore = postgres.NewPostgresTagStore(db, logger)
	app.pendingStore = postgres.NewPostgresPendingItemStore(db, logger)
	app.jobStore = postgres.NewPostgresJobStore(db, logger)

	// Create required adapters
	bookmarkRepo := service.NewBookmarkRepositoryAdapter(app.bookmarkStore, db)
	folderRepo := service.NewFolderRepositoryAdapter(app.folderStore, db)
	tagRepo := service.NewTagRepositoryAdapter(app.tagStore)

	// Initialize CRUD services
	var err error
	app.bookmarkService, err = service.NewBookmarkService(bookmarkRepo, tagRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark service: %w", err)
	}
	app.folderService, err = service.NewFolderService(folderRepo, bookmarkRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder service: %w", err)
	}
	app.tagService, err = service.NewTagService(tagRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag service: %w", err)
	}

	// Create the LLM enricher, classifying against the live folder tree
	enricher, err := gemini.NewEnricher(
		ctx,
		logger.With("component", "llm_enricher"),
		cfg.LLM,
		app.folderStore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM enricher: %w", err)
	}
	logger.Info("LLM enricher initialized successfully", "model", cfg.LLM.ModelName)

	// Build the import pipeline on top of the bookmark service
	pipeline, err := job.NewImportPipeline(
		app.jobStore,
		app.pendingStore,
		enricher,
		app.bookmarkService,
		time.Duration(cfg.Job.ItemDelayMs)*time.Millisecond,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import pipeline: %w", err)
	}

	// Initialize the dispatcher and recover work stranded by a previous run
	// before accepting new submissions.
	app.dispatcher = job.NewDispatcher(app.jobStore, job.DispatcherConfig{
		WorkerCount: cfg.Job.WorkerCount,
		QueueSize:   cfg.Job.QueueSize,
	}, logger)

	app.recovery, err = job.NewRecoveryManager(app.jobStore, app.pendingStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery manager: %w", err)
	}
	if err := app.recovery.Run(ctx); err != nil {
		return nil, fmt.Errorf("failed to recover stranded jobs: %w", err)
	}

	if err := app.dispatcher.Start(); err != nil {
		return nil, fmt.Errorf("failed to start dispatcher: %w", err)
	}

	app.reporter, err = job.NewStatusReporter(app.jobStore, app.recovery, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create status reporter: %w", err)
	}

	// Initialize event emitter and wire the pipeline behind it
	emitter := events.NewInMemoryEventEmitter(logger)
	app.eventEmitter = emitter

	pipelineHandler, err := job.NewPipelineEventHandler(pipeline, app.dispatcher, app.jobStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline event handler: %w", err)
	}
	emitter.RegisterHandler(pipelineHandler)

	// Initialize import service
	app.importService, err = service.NewImportService(
		app.jobStore,
		app.pendingStore,
		bookmarkRepo,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup. It
// returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
