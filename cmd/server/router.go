package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kestrelab/linkhoard/internal/api"
	apiMiddleware "github.com/kestrelab/linkhoard/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create
// handlers and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	bookmarkHandler := api.NewBookmarkHandler(app.bookmarkService, app.logger)
	folderHandler := api.NewFolderHandler(app.folderService, app.logger)
	tagHandler := api.NewTagHandler(app.tagService, app.logger)
	importHandler := api.NewImportHandler(app.importService, app.logger)
	jobHandler := api.NewJobHandler(app.reporter, app.importService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Bookmark endpoints
		r.Post("/bookmarks", bookmarkHandler.CreateBookmark)
		r.Get("/bookmarks", bookmarkHandler.ListBookmarks)
		r.Get("/bookmarks/{id}", bookmarkHandler.GetBookmark)
		r.Put("/bookmarks/{id}", bookmarkHandler.UpdateBookmark)
		r.Delete("/bookmarks/{id}", bookmarkHandler.DeleteBookmark)
		r.Post("/bookmarks/{id}/enrich", importHandler.EnrichBookmark)

		// Folder endpoints
		r.Post("/folders", folderHandler.CreateFolder)
		r.Get("/folders/tree", folderHandler.GetFolderTree)
		r.Get("/folders/{id}", folderHandler.GetFolder)
		r.Put("/folders/{id}", folderHandler.UpdateFolder)
		r.Delete("/folders/{id}", folderHandler.DeleteFolder)

		// Tag endpoints
		r.Get("/tags", tagHandler.ListTags)
		r.Get("/tags/search", tagHandler.SearchTags)
		r.Get("/tags/popular", tagHandler.PopularTags)
		r.Delete("/tags/{id}", tagHandler.DeleteTag)

		// Import and job endpoints
		r.Post("/import", importHandler.StartImport)
		r.Get("/jobs", jobHandler.ListJobs)
		r.Get("/jobs/{id}", jobHandler.GetJob)
		r.Post("/jobs/{id}/resume", jobHandler.ResumeJob)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
