package api

import (
	"log/slog"
	"net/http"

	"github.com/kestrelab/linkhoard/internal/api/shared"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/service"
)

// ImportItemRequest is one favorite inside an import request
type ImportItemRequest struct {
	URL      string `json:"url" validate:"required"`
	Title    string `json:"title"`
	Metadata string `json:"metadata"`
}

// ImportRequest represents the request body for a bulk import
type ImportRequest struct {
	Items []ImportItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QueuedJobResponse is returned for requests that start background work
type QueuedJobResponse struct {
	JobID string `json:"job_id"`
}

// ImportHandler handles import and enrichment HTTP requests
type ImportHandler struct {
	importService service.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService service.ImportService, log *slog.Logger) *ImportHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ImportHandler")
	}

	return &ImportHandler{
		importService: importService,
		logger:        log.With(slog.String("component", "import_handler")),
	}
}

// StartImport handles POST /api/import requests. The import itself runs in
// the background; the returned job ID can be polled for progress.
func (h *ImportHandler) StartImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ImportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	items := make([]service.ImportRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ImportRequest{
			URL:      item.URL,
			Title:    item.Title,
			Metadata: item.Metadata,
		})
	}

	jobID, err := h.importService.QueueImport(r.Context(), items)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("import accepted", slog.String("job_id", jobID.String()), slog.Int("item_count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusAccepted, QueuedJobResponse{JobID: jobID.String()})
}

// EnrichBookmark handles POST /api/bookmarks/{id}/enrich requests
func (h *ImportHandler) EnrichBookmark(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	jobID, err := h.importService.QueueEnrich(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("enrichment accepted", slog.String("job_id", jobID.String()), slog.String("bookmark_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, QueuedJobResponse{JobID: jobID.String()})
}
