// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/api/shared"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/platform/logger"
	"github.com/kestrelab/linkhoard/internal/service"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// CreateBookmarkRequest represents the request body for saving a bookmark
type CreateBookmarkRequest struct {
	URL      string   `json:"url" validate:"required,url"`
	Title    string   `json:"title"`
	FolderID *string  `json:"folder_id,omitempty" validate:"omitempty,uuid"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateBookmarkRequest represents the request body for editing a bookmark
type UpdateBookmarkRequest struct {
	Title    string   `json:"title" validate:"required,min=1"`
	Summary  string   `json:"summary"`
	FolderID *string  `json:"folder_id,omitempty" validate:"omitempty,uuid"`
	Tags     []string `json:"tags,omitempty"`
}

// BookmarkResponse represents the response data for a bookmark
type BookmarkResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	FolderID  *string   `json:"folder_id,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookmarkHandler handles bookmark-related HTTP requests
type BookmarkHandler struct {
	bookmarkService service.BookmarkService
	logger          *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkService service.BookmarkService, log *slog.Logger) *BookmarkHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BookmarkHandler")
	}

	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		logger:          log.With(slog.String("component", "bookmark_handler")),
	}
}

// CreateBookmark handles POST /api/bookmarks requests
func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateBookmarkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	folderID, ok := parseOptionalUUID(w, r, req.FolderID)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.Create(r.Context(), req.URL, req.Title, folderID, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("bookmark created via API", slog.String("bookmark_id", bookmark.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, bookmarkToResponse(bookmark, req.Tags))
}

// GetBookmark handles GET /api/bookmarks/{id} requests
func (h *BookmarkHandler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bookmarkToResponse(bookmark, nil))
}

// ListBookmarks handles GET /api/bookmarks requests
func (h *BookmarkHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	offset := parseQueryInt(r, "offset", 0)
	limit := parseQueryInt(r, "limit", defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	bookmarks, err := h.bookmarkService.List(r.Context(), offset, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		response = append(response, bookmarkToResponse(b, nil))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// UpdateBookmark handles PUT /api/bookmarks/{id} requests
func (h *BookmarkHandler) UpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBookmarkRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	folderID, ok := parseOptionalUUID(w, r, req.FolderID)
	if !ok {
		return
	}

	bookmark, err := h.bookmarkService.Update(r.Context(), id, req.Title, req.Summary, folderID, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bookmarkToResponse(bookmark, req.Tags))
}

// DeleteBookmark handles DELETE /api/bookmarks/{id} requests
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.bookmarkService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bookmarkToResponse converts a domain.Bookmark to a BookmarkResponse.
// Tag names already known to the caller may be passed to avoid an extra
// lookup on writes.
func bookmarkToResponse(b *domain.Bookmark, tagNames []string) BookmarkResponse {
	tags := tagNames
	if len(b.Tags) > 0 {
		tags = make([]string, 0, len(b.Tags))
		for _, tag := range b.Tags {
			tags = append(tags, tag.Name)
		}
	}
	if tags == nil {
		tags = []string{}
	}

	var folderID *string
	if b.FolderID != nil {
		s := b.FolderID.String()
		folderID = &s
	}

	return BookmarkResponse{
		ID:        b.ID.String(),
		URL:       b.URL,
		Title:     b.Title,
		Summary:   b.Summary,
		FolderID:  folderID,
		Tags:      tags,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// parsePathUUID extracts and parses a UUID path parameter, writing a 400
// response on failure.
func parsePathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalUUID parses an optional UUID string from a request body,
// writing a 400 response on failure.
func parseOptionalUUID(w http.ResponseWriter, r *http.Request, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid folder_id format")
		return nil, false
	}
	return &id, true
}

func parseQueryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
