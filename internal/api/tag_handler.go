package api

import (
	"log/slog"
	"net/http"

	"github.com/kestrelab/linkhoard/internal/api/shared"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/service"
)

const defaultPopularLimit = 20

// TagResponse represents the response data for a tag
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagService service.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService service.TagService, log *slog.Logger) *TagHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TagHandler")
	}

	return &TagHandler{
		tagService: tagService,
		logger:     log.With(slog.String("component", "tag_handler")),
	}
}

// ListTags handles GET /api/tags requests
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	offset := parseQueryInt(r, "offset", 0)
	limit := parseQueryInt(r, "limit", defaultPageLimit)

	tags, err := h.tagService.List(r.Context(), offset, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// SearchTags handles GET /api/tags/search requests
func (h *TagHandler) SearchTags(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	tags, err := h.tagService.Search(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// PopularTags handles GET /api/tags/popular requests
func (h *TagHandler) PopularTags(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", defaultPopularLimit)

	tags, err := h.tagService.Popular(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tagsToResponse(tags))
}

// DeleteTag handles DELETE /api/tags/{id} requests
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tagService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func tagsToResponse(tags []*domain.Tag) []TagResponse {
	response := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, TagResponse{ID: tag.ID.String(), Name: tag.Name})
	}
	return response
}
