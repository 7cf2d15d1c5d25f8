package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kestrelab/linkhoard/internal/api/shared"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/service"
)

// CreateFolderRequest represents the request body for creating a folder
type CreateFolderRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Description string  `json:"description"`
}

// UpdateFolderRequest represents the request body for renaming or moving a
// folder
type UpdateFolderRequest struct {
	Name        string  `json:"name" validate:"required,min=1"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Description string  `json:"description"`
}

// FolderResponse represents the response data for a folder
type FolderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FolderNodeResponse represents one node of the folder tree
type FolderNodeResponse struct {
	FolderResponse
	Children []FolderNodeResponse `json:"children"`
}

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	folderService service.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folderService service.FolderService, log *slog.Logger) *FolderHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FolderHandler")
	}

	return &FolderHandler{
		folderService: folderService,
		logger:        log.With(slog.String("component", "folder_handler")),
	}
}

// CreateFolder handles POST /api/folders requests
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	parentID, ok := parseOptionalUUID(w, r, req.ParentID)
	if !ok {
		return
	}

	folder, err := h.folderService.Create(r.Context(), req.Name, parentID, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, folderToResponse(folder))
}

// GetFolder handles GET /api/folders/{id} requests
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	folder, err := h.folderService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, folderToResponse(folder))
}

// UpdateFolder handles PUT /api/folders/{id} requests
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateFolderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	parentID, ok := parseOptionalUUID(w, r, req.ParentID)
	if !ok {
		return
	}

	folder, err := h.folderService.Update(r.Context(), id, req.Name, parentID, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, folderToResponse(folder))
}

// DeleteFolder handles DELETE /api/folders/{id} requests
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.folderService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFolderTree handles GET /api/folders/tree requests
func (h *FolderHandler) GetFolderTree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.folderService.Tree(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]FolderNodeResponse, 0, len(roots))
	for _, node := range roots {
		response = append(response, nodeToResponse(node))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

func folderToResponse(f *domain.Folder) FolderResponse {
	var parentID *string
	if f.ParentID != nil {
		s := f.ParentID.String()
		parentID = &s
	}
	return FolderResponse{
		ID:          f.ID.String(),
		Name:        f.Name,
		ParentID:    parentID,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func nodeToResponse(node *domain.FolderNode) FolderNodeResponse {
	children := make([]FolderNodeResponse, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, nodeToResponse(child))
	}
	return FolderNodeResponse{
		FolderResponse: folderToResponse(node.Folder),
		Children:       children,
	}
}
