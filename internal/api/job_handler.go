package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kestrelab/linkhoard/internal/api/shared"
	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/service"
)

// JobResponse represents the response data for a background job
type JobResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	reporter      *job.StatusReporter
	importService service.ImportService
	logger        *slog.Logger
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(reporter *job.StatusReporter, importService service.ImportService, log *slog.Logger) *JobHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for JobHandler")
	}

	return &JobHandler{
		reporter:      reporter,
		importService: importService,
		logger:        log.With(slog.String("component", "job_handler")),
	}
}

// ListJobs handles GET /api/jobs requests. Listing also surfaces a
// resumable entry when a prior import left staged favorites behind.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", job.DefaultListLimit)

	jobs, err := h.reporter.ListJobs(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		response = append(response, jobToResponse(j))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetJob handles GET /api/jobs/{id} requests
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	j, err := h.reporter.GetJob(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(j))
}

// ResumeJob handles POST /api/jobs/{id}/resume requests
func (h *JobHandler) ResumeJob(w http.ResponseWriter, r *http.Request) {
	log := h.logger

	id, ok := parsePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.importService.ResumeImport(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("resume requested", slog.String("job_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, map[string]string{"job_id": id.String()})
}

func jobToResponse(j *job.Job) JobResponse {
	return JobResponse{
		ID:        j.ID.String(),
		Name:      j.Name,
		Kind:      string(j.Kind),
		Status:    string(j.Status),
		Progress:  j.Progress,
		Result:    j.Result,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
