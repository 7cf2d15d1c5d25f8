package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kestrelab/linkhoard/internal/job"
	"github.com/kestrelab/linkhoard/internal/service"
	"github.com/kestrelab/linkhoard/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrBookmarkNotFound),
		errors.Is(err, service.ErrFolderNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrBookmarkExists),
		errors.Is(err, service.ErrTagExists),
		errors.Is(err, store.ErrResumableJobExists),
		errors.Is(err, service.ErrNotResumable):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrNothingToImport),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Backpressure
	case errors.Is(err, job.ErrQueueFull):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrBookmarkNotFound):
		return "Bookmark not found"
	case errors.Is(err, service.ErrFolderNotFound):
		return "Folder not found"
	case errors.Is(err, service.ErrTagNotFound):
		return "Tag not found"
	case errors.Is(err, service.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, service.ErrBookmarkExists):
		return "Bookmark with this URL already exists"
	case errors.Is(err, service.ErrTagExists):
		return "Tag with this name already exists"
	case errors.Is(err, store.ErrResumableJobExists):
		return "A resumable import already exists"
	case errors.Is(err, service.ErrNotResumable):
		return "Job is not resumable"
	case errors.Is(err, service.ErrNothingToImport):
		return "Nothing to import"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case store.IsNotFoundError(err):
		return "Resource not found"
	case errors.Is(err, job.ErrQueueFull):
		return "Too many jobs in flight, try again later"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError reduces a validator error to the offending field
// names so raw input values never reach the response.
func SanitizeValidationError(err error) string {
	msg := err.Error()
	if !strings.Contains(msg, "Field validation") {
		return "Invalid request format"
	}

	var fields []string
	for _, part := range strings.Split(msg, "\n") {
		if idx := strings.Index(part, "Error:Field validation for "); idx >= 0 {
			rest := part[idx+len("Error:Field validation for "):]
			if name := strings.Trim(strings.SplitN(rest, " ", 2)[0], "'"); name != "" {
				fields = append(fields, name)
			}
		}
	}
	if len(fields) == 0 {
		return "Validation failed"
	}
	return "Validation failed on: " + strings.Join(fields, ", ")
}
