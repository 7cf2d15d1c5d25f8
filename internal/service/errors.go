// Package service provides application-level services for bookmarks,
// folders, tags, and import orchestration.
package service

import (
	"errors"
	"fmt"

	"github.com/kestrelab/linkhoard/internal/store"
)

// Common service errors - sentinel errors used across service
// implementations. Callers check for these with errors.Is(); the API layer
// maps them to HTTP status codes.
var (
	// ErrBookmarkNotFound indicates that the bookmark does not exist.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrFolderNotFound indicates that the folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrTagNotFound indicates that the tag does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrJobNotFound indicates that the job does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrBookmarkExists indicates a bookmark with the same URL already exists.
	ErrBookmarkExists = errors.New("bookmark with this URL already exists")

	// ErrTagExists indicates a tag with the same name already exists.
	ErrTagExists = errors.New("tag with this name already exists")

	// ErrNothingToImport indicates an import request with no usable items.
	ErrNothingToImport = errors.New("nothing to import")

	// ErrNotResumable indicates the referenced job has no surviving backlog
	// to drain.
	ErrNotResumable = errors.New("job is not resumable")
)

// ServiceError wraps unexpected errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "upsert_bookmark")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Store-level sentinels are
// mapped to their service-level equivalents and returned directly without
// wrapping; everything else is wrapped with operation context.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrBookmarkNotFound),
		errors.Is(err, ErrFolderNotFound),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrJobNotFound),
		errors.Is(err, ErrNotResumable),
		errors.Is(err, ErrNothingToImport),
		errors.Is(err, ErrBookmarkExists),
		errors.Is(err, ErrTagExists):
		return err
	case errors.Is(err, store.ErrBookmarkNotFound):
		return ErrBookmarkNotFound
	case errors.Is(err, store.ErrFolderNotFound):
		return ErrFolderNotFound
	case errors.Is(err, store.ErrTagNotFound):
		return ErrTagNotFound
	case errors.Is(err, store.ErrJobNotFound):
		return ErrJobNotFound
	case errors.Is(err, store.ErrTagNameExists):
		return ErrTagExists
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
