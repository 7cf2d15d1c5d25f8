package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Folder.
var (
	ErrEmptyFolderID   = errors.New("folder ID cannot be empty")
	ErrEmptyFolderName = errors.New("folder name cannot be empty")
	ErrFolderSelfCycle = errors.New("folder cannot be its own parent")
)

// Folder organizes bookmarks into a tree. A nil ParentID marks a root
// folder.
type Folder struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewFolder creates a new Folder with the given name and optional parent.
// Returns an error if validation fails.
func NewFolder(name string, parentID *uuid.UUID, description string) (*Folder, error) {
	now := time.Now().UTC()
	folder := &Folder{
		ID:          uuid.New(),
		Name:        name,
		ParentID:    parentID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	return folder, nil
}

// Validate checks if the Folder has valid data.
func (f *Folder) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFolderID
	}

	if f.Name == "" {
		return ErrEmptyFolderName
	}

	if f.ParentID != nil && *f.ParentID == f.ID {
		return ErrFolderSelfCycle
	}

	return nil
}

// FolderNode is a folder with its resolved children, produced by tree
// traversal for display and for the folder-classifier prompt.
type FolderNode struct {
	Folder   *Folder       `json:"folder"`
	Level    int           `json:"level"`
	Children []*FolderNode `json:"children"`
}
