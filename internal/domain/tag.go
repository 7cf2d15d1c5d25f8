package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors for Tag.
var (
	ErrEmptyTagID   = errors.New("tag ID cannot be empty")
	ErrEmptyTagName = errors.New("tag name cannot be empty")
)

// Tag is a free-form label attached to bookmarks. Names are unique and
// stored lowercase so "Go" and "go" are the same tag.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewTag creates a new Tag with a normalized name.
// Returns an error if validation fails.
func NewTag(name string) (*Tag, error) {
	tag := &Tag{
		ID:   uuid.New(),
		Name: NormalizeTagName(name),
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	return tag, nil
}

// Validate checks if the Tag has valid data.
func (t *Tag) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTagID
	}

	if t.Name == "" {
		return ErrEmptyTagName
	}

	return nil
}

// NormalizeTagName lowercases and trims a tag name. Suggested tags coming
// back from the LLM arrive with inconsistent casing and padding.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
