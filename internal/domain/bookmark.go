package domain

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Bookmark.
var (
	ErrEmptyBookmarkID  = errors.New("bookmark ID cannot be empty")
	ErrEmptyBookmarkURL = errors.New("bookmark URL cannot be empty")
)

// Bookmark represents a saved link together with its enrichment results:
// an LLM-generated summary, a folder placement, and a set of tags.
type Bookmark struct {
	ID        uuid.UUID  `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	FolderID  *uuid.UUID `json:"folder_id,omitempty"`
	Tags      []Tag      `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewBookmark creates a new Bookmark with the given URL and title.
// It generates a new UUID for the bookmark ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewBookmark(rawURL, title string) (*Bookmark, error) {
	now := time.Now().UTC()
	bookmark := &Bookmark{
		ID:        uuid.New(),
		URL:       rawURL,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := bookmark.Validate(); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// Validate checks if the Bookmark has valid data.
// Returns an error if any field fails validation.
func (b *Bookmark) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookmarkID
	}

	if b.URL == "" {
		return ErrEmptyBookmarkURL
	}

	parsed, err := url.Parse(b.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, b.URL)
	}

	return nil
}

// Touch updates the UpdatedAt timestamp. Called by stores before writes
// so in-memory state matches what is persisted.
func (b *Bookmark) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
