package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for PendingItem.
var (
	ErrEmptyPendingItemID  = errors.New("pending item ID cannot be empty")
	ErrEmptyPendingItemURL = errors.New("pending item URL cannot be empty")
)

// PendingItem is one bulk-import candidate awaiting enrichment. Items are
// written durably before any enrichment starts, so an accepted import
// survives a crash even if zero items have been processed. The record is
// independent of any job: crash recovery discovers unfinished work from
// this table alone.
type PendingItem struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Metadata  string    `json:"metadata,omitempty"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPendingItem creates a new unprocessed PendingItem.
// Returns an error if validation fails.
func NewPendingItem(url, title, metadata string) (*PendingItem, error) {
	now := time.Now().UTC()
	item := &PendingItem{
		ID:        uuid.New(),
		URL:       url,
		Title:     title,
		Metadata:  metadata,
		Processed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the PendingItem has valid data.
func (p *PendingItem) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPendingItemID
	}

	if p.URL == "" {
		return ErrEmptyPendingItemURL
	}

	return nil
}
