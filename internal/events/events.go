package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job request event types.
const (
	// EventTypeImport requests a bulk favorites import.
	EventTypeImport = "favorites_import"

	// EventTypeImportResume requests draining of an already-staged backlog.
	EventTypeImportResume = "favorites_import_resume"

	// EventTypeEnrich requests re-enrichment of a single bookmark.
	EventTypeEnrich = "bookmark_enrich"
)

// JobRequestEvent represents a request to run background work. It carries
// the necessary information for job creation without direct dependencies
// on the job package.
type JobRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what kind of work should be started
	Type string `json:"type"`

	// Payload contains the request-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *JobRequestEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewJobRequestEvent creates a new JobRequestEvent with the specified type
// and payload.
func NewJobRequestEvent(eventType string, payload interface{}) (*JobRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &JobRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// ImportItem is one favorite inside an import request payload.
type ImportItem struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

// ImportRequestPayload carries everything needed to start a bulk import.
// The job ID is generated by the requester so it can be returned to the
// client synchronously, before the event is handled.
type ImportRequestPayload struct {
	JobID uuid.UUID    `json:"job_id"`
	Name  string       `json:"name"`
	Items []ImportItem `json:"items"`
}

// ResumeRequestPayload identifies the resumable job whose backlog should
// be drained.
type ResumeRequestPayload struct {
	JobID uuid.UUID `json:"job_id"`
}

// EnrichRequestPayload carries a single-bookmark enrichment request.
type EnrichRequestPayload struct {
	JobID uuid.UUID `json:"job_id"`
	Name  string    `json:"name"`
	URL   string    `json:"url"`
	Title string    `json:"title,omitempty"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *JobRequestEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish job requests without direct knowledge of
// the job system.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *JobRequestEvent) error
}
