package enrich

import (
	"context"

	"github.com/google/uuid"
)

// Summarizer produces a short natural-language summary for a URL.
// This interface is a boundary between the application core and external
// AI/LLM services, following the hexagonal architecture pattern.
type Summarizer interface {
	// Summarize fetches the page behind url and returns a 2-3 sentence
	// summary of its content. The hint carries caller-supplied context
	// (e.g. the section header a link was imported from) and may be empty.
	Summarize(ctx context.Context, url, hint string) (string, error)
}

// TagSuggester proposes tags for already-summarized content.
type TagSuggester interface {
	// SuggestTags returns 3-5 short tags describing the summary.
	SuggestTags(ctx context.Context, summary string) ([]string, error)
}

// FolderClassifier picks the folder a summarized bookmark belongs in.
type FolderClassifier interface {
	// SuggestFolder returns the ID of the most appropriate existing
	// folder, creating a new one under the root when nothing fits.
	SuggestFolder(ctx context.Context, summary string) (uuid.UUID, error)
}

// Enricher bundles the full summarize/tag/classify sequence applied to one
// bookmark candidate.
type Enricher interface {
	Summarizer
	TagSuggester
	FolderClassifier
}
