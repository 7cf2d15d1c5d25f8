// Package enrich defines the interfaces through which the application
// enriches bookmarks with AI-generated summaries, tags, and folder
// placements. Concrete implementations live under internal/platform.
package enrich
