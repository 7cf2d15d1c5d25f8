// Package gemini implements the enrich interfaces against Google's Gemini
// API. It fetches readable page content, prompts the model for a summary,
// tag suggestions, and a folder placement, and retries transient API
// failures with exponential backoff.
package gemini
