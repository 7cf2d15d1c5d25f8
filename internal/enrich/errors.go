package enrich

import "errors"

// Standard errors returned by enrichment implementations. Callers should use
// errors.Is to check for these, as implementations may wrap them with
// additional context.
var (
	// ErrEnrichmentFailed indicates a general failure in the enrichment
	// process not covered by a more specific error.
	ErrEnrichmentFailed = errors.New("enrichment failed")

	// ErrFetchFailed indicates the content behind the URL could not be
	// retrieved or parsed.
	ErrFetchFailed = errors.New("content fetch failed")

	// ErrInvalidResponse indicates the AI service returned a response that
	// could not be parsed into the expected shape.
	ErrInvalidResponse = errors.New("invalid enrichment response")

	// ErrContentBlocked indicates the AI service refused the content due to
	// safety filtering.
	ErrContentBlocked = errors.New("content blocked by provider")

	// ErrTransientFailure indicates a temporary failure (rate limit,
	// timeout, service unavailability) where a retry may succeed.
	ErrTransientFailure = errors.New("transient enrichment failure")

	// ErrInvalidConfig indicates the enricher was constructed with invalid
	// configuration.
	ErrInvalidConfig = errors.New("invalid enricher configuration")
)
