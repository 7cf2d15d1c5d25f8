package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// maxContentChars bounds how much page text goes into a prompt. Pages
// larger than this are truncated rather than rejected.
const maxContentChars = 20000

// ErrEmptyContent is returned when a page yields no readable text.
var ErrEmptyContent = errors.New("page has no readable content")

// ContentFetcher retrieves the readable text of a web page.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawurl string) (string, error)
}

// readabilityFetcher extracts article text with go-readability, stripping
// navigation and boilerplate so the summarizer sees only the content.
type readabilityFetcher struct {
	client *http.Client
}

func newReadabilityFetcher(timeout time.Duration) *readabilityFetcher {
	return &readabilityFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *readabilityFetcher) Fetch(ctx context.Context, rawurl string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawurl, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawurl, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch of %s returned status %d", rawurl, resp.StatusCode)
	}

	parsedURL, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", rawurl, err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract readable content from %s: %w", rawurl, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		text = strings.TrimSpace(article.Title)
	}
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyContent, rawurl)
	}

	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}

	return text, nil
}
