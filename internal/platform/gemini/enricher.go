package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/kestrelab/linkhoard/internal/config"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/enrich"
)

// FolderCatalog is the slice of folder storage the classifier needs: the
// inventory that goes into the prompt, and creation for NEW suggestions.
type FolderCatalog interface {
	ListAll(ctx context.Context) ([]*domain.Folder, error)
	Create(ctx context.Context, folder *domain.Folder) error
}

// modelCaller abstracts the single generate call so the retry loop and
// response parsing can be tested without the live API.
type modelCaller interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Enricher implements enrich.Enricher using Google's Gemini API for
// summaries, tag suggestions, and folder classification.
type Enricher struct {
	logger  *slog.Logger
	config  config.LLMConfig
	caller  modelCaller
	fetcher ContentFetcher
	folders FolderCatalog
}

// NewEnricher creates a new Gemini-backed enricher.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//   - folders: Folder storage used by the classifier
//
// Returns a properly initialized Enricher or an error if initialization fails.
func NewEnricher(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, folders FolderCatalog) (*Enricher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if folders == nil {
		return nil, errors.New("folder catalog cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", enrich.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", enrich.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", enrich.ErrInvalidConfig, err)
	}

	fetchTimeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}

	return &Enricher{
		logger:  logger,
		config:  cfg,
		caller:  &genaiCaller{client: client, model: cfg.ModelName},
		fetcher: newReadabilityFetcher(fetchTimeout),
		folders: folders,
	}, nil
}

// Summarize fetches the page behind url and asks the model for a 2-3
// sentence summary of its readable content.
func (e *Enricher) Summarize(ctx context.Context, url, hint string) (string, error) {
	content, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", enrich.ErrFetchFailed, err)
	}

	e.logger.DebugContext(ctx, "fetched page content",
		"url", url,
		"content_length", len(content))

	text, err := e.callWithRetry(ctx, summarizePrompt(content, hint))
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(text)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", enrich.ErrInvalidResponse)
	}

	return summary, nil
}

// SuggestTags asks the model for 3-5 tags describing the summary.
func (e *Enricher) SuggestTags(ctx context.Context, summary string) ([]string, error) {
	text, err := e.callWithRetry(ctx, tagsPrompt(summary))
	if err != nil {
		return nil, err
	}

	tags := parseTagList(text)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags in response %q", enrich.ErrInvalidResponse, text)
	}

	return tags, nil
}

// SuggestFolder asks the model to place the summarized content in the
// existing folder tree. The model answers with either "ID: <id>" for an
// existing folder or "NEW: <name>" for a folder to create under the root.
// Anything unparseable falls back to the root folder rather than failing
// the whole item.
func (e *Enricher) SuggestFolder(ctx context.Context, summary string) (uuid.UUID, error) {
	folders, err := e.folders.ListAll(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list folders: %w", err)
	}

	root := rootFolder(folders)

	text, err := e.callWithRetry(ctx, folderPrompt(summary, formatFolderListing(folders)))
	if err != nil {
		return uuid.Nil, err
	}

	suggestion := strings.TrimSpace(text)

	if name, ok := parseNewFolder(suggestion); ok {
		return e.createSuggestedFolder(ctx, name, root)
	}

	if id, ok := parseFolderID(suggestion); ok && folderExists(folders, id) {
		return id, nil
	}

	e.logger.WarnContext(ctx, "unusable folder suggestion, falling back to root",
		"suggestion", suggestion)

	if root != nil {
		return root.ID, nil
	}
	return uuid.Nil, nil
}

// createSuggestedFolder creates the folder the model asked for under the
// root. Creation failures degrade to the root folder.
func (e *Enricher) createSuggestedFolder(ctx context.Context, name string, root *domain.Folder) (uuid.UUID, error) {
	var parent *uuid.UUID
	if root != nil {
		parent = &root.ID
	}

	folder, err := domain.NewFolder(name, parent, "")
	if err == nil {
		err = e.folders.Create(ctx, folder)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "failed to create suggested folder, falling back to root",
			"folder_name", name,
			"error", err)
		if root != nil {
			return root.ID, nil
		}
		return uuid.Nil, nil
	}

	e.logger.InfoContext(ctx, "created suggested folder",
		"folder_id", folder.ID,
		"folder_name", name)
	return folder.ID, nil
}

// callWithRetry makes a model call with exponential backoff for transient
// errors. Permanent errors (blocked content, unparseable responses) are
// returned immediately without retrying.
func (e *Enricher) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := e.config.MaxRetries
	if maxRetries < 0 {
		e.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	baseDelaySeconds := e.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		text, err := e.caller.generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		e.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"error", err)

		if !errors.Is(err, enrich.ErrTransientFailure) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				enrich.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", enrich.ErrTransientFailure, ctx.Err())
		}
	}
}

// genaiCaller is the live modelCaller backed by the genai client.
type genaiCaller struct {
	client *genai.Client
	model  string
}

func (c *genaiCaller) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", enrich.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", enrich.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: stopped by safety filters", enrich.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", enrich.ErrInvalidResponse)
	}

	return text, nil
}
