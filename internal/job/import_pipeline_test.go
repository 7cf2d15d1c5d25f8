package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelab/linkhoard/internal/domain"
)

type mockEnricher struct {
	SummarizeFn     func(ctx context.Context, url, hint string) (string, error)
	SuggestTagsFn   func(ctx context.Context, summary string) ([]string, error)
	SuggestFolderFn func(ctx context.Context, summary string) (uuid.UUID, error)
}

func newMockEnricher() *mockEnricher {
	folderID := uuid.New()
	return &mockEnricher{
		SummarizeFn: func(ctx context.Context, url, hint string) (string, error) {
			return "A summary of " + url, nil
		},
		SuggestTagsFn: func(ctx context.Context, summary string) ([]string, error) {
			return []string{"go", "testing"}, nil
		},
		SuggestFolderFn: func(ctx context.Context, summary string) (uuid.UUID, error) {
			return folderID, nil
		},
	}
}

func (m *mockEnricher) Summarize(ctx context.Context, url, hint string) (string, error) {
	return m.SummarizeFn(ctx, url, hint)
}

func (m *mockEnricher) SuggestTags(ctx context.Context, summary string) ([]string, error) {
	return m.SuggestTagsFn(ctx, summary)
}

func (m *mockEnricher) SuggestFolder(ctx context.Context, summary string) (uuid.UUID, error) {
	return m.SuggestFolderFn(ctx, summary)
}

type mockBookmarkWriter struct {
	mutex    sync.Mutex
	upserted []string
	UpsertFn func(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error)
}

func newMockBookmarkWriter() *mockBookmarkWriter {
	w := &mockBookmarkWriter{}
	w.UpsertFn = func(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error) {
		return uuid.New(), nil
	}
	return w
}

func (w *mockBookmarkWriter) Upsert(ctx context.Context, url, title, summary string, folderID *uuid.UUID, tags []string) (uuid.UUID, error) {
	w.mutex.Lock()
	w.upserted = append(w.upserted, url)
	w.mutex.Unlock()
	return w.UpsertFn(ctx, url, title, summary, folderID, tags)
}

func (w *mockBookmarkWriter) urls() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return append([]string(nil), w.upserted...)
}

func newTestPipeline(t *testing.T, jobs JobStore, pending *MockPendingItemStore, enricher *mockEnricher, writer *mockBookmarkWriter) *ImportPipeline {
	t.Helper()

	p, err := NewImportPipeline(jobs, pending, enricher, writer, 0, testLogger())
	require.NoError(t, err)
	return p
}

func stagedJob(t *testing.T, store *MockJobStore) *Job {
	t.Helper()

	j, err := New("import favorites", KindImport)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), j))
	return j
}

func TestNewImportPipeline_Validation(t *testing.T) {
	t.Parallel()

	jobs := NewMockJobStore()
	pending := NewMockPendingItemStore()
	enricher := newMockEnricher()
	writer := newMockBookmarkWriter()
	logger := testLogger()

	tests := []struct {
		name string
		err  error
		call func() (*ImportPipeline, error)
	}{
		{"nil job store", ErrNilJobStore, func() (*ImportPipeline, error) {
			return NewImportPipeline(nil, pending, enricher, writer, 0, logger)
		}},
		{"nil pending store", ErrNilPendingStore, func() (*ImportPipeline, error) {
			return NewImportPipeline(jobs, nil, enricher, writer, 0, logger)
		}},
		{"nil enricher", ErrNilEnricher, func() (*ImportPipeline, error) {
			return NewImportPipeline(jobs, pending, nil, writer, 0, logger)
		}},
		{"nil bookmark writer", ErrNilBookmarkWriter, func() (*ImportPipeline, error) {
			return NewImportPipeline(jobs, pending, enricher, nil, 0, logger)
		}},
		{"nil logger", ErrNilLogger, func() (*ImportPipeline, error) {
			return NewImportPipeline(jobs, pending, enricher, writer, 0, nil)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.call()
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestImportPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("stages then drains the full batch", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		writer := newMockBookmarkWriter()
		p := newTestPipeline(t, jobs, pending, newMockEnricher(), writer)
		j := stagedJob(t, jobs)

		candidates := []ImportCandidate{
			{URL: "https://example.com/a", Title: "A"},
			{URL: "https://example.com/b", Title: "B"},
			{URL: "https://example.com/c", Title: "C"},
		}

		result, err := p.Run(candidates)(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, "processed 3 of 3 favorites", result)

		remaining, err := pending.CountUnprocessed(context.Background())
		require.NoError(t, err)
		assert.Zero(t, remaining)

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}, writer.urls())

		saved, err := jobs.GetByID(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, saved.Progress)
	})

	t.Run("batch is durably staged before any enrichment", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		enricher := newMockEnricher()
		p := newTestPipeline(t, jobs, pending, enricher, newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		var stagedAtFirstEnrich int
		enricher.SummarizeFn = func(ctx context.Context, url, hint string) (string, error) {
			if stagedAtFirstEnrich == 0 {
				items, _ := pending.ListUnprocessed(ctx)
				stagedAtFirstEnrich = len(items)
			}
			return "summary", nil
		}

		candidates := []ImportCandidate{
			{URL: "https://example.com/a", Title: "A"},
			{URL: "https://example.com/b", Title: "B"},
		}

		_, err := p.Run(candidates)(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stagedAtFirstEnrich)
	})

	t.Run("one bad item is retired and the rest still process", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		enricher := newMockEnricher()
		enricher.SummarizeFn = func(ctx context.Context, url, hint string) (string, error) {
			if url == "https://example.com/b" {
				return "", errors.New("fetch returned 404")
			}
			return "summary", nil
		}
		writer := newMockBookmarkWriter()
		p := newTestPipeline(t, jobs, pending, enricher, writer)
		j := stagedJob(t, jobs)

		candidates := []ImportCandidate{
			{URL: "https://example.com/a", Title: "A"},
			{URL: "https://example.com/b", Title: "B"},
			{URL: "https://example.com/c", Title: "C"},
		}

		result, err := p.Run(candidates)(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, "processed 2 of 3 favorites", result)

		// The failed item must be retired too, not left to wedge the backlog.
		remaining, err := pending.CountUnprocessed(context.Background())
		require.NoError(t, err)
		assert.Zero(t, remaining)

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/c"}, writer.urls())
	})

	t.Run("empty batch fails the job", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		p := newTestPipeline(t, jobs, NewMockPendingItemStore(), newMockEnricher(), newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		_, err := p.Run(nil)(context.Background(), j.ID)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})

	t.Run("staging failure propagates", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		pending.CreateBatchFn = func(ctx context.Context, items []*domain.PendingItem) error {
			return errors.New("disk full")
		}
		p := newTestPipeline(t, jobs, pending, newMockEnricher(), newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		_, err := p.Run([]ImportCandidate{{URL: "https://example.com/a"}})(context.Background(), j.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stage import batch")
	})

	t.Run("retire failure aborts the drain", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		pending.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
			return errors.New("connection reset")
		}
		p := newTestPipeline(t, jobs, pending, newMockEnricher(), newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		_, err := p.Run([]ImportCandidate{{URL: "https://example.com/a"}})(context.Background(), j.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to retire staged item")
	})

	t.Run("cancelled context interrupts the drain", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		p := newTestPipeline(t, jobs, pending, newMockEnricher(), newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Run([]ImportCandidate{{URL: "https://example.com/a"}})(ctx, j.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import interrupted")

		// The batch was staged before the interruption, so recovery can
		// still find it.
		remaining, countErr := pending.CountUnprocessed(context.Background())
		require.NoError(t, countErr)
		assert.Equal(t, 1, remaining)
	})
}

func TestImportPipeline_Resume(t *testing.T) {
	t.Parallel()

	t.Run("drains only what is already staged", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		for i := 0; i < 2; i++ {
			item, err := domain.NewPendingItem(fmt.Sprintf("https://example.com/%d", i), "", "")
			require.NoError(t, err)
			pending.Seed(item)
		}

		writer := newMockBookmarkWriter()
		p := newTestPipeline(t, jobs, pending, newMockEnricher(), writer)
		j := stagedJob(t, jobs)

		result, err := p.Resume()(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, "processed 2 of 2 favorites", result)
		assert.Len(t, writer.urls(), 2)
	})

	t.Run("empty backlog resolves immediately", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		p := newTestPipeline(t, jobs, NewMockPendingItemStore(), newMockEnricher(), newMockBookmarkWriter())
		j := stagedJob(t, jobs)

		result, err := p.Resume()(context.Background(), j.ID)
		require.NoError(t, err)
		assert.Equal(t, "processed 0 of 0 favorites", result)
	})
}

func TestImportPipeline_Progress(t *testing.T) {
	t.Parallel()

	jobs := NewMockJobStore()
	pending := NewMockPendingItemStore()
	enricher := newMockEnricher()
	writer := newMockBookmarkWriter()
	p := newTestPipeline(t, jobs, pending, enricher, writer)
	j := stagedJob(t, jobs)

	var observed []int
	enricher.SuggestFolderFn = func(ctx context.Context, summary string) (uuid.UUID, error) {
		saved, err := jobs.GetByID(ctx, j.ID)
		if err == nil {
			observed = append(observed, saved.Progress)
		}
		return uuid.Nil, nil
	}

	candidates := []ImportCandidate{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/b"},
		{URL: "https://example.com/c"},
	}

	_, err := p.Run(candidates)(context.Background(), j.ID)
	require.NoError(t, err)

	// Progress observed while processing items 1..3: before each item the
	// previous item's write is visible.
	assert.Equal(t, []int{0, 33, 66}, observed)

	final, err := jobs.GetByID(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, final.Progress)
}

func TestImportPipeline_EnrichOne(t *testing.T) {
	t.Parallel()

	jobs := NewMockJobStore()
	writer := newMockBookmarkWriter()
	p := newTestPipeline(t, jobs, NewMockPendingItemStore(), newMockEnricher(), writer)
	j := stagedJob(t, jobs)

	result, err := p.EnrichOne("https://example.com/a", "A")(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, "enriched https://example.com/a", result)
	assert.Equal(t, []string{"https://example.com/a"}, writer.urls())
}
