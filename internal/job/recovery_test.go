package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/store"
)

func seedPending(t *testing.T, pending *MockPendingItemStore, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		item, err := domain.NewPendingItem("https://example.com/seed", "", "")
		require.NoError(t, err)
		pending.Seed(item)
	}
}

func seedJob(t *testing.T, jobs *MockJobStore, kind string, status Status) *Job {
	t.Helper()

	j, err := New("seeded job", kind)
	require.NoError(t, err)
	j.Status = status
	require.NoError(t, jobs.Create(context.Background(), j))
	return j
}

func TestRecoveryManager_Run(t *testing.T) {
	t.Parallel()

	t.Run("fails jobs stranded in processing", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		stranded := seedJob(t, jobs, KindImport, StatusProcessing)
		untouched := seedJob(t, jobs, KindEnrich, StatusCompleted)

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)
		require.NoError(t, m.Run(context.Background()))

		failed, err := jobs.GetByID(context.Background(), stranded.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, failed.Status)
		assert.Equal(t, "interrupted by restart", failed.Result)

		done, err := jobs.GetByID(context.Background(), untouched.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, done.Status)
	})

	t.Run("surviving backlog yields a resumable job", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedJob(t, jobs, KindImport, StatusProcessing)
		seedPending(t, pending, 7)

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)
		require.NoError(t, m.Run(context.Background()))

		resumable, err := jobs.ListByStatus(context.Background(), StatusResumable)
		require.NoError(t, err)
		require.Len(t, resumable, 1)
		assert.Equal(t, ResumeJobName, resumable[0].Name)
		assert.Equal(t, KindImport, resumable[0].Kind)
		assert.Equal(t, "7 favorites need to be processed", resumable[0].Result)
	})

	t.Run("clean shutdown with no backlog recovers nothing", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedJob(t, jobs, KindImport, StatusCompleted)

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)
		require.NoError(t, m.Run(context.Background()))

		resumable, err := jobs.ListByStatus(context.Background(), StatusResumable)
		require.NoError(t, err)
		assert.Empty(t, resumable)
	})
}

func TestRecoveryManager_EnsureResumable(t *testing.T) {
	t.Parallel()

	t.Run("no backlog means no job", func(t *testing.T) {
		t.Parallel()

		m, err := NewRecoveryManager(NewMockJobStore(), NewMockPendingItemStore(), testLogger())
		require.NoError(t, err)

		j, err := m.EnsureResumable(context.Background())
		require.NoError(t, err)
		assert.Nil(t, j)
	})

	t.Run("idempotent: repeated calls return the same job", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 3)

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)

		first, err := m.EnsureResumable(context.Background())
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := m.EnsureResumable(context.Background())
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)

		all, err := jobs.ListByStatus(context.Background(), StatusResumable)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("active import suppresses the resumable job", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 3)
		seedJob(t, jobs, KindImport, StatusProcessing)

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)

		j, err := m.EnsureResumable(context.Background())
		require.NoError(t, err)
		assert.Nil(t, j)
	})

	t.Run("uniqueness race resolves to the winner", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 3)

		// Simulate another process winning the insert between our list
		// check and our create.
		realCreate := jobs.CreateFn
		var winner *Job
		jobs.CreateFn = func(ctx context.Context, j *Job) error {
			if winner == nil {
				w, werr := New(ResumeJobName, KindImport)
				require.NoError(t, werr)
				w.Status = StatusResumable
				require.NoError(t, realCreate(ctx, w))
				winner = w
				return store.ErrResumableJobExists
			}
			return realCreate(ctx, j)
		}

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)

		j, err := m.EnsureResumable(context.Background())
		require.NoError(t, err)
		require.NotNil(t, j)
		assert.Equal(t, winner.ID, j.ID)
	})

	t.Run("create failure propagates", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 1)
		jobs.CreateFn = func(ctx context.Context, j *Job) error {
			return errors.New("connection refused")
		}

		m, err := NewRecoveryManager(jobs, pending, testLogger())
		require.NoError(t, err)

		_, err = m.EnsureResumable(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create resumable job")
	})
}

func TestNewRecoveryManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewRecoveryManager(nil, NewMockPendingItemStore(), testLogger())
	assert.ErrorIs(t, err, ErrNilJobStore)

	_, err = NewRecoveryManager(NewMockJobStore(), nil, testLogger())
	assert.ErrorIs(t, err, ErrNilPendingStore)

	_, err = NewRecoveryManager(NewMockJobStore(), NewMockPendingItemStore(), nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}
