package job

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelab/linkhoard/internal/store"
)

func newTestReporter(t *testing.T, jobs *MockJobStore, pending *MockPendingItemStore) *StatusReporter {
	t.Helper()

	m, err := NewRecoveryManager(jobs, pending, testLogger())
	require.NoError(t, err)

	r, err := NewStatusReporter(jobs, m, testLogger())
	require.NoError(t, err)
	return r
}

func TestStatusReporter_GetJob(t *testing.T) {
	t.Parallel()

	jobs := NewMockJobStore()
	r := newTestReporter(t, jobs, NewMockPendingItemStore())

	j := seedJob(t, jobs, KindImport, StatusCompleted)

	got, err := r.GetJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)

	_, err = r.GetJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrJobNotFound)
}

func TestStatusReporter_ListJobs(t *testing.T) {
	t.Parallel()

	t.Run("surfaces a crashed backlog without a restart", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 4)
		r := newTestReporter(t, jobs, pending)

		listed, err := r.ListJobs(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, StatusResumable, listed[0].Status)
		assert.Equal(t, "4 favorites need to be processed", listed[0].Result)
	})

	t.Run("respects the limit", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		r := newTestReporter(t, jobs, NewMockPendingItemStore())

		for i := 0; i < 5; i++ {
			seedJob(t, jobs, KindImport, StatusCompleted)
		}

		listed, err := r.ListJobs(context.Background(), 3)
		require.NoError(t, err)
		assert.Len(t, listed, 3)
	})

	t.Run("listing twice never duplicates the resumable job", func(t *testing.T) {
		t.Parallel()

		jobs := NewMockJobStore()
		pending := NewMockPendingItemStore()
		seedPending(t, pending, 2)
		r := newTestReporter(t, jobs, pending)

		_, err := r.ListJobs(context.Background(), 10)
		require.NoError(t, err)

		listed, err := r.ListJobs(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})
}
