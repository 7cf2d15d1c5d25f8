package job

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/kestrelab/linkhoard/internal/domain"
	"github.com/kestrelab/linkhoard/internal/store"
)

// MockJobStore implements the JobStore interface for testing
type MockJobStore struct {
	mutex    sync.RWMutex
	jobs     map[uuid.UUID]*Job
	order    []uuid.UUID
	CreateFn         func(ctx context.Context, j *Job) error
	UpdateFn         func(ctx context.Context, id uuid.UUID, status Status, progress int, result string) error
	DeleteTerminalFn func(ctx context.Context) (int64, error)
}

// NewMockJobStore creates a new MockJobStore with default implementations
func NewMockJobStore() *MockJobStore {
	s := &MockJobStore{
		jobs: make(map[uuid.UUID]*Job),
	}

	s.CreateFn = func(ctx context.Context, j *Job) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		if err := s.checkResumableUnique(j.ID, j.Kind, j.Status); err != nil {
			return err
		}

		cp := *j
		s.jobs[j.ID] = &cp
		s.order = append(s.order, j.ID)
		return nil
	}

	s.UpdateFn = func(ctx context.Context, id uuid.UUID, status Status, progress int, result string) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		j, exists := s.jobs[id]
		if !exists {
			return store.ErrJobNotFound
		}
		if err := s.checkResumableUnique(id, j.Kind, status); err != nil {
			return err
		}
		j.Status = status
		j.Progress = progress
		j.Result = result
		return nil
	}

	s.DeleteTerminalFn = func(ctx context.Context) (int64, error) {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		var deleted int64
		kept := s.order[:0]
		for _, id := range s.order {
			if s.jobs[id].Status.Terminal() {
				delete(s.jobs, id)
				deleted++
				continue
			}
			kept = append(kept, id)
		}
		s.order = kept
		return deleted, nil
	}

	return s
}

// checkResumableUnique enforces the rule the real store gets from its
// partial unique index: at most one resumable job per kind. It applies to
// both inserts and status updates. Caller must hold the mutex.
func (s *MockJobStore) checkResumableUnique(id uuid.UUID, kind string, status Status) error {
	if status != StatusResumable {
		return nil
	}
	for _, existing := range s.jobs {
		if existing.ID != id && existing.Kind == kind && existing.Status == StatusResumable {
			return store.ErrResumableJobExists
		}
	}
	return nil
}

// Create persists a job to the mock store
func (s *MockJobStore) Create(ctx context.Context, j *Job) error {
	return s.CreateFn(ctx, j)
}

// UpdateStatus updates status, progress, and result of a job
func (s *MockJobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, progress int, result string) error {
	return s.UpdateFn(ctx, id, status, progress, result)
}

// UpdateProgress overwrites only the progress of a job
func (s *MockJobStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	j, exists := s.jobs[id]
	if !exists {
		return store.ErrJobNotFound
	}
	j.Progress = progress
	return nil
}

// GetByID retrieves a job by its unique ID
func (s *MockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	j, exists := s.jobs[id]
	if !exists {
		return nil, store.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

// List retrieves the most recent jobs, newest first
func (s *MockJobStore) List(ctx context.Context, limit int) ([]*Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make([]uuid.UUID, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, k int) bool {
		return s.jobs[ids[i]].CreatedAt.After(s.jobs[ids[k]].CreatedAt)
	})

	var result []*Job
	for _, id := range ids {
		if len(result) >= limit {
			break
		}
		cp := *s.jobs[id]
		result = append(result, &cp)
	}
	return result, nil
}

// ListByStatus retrieves all jobs with the given status
func (s *MockJobStore) ListByStatus(ctx context.Context, status Status) ([]*Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []*Job
	for _, id := range s.order {
		if s.jobs[id].Status == status {
			cp := *s.jobs[id]
			result = append(result, &cp)
		}
	}
	return result, nil
}

// DeleteTerminal removes completed and failed jobs from the mock store
func (s *MockJobStore) DeleteTerminal(ctx context.Context) (int64, error) {
	return s.DeleteTerminalFn(ctx)
}

// MockPendingItemStore implements store.PendingItemStore for testing
type MockPendingItemStore struct {
	mutex           sync.RWMutex
	items           []*domain.PendingItem
	CreateBatchFn   func(ctx context.Context, items []*domain.PendingItem) error
	MarkProcessedFn func(ctx context.Context, id uuid.UUID) error
}

// NewMockPendingItemStore creates a new MockPendingItemStore
func NewMockPendingItemStore() *MockPendingItemStore {
	s := &MockPendingItemStore{}

	s.CreateBatchFn = func(ctx context.Context, items []*domain.PendingItem) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.items = append(s.items, items...)
		return nil
	}

	s.MarkProcessedFn = func(ctx context.Context, id uuid.UUID) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		for _, item := range s.items {
			if item.ID == id {
				item.Processed = true
				return nil
			}
		}
		return store.ErrPendingItemNotFound
	}

	return s
}

// Seed adds pre-staged items directly, bypassing CreateBatchFn
func (s *MockPendingItemStore) Seed(items ...*domain.PendingItem) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.items = append(s.items, items...)
}

// CreateBatch persists all items
func (s *MockPendingItemStore) CreateBatch(ctx context.Context, items []*domain.PendingItem) error {
	return s.CreateBatchFn(ctx, items)
}

// ListUnprocessed retrieves all items with processed=false in insertion order
func (s *MockPendingItemStore) ListUnprocessed(ctx context.Context) ([]*domain.PendingItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []*domain.PendingItem
	for _, item := range s.items {
		if !item.Processed {
			result = append(result, item)
		}
	}
	return result, nil
}

// CountUnprocessed returns the number of items with processed=false
func (s *MockPendingItemStore) CountUnprocessed(ctx context.Context) (int, error) {
	items, _ := s.ListUnprocessed(ctx)
	return len(items), nil
}

// MarkProcessed retires an item
func (s *MockPendingItemStore) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return s.MarkProcessedFn(ctx, id)
}

// DeleteProcessed removes retired items
func (s *MockPendingItemStore) DeleteProcessed(ctx context.Context) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var kept []*domain.PendingItem
	var removed int64
	for _, item := range s.items {
		if item.Processed {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return removed, nil
}
