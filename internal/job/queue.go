package job

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// submission pairs a durable job record with the in-memory work that
// executes it. The record is what survives a crash; the WorkFunc does not.
type submission struct {
	job  *Job
	work WorkFunc
}

// Queue implements a bounded buffered queue of job submissions. Enqueue
// never blocks: when the buffer is full the caller gets ErrQueueFull and
// decides what to do with the already-persisted job record.
type Queue struct {
	subs   chan *submission
	logger *slog.Logger

	// mu guards closed so an Enqueue racing Close can never send on a
	// closed channel.
	mu     sync.Mutex
	closed bool
}

// NewQueue creates a new queue with the specified buffer size
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		subs:   make(chan *submission, size),
		logger: logger,
		closed: false,
	}
}

// Enqueue adds a submission to the queue for processing
// Returns an error if the queue is full or closed
func (q *Queue) Enqueue(sub *submission) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.subs <- sub:
		q.logger.Debug("job enqueued",
			"job_id", sub.job.ID,
			"job_kind", sub.job.Kind,
			"queue_len", len(q.subs),
			"queue_cap", cap(q.subs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.subs))
	}
}

// Close closes the queue, preventing further submissions
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.subs)
		q.logger.Info("job queue closed")
	}
}

// channel returns the read side for workers.
func (q *Queue) channel() <-chan *submission {
	return q.subs
}
