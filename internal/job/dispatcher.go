package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// DispatcherConfig holds configuration for the dispatcher
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory queue
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Dispatcher manages background job processing. Every submission is
// persisted before it is enqueued, so the durable record always exists by
// the time the caller holds the job ID, even if the process dies before a
// worker picks the job up.
type Dispatcher struct {
	store      JobStore
	queue      *Queue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     DispatcherConfig
	logger     *slog.Logger
	errHandler func(j *Job, err error)
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(store JobStore, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		store:      store,
		queue:      NewQueue(config.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		wg:         sync.WaitGroup{},
		config:     config,
		logger:     logger,
		errHandler: func(j *Job, err error) {
			logger.Error("job execution failed",
				"job_id", j.ID,
				"job_kind", j.Kind,
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (d *Dispatcher) SetErrorHandler(handler func(j *Job, err error)) {
	d.errHandler = handler
}

// Submit persists the job record and enqueues its work. The returned error
// is nil once the record is durable and the work is queued. If the queue is
// full the record is marked failed so the backlog never shows a pending job
// that nothing will ever run.
func (d *Dispatcher) Submit(ctx context.Context, j *Job, work WorkFunc) error {
	if err := d.store.Create(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	if err := d.queue.Enqueue(&submission{job: j, work: work}); err != nil {
		d.logger.Error("failed to enqueue job, marking failed",
			"job_id", j.ID,
			"job_kind", j.Kind,
			"error", err)
		if updateErr := d.store.UpdateStatus(ctx, j.ID, StatusFailed, 0, "job queue is full"); updateErr != nil {
			d.logger.Error("failed to mark unqueued job as failed",
				"job_id", j.ID,
				"error", updateErr)
		}
		return err
	}

	return nil
}

// Requeue enqueues work for a job record that already exists, leaving the
// record untouched on failure. Used when resuming an interrupted import:
// a full queue should leave the job resumable, not flip it to failed.
func (d *Dispatcher) Requeue(j *Job, work WorkFunc) error {
	return d.queue.Enqueue(&submission{job: j, work: work})
}

// Start launches the worker pool and begins processing jobs
func (d *Dispatcher) Start() error {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info("dispatcher started", "worker_count", d.config.WorkerCount)
	return nil
}

// Stop gracefully shuts down the dispatcher, waiting for in-flight jobs
func (d *Dispatcher) Stop() {
	d.cancelFunc()
	d.wg.Wait()
	d.queue.Close()
	d.logger.Info("dispatcher stopped")
}

// worker processes submissions from the queue
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("stopping worker", "worker_id", id)
			return

		case sub, ok := <-d.queue.channel():
			if !ok {
				d.logger.Debug("queue closed, stopping worker", "worker_id", id)
				return
			}

			d.process(sub, id)
		}
	}
}

// process handles execution of a single submission
func (d *Dispatcher) process(sub *submission, workerID int) {
	ctx := d.ctx
	logger := d.logger.With(
		"job_id", sub.job.ID,
		"job_kind", sub.job.Kind,
		"worker_id", workerID,
	)

	if err := d.store.UpdateStatus(ctx, sub.job.ID, StatusProcessing, 0, ""); err != nil {
		logger.Error("failed to update job status to processing", "error", err)
		// A job that cannot start must still end terminally; leaving it
		// pending would make it look like it is waiting for a worker.
		if updateErr := d.store.UpdateStatus(ctx, sub.job.ID, StatusFailed, 0, fmt.Sprintf("could not start: %v", err)); updateErr != nil {
			logger.Error("failed to mark unstartable job as failed", "error", updateErr)
		}
		d.errHandler(sub.job, err)
		return
	}

	logger.Info("processing job", "job_name", sub.job.Name)

	result, err := sub.work(ctx, sub.job.ID)

	if err != nil {
		logger.Error("job execution failed", "error", err)
		if updateErr := d.store.UpdateStatus(ctx, sub.job.ID, StatusFailed, 0, err.Error()); updateErr != nil {
			logger.Error("failed to update job status to failed", "error", updateErr)
		}

		d.errHandler(sub.job, err)
	} else {
		logger.Info("job completed successfully", "result", result)
		if updateErr := d.store.UpdateStatus(ctx, sub.job.ID, StatusCompleted, 100, result); updateErr != nil {
			logger.Error("failed to update job status to completed", "error", updateErr)
		}
	}
}
