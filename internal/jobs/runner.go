package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner ties a queue to a worker pool and manages both lifecycles. It is
// the submission surface handed to the services.
type Runner struct {
	queue  *Queue
	pool   *WorkerPool
	logger *slog.Logger
}

// NewRunner creates a Runner with its own queue and worker pool.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	queue := NewQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	return &Runner{
		queue:  queue,
		pool:   pool,
		logger: logger.With("component", "job_runner"),
	}
}

// Submit adds a new job to the queue. The context only guards submission;
// execution happens later under the pool's own context.
func (r *Runner) Submit(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.queue.Enqueue(job); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Start begins processing jobs.
func (r *Runner) Start() {
	r.pool.Start()
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	r.queue.Close()
	r.pool.Stop()
}
