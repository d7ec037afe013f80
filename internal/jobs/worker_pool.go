package jobs

import (
	"context"
	"log/slog"
	"sync"
)

// WorkerPool manages a pool of worker goroutines that process jobs
// from a job queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// queue provides read access to the jobs to be processed
	queue QueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx context.Context

	// cancel is the function to call to cancel the context
	cancel context.CancelFunc

	// logger for structured logging
	logger *slog.Logger

	// errorHandler is called when a job execution fails
	// If nil, errors are only logged
	errorHandler func(job Job, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(queue QueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	// Apply defaults for invalid config values
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler allows setting a custom error handler for job execution failures
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the worker goroutines. Each worker drains the queue until
// the queue channel closes or the pool is stopped.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop signals all workers to finish their current job and exit, then
// blocks until every worker has returned. Jobs still buffered in the
// queue are abandoned.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker consumes and executes jobs until shutdown.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-p.ctx.Done():
			log.Debug("worker shutting down")
			return
		case job, ok := <-p.queue.GetChannel():
			if !ok {
				log.Debug("job channel closed, worker exiting")
				return
			}
			p.process(job, log)
		}
	}
}

// process executes a single job, routing failures to the error handler.
func (p *WorkerPool) process(job Job, log *slog.Logger) {
	log.Debug("processing job",
		"job_id", job.ID(),
		"job_type", job.Type())

	if err := job.Execute(p.ctx); err != nil {
		if p.errorHandler != nil {
			p.errorHandler(job, err)
			return
		}
		log.Error("job execution failed",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"error", err)
		return
	}

	log.Debug("job completed",
		"job_id", job.ID(),
		"job_type", job.Type())
}
