package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/cloudtask-api/internal/platform/metrics"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// Queue implements a buffered job queue that satisfies both
// QueueReader and QueueWriter interfaces
type Queue struct {
	jobs   chan Job
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewQueue creates a new job queue with the specified buffer size
func NewQueue(size int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job to the queue for processing
// Returns an error if the queue is full or closed
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		metrics.JobsEnqueued.WithLabelValues(job.Type()).Inc()
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		// Channel is full
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue, preventing further job submission
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// GetChannel returns a read-only channel for consuming jobs
func (q *Queue) GetChannel() <-chan Job {
	return q.jobs
}
