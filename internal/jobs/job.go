package jobs

import (
	"context"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a job
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job type constants
const (
	// JobTypeTaskNotification represents the job type for publishing
	// task-created notifications to the message broker
	JobTypeTaskNotification = "task_notification"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() JobStatus

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// QueueReader provides read-only access to the job channel
// allowing workers to consume jobs without the ability to enqueue
type QueueReader interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// QueueWriter provides write access to the job queue
// allowing services to enqueue jobs for processing
type QueueWriter interface {
	// Enqueue adds a job to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(job Job) error

	// Close closes the job queue, preventing further submission
	Close()
}
