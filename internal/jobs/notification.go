package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// Common errors for notification jobs
var (
	ErrNilPublisher = errors.New("publisher cannot be nil")
	ErrNilTask      = errors.New("task cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// Publisher defines the interface for delivering notification messages to
// the message broker. The AMQP implementation lives under
// internal/platform/amqpqueue.
type Publisher interface {
	// Publish delivers a message body under the given routing key.
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// taskNotificationPayload is the serialized message body published to the
// broker when a task is created.
type taskNotificationPayload struct {
	Event     string    `json:"event"`
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// routingKeyTaskCreated is the routing key for task-created notifications.
const routingKeyTaskCreated = "task.created"

// TaskNotificationJob implements the Job interface for publishing a
// task-created notification
type TaskNotificationJob struct {
	id        uuid.UUID
	payload   taskNotificationPayload
	publisher Publisher
	logger    *slog.Logger
	status    JobStatus
}

var _ Job = (*TaskNotificationJob)(nil)

// NewTaskNotificationJob creates a notification job for a freshly created
// task and its resolved owner.
func NewTaskNotificationJob(
	created *domain.Task,
	ownerID uuid.UUID,
	publisher Publisher,
	logger *slog.Logger,
) (*TaskNotificationJob, error) {
	if created == nil {
		return nil, ErrNilTask
	}
	if publisher == nil {
		return nil, ErrNilPublisher
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &TaskNotificationJob{
		id: uuid.New(),
		payload: taskNotificationPayload{
			Event:     routingKeyTaskCreated,
			TaskID:    created.ID,
			ProjectID: created.ProjectID,
			OwnerID:   ownerID,
			Title:     created.Title,
			CreatedAt: created.CreatedAt,
		},
		publisher: publisher,
		logger:    logger.With("job_type", JobTypeTaskNotification, "task_id", created.ID),
		status:    JobStatusPending,
	}, nil
}

// ID returns the job's unique identifier
func (j *TaskNotificationJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *TaskNotificationJob) Type() string {
	return JobTypeTaskNotification
}

// Payload returns the serialized notification body
func (j *TaskNotificationJob) Payload() []byte {
	body, err := json.Marshal(j.payload)
	if err != nil {
		// The payload is a plain struct of marshalable fields; this cannot
		// fail at runtime.
		return nil
	}
	return body
}

// Status returns the current job status
func (j *TaskNotificationJob) Status() JobStatus {
	return j.status
}

// Execute publishes the notification to the broker
func (j *TaskNotificationJob) Execute(ctx context.Context) error {
	j.status = JobStatusProcessing

	body := j.Payload()
	if err := j.publisher.Publish(ctx, routingKeyTaskCreated, body); err != nil {
		j.status = JobStatusFailed
		j.logger.Error("failed to publish task notification", "error", err)
		return fmt.Errorf("publishing task notification: %w", err)
	}

	j.status = JobStatusCompleted
	j.logger.Debug("task notification published")
	return nil
}

// TaskNotificationJobFactory creates TaskNotificationJob instances bound to
// a publisher
type TaskNotificationJobFactory struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewTaskNotificationJobFactory creates a new factory for notification jobs
func NewTaskNotificationJobFactory(publisher Publisher, logger *slog.Logger) *TaskNotificationJobFactory {
	return &TaskNotificationJobFactory{
		publisher: publisher,
		logger:    logger.With("component", "task_notification_job_factory"),
	}
}

// CreateJob creates a new TaskNotificationJob for the specified task
func (f *TaskNotificationJobFactory) CreateJob(created *domain.Task, ownerID uuid.UUID) (Job, error) {
	job, err := NewTaskNotificationJob(created, ownerID, f.publisher, f.logger)
	if err != nil {
		return nil, err
	}
	return job, nil
}
