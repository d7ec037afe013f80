// Package jobs provides the background job infrastructure: an in-process
// buffered queue, a worker pool that drains it, and the notification job
// published to the message broker when a task is created. Jobs are
// fire-and-forget; a failed job never affects the API request that
// produced it.
package jobs
