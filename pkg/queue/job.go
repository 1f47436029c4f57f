package queue

import (
	"context"
	"time"
)

// Status represents the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status allows no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// WorkFunc is the caller-supplied unit of work executed by the queue's
// worker. The queue never inspects the payload or the result; it only
// records them. The context carries the per-job deadline - a function
// that outlives it keeps running detached and its result is discarded.
type WorkFunc func(ctx context.Context, payload any) (any, error)

// job is the internal record for a submitted unit of work. It is owned
// by the queue and mutated only under the queue mutex; callers observe
// it through StatusView snapshots.
type job struct {
	id      string
	payload any
	fn      WorkFunc

	status Status
	result any
	errMsg string

	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
}
