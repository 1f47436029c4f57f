package queue

import "time"

// StatusView is the client-facing status payload derived from a job's
// current state. Exactly one variant is populated per the Status field:
//
//   - queued: Position, QueueLength, EstimatedWait
//   - processing: StartedAt, Elapsed
//   - completed: Result, CompletedAt, ProcessingTime
//   - failed: Error, CompletedAt, ProcessingTime
//   - cancelled: CompletedAt
//
// A failed job is shaped identically to a completed one except for the
// error vs result field; clients never see a raw stack trace.
type StatusView struct {
	ID     string `json:"id"`
	Status Status `json:"status"`

	Position      int           `json:"position,omitempty"`
	QueueLength   int           `json:"queueLength,omitempty"`
	EstimatedWait time.Duration `json:"estimatedWaitTime,omitempty"`

	StartedAt *time.Time    `json:"startedAt,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`

	Result         any           `json:"result,omitempty"`
	Error          string        `json:"error,omitempty"`
	CompletedAt    *time.Time    `json:"completedAt,omitempty"`
	ProcessingTime time.Duration `json:"processingTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Status derives the StatusView for a job id. It is a pure read over the
// queue tables and never mutates state. The second return is false when
// the id is unknown or its record has been evicted - the two cases are
// deliberately indistinguishable.
func (q *Queue) Status(id string) (StatusView, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	j, ok := q.jobs[id]
	if !ok {
		return StatusView{}, false
	}
	return q.viewLocked(j, time.Now()), true
}

// submissionLocked computes the Submission payload for a job. Position is
// 1-based within the backlog; 0 means currently processing. The wait
// estimate is the simple linear model position x AvgJobDuration, never a
// measured one.
func (q *Queue) submissionLocked(j *job) Submission {
	pos := q.positionLocked(j)
	return Submission{
		ID:            j.id,
		Status:        j.status,
		Position:      pos,
		QueueLength:   len(q.backlog),
		EstimatedWait: time.Duration(pos) * q.opts.AvgJobDuration,
	}
}

// positionLocked returns the job's 1-based index in the current backlog
// order, or 0 when it is not queued.
func (q *Queue) positionLocked(j *job) int {
	if j.status != StatusQueued {
		return 0
	}
	for i, b := range q.backlog {
		if b == j {
			return i + 1
		}
	}
	return 0
}

func (q *Queue) viewLocked(j *job, now time.Time) StatusView {
	v := StatusView{
		ID:        j.id,
		Status:    j.status,
		CreatedAt: j.createdAt,
	}

	switch j.status {
	case StatusQueued:
		v.Position = q.positionLocked(j)
		v.QueueLength = len(q.backlog)
		v.EstimatedWait = time.Duration(v.Position) * q.opts.AvgJobDuration

	case StatusProcessing:
		started := j.startedAt
		v.StartedAt = &started
		v.Elapsed = now.Sub(started)

	case StatusCompleted:
		completed := j.completedAt
		v.Result = j.result
		v.CompletedAt = &completed
		v.ProcessingTime = completed.Sub(j.startedAt)

	case StatusFailed:
		completed := j.completedAt
		v.Error = j.errMsg
		v.CompletedAt = &completed
		v.ProcessingTime = completed.Sub(j.startedAt)

	case StatusCancelled:
		completed := j.completedAt
		v.CompletedAt = &completed
	}

	return v
}
