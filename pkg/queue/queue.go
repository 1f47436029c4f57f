// Package queue implements a bounded single-worker asynchronous job queue
// with lifecycle tracking, timeout enforcement, wait estimation, and
// backlog-only cancellation.
//
// One Queue is instantiated per work category (video generation, background
// removal, text-to-speech, ...). Each instance owns its own FIFO backlog and
// its own worker loop; instances never coordinate with one another.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Queue instance. Zero values fall back to the
// defaults below, so Queue construction never fails.
type Options struct {
	// Timeout bounds the wall-clock cost of a single job. The work
	// function is not preempted when it fires; the job is marked failed
	// and the function's eventual settlement is discarded.
	Timeout time.Duration

	// AvgJobDuration is the fixed per-category average used for wait
	// estimation (position x AvgJobDuration). Deliberately a constant,
	// not a measured moving average.
	AvgJobDuration time.Duration

	// InterJobDelay is an optional pause between jobs to smooth burst
	// load on the downstream API. Zero disables it.
	InterJobDelay time.Duration

	// Retention is how long terminal job records stay queryable before
	// eviction.
	Retention time.Duration

	// CleanupInterval is how often expired terminal records are evicted.
	CleanupInterval time.Duration

	// Logger for structured logging. Defaults to a disabled logger.
	Logger zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	if o.AvgJobDuration <= 0 {
		o.AvgJobDuration = 30 * time.Second
	}
	if o.Retention <= 0 {
		o.Retention = time.Hour
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = time.Minute
	}
	return o
}

// Submission is returned by Submit and describes where the job sits in
// the backlog at the moment of submission.
type Submission struct {
	ID            string        `json:"id"`
	Status        Status        `json:"status"`
	Position      int           `json:"position"`
	QueueLength   int           `json:"queueLength"`
	EstimatedWait time.Duration `json:"estimatedWaitTime"`
}

// CurrentJob describes the job the worker is executing right now.
type CurrentJob struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"startedAt"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Stats is a point-in-time snapshot of a queue instance.
type Stats struct {
	Name           string      `json:"name"`
	QueueLength    int         `json:"queueLength"`
	Processing     bool        `json:"processing"`
	CurrentJob     *CurrentJob `json:"currentJob,omitempty"`
	CompletedCount int         `json:"completedCount"`
	FailedCount    int         `json:"failedCount"`
}

// Queue is a single-worker FIFO job queue for one work category.
//
// Go schedules goroutines preemptively, so unlike a cooperative runtime
// the backlog and job table must be guarded: every mutation happens
// under mu. Submit, Status, Cancel and Stats are cheap table operations
// and never block on job execution.
type Queue struct {
	name string
	opts Options

	mu       sync.Mutex
	backlog  []*job          // jobs with status queued, FIFO order
	jobs     map[string]*job // id -> record, until evicted
	current  *job            // the single processing job, nil when idle
	running  bool            // worker loop active
	closed   bool
	complete int // completed jobs retained or evicted
	failed   int // failed jobs retained or evicted

	stop chan struct{} // closed by Close, stops the cleanup loop
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// New creates a queue for the named work category and starts its
// background cleanup loop. The worker loop itself starts lazily on the
// first Submit.
func New(name string, opts Options) *Queue {
	opts = opts.withDefaults()

	q := &Queue{
		name:   name,
		opts:   opts,
		jobs:   make(map[string]*job),
		stop:   make(chan struct{}),
		logger: opts.Logger.With().Str("component", "queue").Str("queue", name).Logger(),
	}

	q.wg.Add(1)
	go q.cleanupLoop()

	return q
}

// Name returns the work category this queue serves.
func (q *Queue) Name() string {
	return q.name
}

// Submit appends a new job to the backlog and starts the worker loop if
// it is idle. Submitting an id that already references a live job is
// idempotent: the existing job's position is returned and the new
// payload and work function are discarded.
func (q *Queue) Submit(id string, payload any, fn WorkFunc) (Submission, error) {
	if id == "" {
		return Submission{}, ErrEmptyID
	}
	if fn == nil {
		return Submission{}, ErrNilWork
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return Submission{}, ErrClosed
	}

	if existing, ok := q.jobs[id]; ok {
		q.logger.Debug().Str("job_id", id).Msg("Duplicate submission, returning existing job")
		return q.submissionLocked(existing), nil
	}

	j := &job{
		id:        id,
		payload:   payload,
		fn:        fn,
		status:    StatusQueued,
		createdAt: time.Now(),
	}
	q.backlog = append(q.backlog, j)
	q.jobs[id] = j

	if !q.running {
		q.running = true
		q.wg.Add(1)
		go q.run()
	}

	q.logger.Debug().
		Str("job_id", id).
		Int("queue_length", len(q.backlog)).
		Msg("Job submitted")

	return q.submissionLocked(j), nil
}

// Cancel removes a queued job from the backlog. It returns false when
// the job is processing, terminal, or unknown - in-flight work is never
// preempted.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	j, ok := q.jobs[id]
	if !ok || j.status != StatusQueued {
		return false
	}

	for i, b := range q.backlog {
		if b == j {
			q.backlog = append(q.backlog[:i], q.backlog[i+1:]...)
			break
		}
	}
	j.status = StatusCancelled
	j.completedAt = time.Now()

	q.logger.Info().Str("job_id", id).Msg("Job cancelled")
	return true
}

// Stats returns a snapshot of the queue state.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := Stats{
		Name:           q.name,
		QueueLength:    len(q.backlog),
		Processing:     q.current != nil,
		CompletedCount: q.complete,
		FailedCount:    q.failed,
	}
	if q.current != nil {
		s.CurrentJob = &CurrentJob{
			ID:        q.current.id,
			StartedAt: q.current.startedAt,
			Elapsed:   time.Since(q.current.startedAt),
		}
	}
	return s
}

// Close stops intake and the cleanup loop, then waits for the worker to
// finish its in-flight job (bounded by ctx). Jobs still queued at close
// stay queued and are never executed; their records remain queryable
// until the process exits.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	close(q.stop)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info().Msg("Queue closed")
		return nil
	case <-ctx.Done():
		q.logger.Warn().Msg("Queue close timed out waiting for in-flight job")
		return ctx.Err()
	}
}

// run is the worker loop. It pulls jobs FIFO and executes each against
// the queue timeout. A failing job never stops the loop: the failure is
// recorded on that job and the loop advances. The loop exits when the
// backlog empties (or the queue closes) and is restarted lazily by the
// next Submit.
func (q *Queue) run() {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		if q.closed || len(q.backlog) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		j := q.backlog[0]
		q.backlog = q.backlog[1:]
		j.status = StatusProcessing
		j.startedAt = time.Now()
		q.current = j
		q.mu.Unlock()

		q.logger.Info().Str("job_id", j.id).Msg("Processing job")

		result, err := q.execute(j)

		q.mu.Lock()
		j.completedAt = time.Now()
		if err != nil {
			j.status = StatusFailed
			j.errMsg = err.Error()
			q.failed++
		} else {
			j.status = StatusCompleted
			j.result = result
			q.complete++
		}
		q.current = nil
		elapsed := j.completedAt.Sub(j.startedAt)
		q.mu.Unlock()

		if err != nil {
			q.logger.Error().
				Str("job_id", j.id).
				Dur("elapsed", elapsed).
				Err(err).
				Msg("Job failed")
		} else {
			q.logger.Info().
				Str("job_id", j.id).
				Dur("elapsed", elapsed).
				Msg("Job completed")
		}

		if q.opts.InterJobDelay > 0 {
			select {
			case <-time.After(q.opts.InterJobDelay):
			case <-q.stop:
			}
		}
	}
}

// execute runs the job's work function racing against the queue timeout.
// A panic inside the work function is converted into a job failure; it
// must never poison the worker loop.
func (q *Queue) execute(j *job) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.opts.Timeout)
	defer cancel()

	type outcome struct {
		result any
		err    error
	}

	// Buffered so a late settlement after timeout doesn't leak the goroutine.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		result, err := j.fn(ctx, j.payload)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout after %s", q.opts.Timeout)
	}
}

// cleanupLoop periodically evicts terminal job records older than the
// retention window. Queued and processing jobs are never evicted.
func (q *Queue) cleanupLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			if n := q.evictExpired(time.Now()); n > 0 {
				q.logger.Debug().Int("evicted", n).Msg("Evicted expired job records")
			}
		}
	}
}

// evictExpired removes terminal records whose retention window has
// elapsed and returns how many were removed.
func (q *Queue) evictExpired(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	var evicted int
	for id, j := range q.jobs {
		if j.status.Terminal() && now.Sub(j.completedAt) > q.opts.Retention {
			delete(q.jobs, id)
			evicted++
		}
	}
	return evicted
}
