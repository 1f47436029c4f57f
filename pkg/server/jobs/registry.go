package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/queue"
)

// Registry owns one queue per configured category and routes
// submissions to the shared processor. Queues are created eagerly at
// startup so the category set is fixed for the lifetime of the server.
type Registry struct {
	queues     map[string]*queue.Queue
	categories []string
	proc       Processor
	logger     zerolog.Logger
}

// NewRegistry builds a queue for every category in cfg, applying the
// per-category overrides on top of the shared defaults.
func NewRegistry(cfg config.QueuesConfig, proc Processor, logger zerolog.Logger) *Registry {
	r := &Registry{
		queues:     make(map[string]*queue.Queue),
		categories: cfg.CategoryNames(),
		proc:       proc,
		logger:     logger.With().Str("component", "jobs").Logger(),
	}

	for _, name := range r.categories {
		qc := cfg.ForCategory(name)
		r.queues[name] = queue.New(name, queue.Options{
			Timeout:         qc.Timeout,
			AvgJobDuration:  qc.AvgJobDuration,
			InterJobDelay:   qc.InterJobDelay,
			Retention:       qc.Retention,
			CleanupInterval: qc.CleanupInterval,
			Logger:          logger,
		})
	}

	r.logger.Info().Int("categories", len(r.categories)).Msg("Job registry initialized")
	return r
}

// Get returns the queue for a category, or false if none is configured.
func (r *Registry) Get(category string) (*queue.Queue, bool) {
	q, ok := r.queues[category]
	return q, ok
}

// Categories returns the configured category names in sorted order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// Submit enqueues a request on its category's queue. The processor is
// bound here so the queue itself stays agnostic of what work means.
func (r *Registry) Submit(id string, req Request) (queue.Submission, error) {
	q, ok := r.queues[req.Category]
	if !ok {
		return queue.Submission{}, fmt.Errorf("%w: %q", ErrUnknownCategory, req.Category)
	}

	return q.Submit(id, req, func(ctx context.Context, payload any) (any, error) {
		return r.proc.Process(ctx, payload.(Request))
	})
}

// Stats returns a snapshot of every queue, in category order.
func (r *Registry) Stats() []queue.Stats {
	out := make([]queue.Stats, 0, len(r.categories))
	for _, name := range r.categories {
		out = append(out, r.queues[name].Stats())
	}
	return out
}

// Close shuts down all queues, waiting for in-flight jobs until ctx
// expires. Errors from individual queues are joined.
func (r *Registry) Close(ctx context.Context) error {
	var errs []error
	for _, name := range r.categories {
		if err := r.queues[name].Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close queue %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
