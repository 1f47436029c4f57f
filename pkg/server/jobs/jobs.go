// Package jobs wires the per-category queues to the processors that
// execute submitted work. The registry owns one queue per configured
// category; processors are pluggable so the server can run against a
// real rendering backend or the built-in simulated one.
package jobs

import (
	"context"
	"errors"
)

// Sentinel errors for job submission and lookup.
var (
	// ErrUnknownCategory is returned when a request names a category
	// that has no configured queue.
	ErrUnknownCategory = errors.New("unknown job category")
)

// Request is the unit of work handed to a processor. It is stored as
// the queue payload, so it must stay self-describing: the processor
// receives nothing else.
type Request struct {
	// Category identifies the queue this request was submitted to.
	Category string `json:"category"`

	// Owner identifies who submitted the job (user id, session id).
	Owner string `json:"owner,omitempty"`

	// Input is the primary job input (prompt text, source asset URL).
	Input string `json:"input"`

	// Options carries category-specific parameters. Processors coerce
	// the values they understand and ignore the rest.
	Options map[string]any `json:"options,omitempty"`
}

// Processor executes a single job request. Implementations must honor
// context cancellation: the queue enforces per-job timeouts through ctx
// and abandons the result once the deadline passes.
type Processor interface {
	Process(ctx context.Context, req Request) (any, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, req Request) (any, error)

func (f ProcessorFunc) Process(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}
