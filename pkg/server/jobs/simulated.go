package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// SimulatedProcessor stands in for a real rendering backend. It sleeps
// for a configurable duration and returns a synthetic result, which is
// enough to exercise the full queue lifecycle (timeouts included)
// without any external service.
//
// Recognized request options, coerced leniently from JSON payloads:
//
//	duration  - how long the job "renders" (e.g. "1.5s", 1500, "2")
//	fail      - force the job to fail ("true", 1)
//	error     - failure message used when fail is set
type SimulatedProcessor struct {
	// DefaultDuration applies when the request does not specify one.
	DefaultDuration time.Duration

	Logger zerolog.Logger
}

// NewSimulatedProcessor returns a processor with a short default
// render time, suitable for development and tests.
func NewSimulatedProcessor(logger zerolog.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{
		DefaultDuration: 2 * time.Second,
		Logger:          logger.With().Str("component", "processor").Logger(),
	}
}

func (p *SimulatedProcessor) Process(ctx context.Context, req Request) (any, error) {
	duration := p.DefaultDuration
	if raw, ok := req.Options["duration"]; ok {
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration option %v: %w", raw, err)
		}
		if d >= 0 {
			duration = d
		}
	}

	p.Logger.Debug().
		Str("category", req.Category).
		Dur("duration", duration).
		Msg("Simulating job")

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if cast.ToBool(req.Options["fail"]) {
		msg := cast.ToString(req.Options["error"])
		if msg == "" {
			msg = "simulated failure"
		}
		return nil, errors.New(msg)
	}

	return map[string]any{
		"category":   req.Category,
		"input":      req.Input,
		"renderedAt": time.Now().UTC().Format(time.RFC3339),
		"simulated":  true,
	}, nil
}
