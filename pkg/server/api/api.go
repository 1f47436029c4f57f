package api

import (
	"sync/atomic"

	"github.com/renderq/renderq/pkg/server/jobs"
)

// Deps holds dependencies for API handlers.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Registry routes submissions to per-category queues.
	Registry *jobs.Registry

	// Config holds API-level settings (handler timeout).
	Config Config

	// Ready flag for readiness check.
	Ready *atomic.Bool
}
