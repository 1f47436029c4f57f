package app

import (
	"github.com/rs/zerolog"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/server/jobs"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Config manager for runtime configuration.
	Config *config.Manager

	// Processor executes submitted jobs. Defaults to the simulated
	// processor when nil, which is the development/test setup.
	Processor jobs.Processor

	// Logger for structured logging (injected by caller).
	Logger zerolog.Logger
}
