package api

import (
	"errors"
	"time"
)

// ErrInvalidTimeout is returned when a timeout value is invalid (negative).
var ErrInvalidTimeout = errors.New("invalid timeout: must be >= 0")

// Config holds API-level configuration.
type Config struct {
	// HandlerTimeout bounds how long a single API handler may run. It is
	// applied only when the request context has no deadline already, so
	// middleware and clients can set tighter limits.
	//
	// Default: 10 seconds. Job execution is not covered by this timeout;
	// submission returns immediately and the queue enforces its own
	// per-job deadline.
	HandlerTimeout time.Duration
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		HandlerTimeout: 10 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	if c.HandlerTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
