package queue

import "errors"

// Common errors returned by queue operations.
var (
	// ErrClosed is returned when submitting to a closed queue.
	ErrClosed = errors.New("queue is closed")

	// ErrEmptyID is returned when a job is submitted without an id.
	ErrEmptyID = errors.New("empty job id")

	// ErrNilWork is returned when a job is submitted without a work function.
	ErrNilWork = errors.New("nil work function")
)

// IsClosed checks if an error is or wraps ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
