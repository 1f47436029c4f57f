package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/renderq/renderq/pkg/queue"
	"github.com/renderq/renderq/pkg/server/jobs"
)

// ErrorResponse represents a standard JSON error response.
// Used consistently across all API endpoints.
//
// Example:
//
//	{
//	  "error": "Not Found",
//	  "message": "no queue configured for category \"hologram\""
//	}
type ErrorResponse struct {
	Error   string `json:"error"`             // Short error type (e.g., "Not Found")
	Message string `json:"message,omitempty"` // Detailed error message (optional)
}

// WriteError writes a standard JSON error response, mapping known error
// types to HTTP status codes:
//   - jobs.ErrUnknownCategory → 404 Not Found
//   - queue.ErrClosed → 503 Service Unavailable (server is shutting down)
//   - queue.ErrEmptyID, queue.ErrNilWork → 400 Bad Request
//   - everything else → 500 Internal Server Error
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, jobs.ErrUnknownCategory):
		statusCode = http.StatusNotFound
		errorType = "Not Found"
	case queue.IsClosed(err):
		statusCode = http.StatusServiceUnavailable
		errorType = "Service Unavailable"
	case errors.Is(err, queue.ErrEmptyID), errors.Is(err, queue.ErrNilWork):
		statusCode = http.StatusBadRequest
		errorType = "Bad Request"
	default:
		statusCode = http.StatusInternalServerError
		errorType = "Internal Server Error"
	}

	logEvent := log.Error().
		Str("component", "api").
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", statusCode).
		Err(err)

	if statusCode == http.StatusNotFound {
		logEvent.Msg("Resource not found")
	} else {
		logEvent.Msg("Request failed")
	}

	WriteJSONError(w, statusCode, errorType, err.Error())
}

// WriteJSONError writes a custom JSON error response with a specific
// status code. Use this when the handler already knows the status.
func WriteJSONError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   errorType,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().
			Str("component", "api").
			Err(err).
			Msg("Failed to encode error response")
	}
}

// WriteJSON writes a JSON response to the client.
// Use this for successful API responses.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().
			Str("component", "api").
			Err(err).
			Msg("Failed to encode JSON response")
	}
}
