package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxBodyBytes bounds submit request bodies. Payloads are prompts and
// option maps, never media, so 1 MiB is generous.
const maxBodyBytes = 1 << 20

// SubmitJobRequest is the body of POST /api/v1/jobs/{category}.
type SubmitJobRequest struct {
	// Owner identifies the submitting user or session.
	Owner string `json:"owner" validate:"omitempty,max=128"`

	// Input is the primary job input (prompt, asset URL).
	Input string `json:"input" validate:"required,max=8192"`

	// Options carries category-specific parameters, passed through to
	// the processor untouched.
	Options map[string]any `json:"options"`
}

// ParseSubmitJobRequest decodes and validates a submit body.
func ParseSubmitJobRequest(r *http.Request) (*SubmitJobRequest, error) {
	var req SubmitJobRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, &ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}

	if err := validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return nil, &ValidationError{Field: field, Reason: "failed " + verrs[0].Tag() + " validation"}
		}
		return nil, &ValidationError{Field: "body", Reason: err.Error()}
	}

	return &req, nil
}

// ValidationError is a lightweight error used for 400 responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "validation failed"
	}
	if e.Reason == "" {
		return e.Field + ": invalid"
	}
	return e.Field + ": " + e.Reason
}

var categoryRe = regexp.MustCompile(`^[a-z][a-z0-9-]{1,62}$`)

// ValidateCategoryName validates a category path segment before any
// registry lookup, so malformed input never reaches the queue layer.
func ValidateCategoryName(category string) error {
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Reason: "required"}
	}
	if !categoryRe.MatchString(category) {
		return &ValidationError{Field: "category", Reason: "invalid format (lowercase alnum and hyphens, 2-63)"}
	}
	return nil
}

// ValidateJobID validates a job id path segment. IDs are server-issued
// UUIDs, but status lookups accept any non-empty token and simply miss.
func ValidateJobID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Reason: "required"}
	}
	if len(id) > 128 {
		return &ValidationError{Field: "id", Reason: "too long"}
	}
	return nil
}
