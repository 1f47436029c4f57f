package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renderq/renderq/pkg/queue"
	"github.com/renderq/renderq/pkg/server/api"
	"github.com/renderq/renderq/pkg/server/jobs"
)

// SubmitJobResponse is returned by POST /api/v1/jobs/{category} with
// status 202: the job is accepted, not done. Poll StatusURL for the
// outcome.
type SubmitJobResponse struct {
	queue.Submission
	StatusURL string `json:"statusUrl"`
}

// CancelJobResponse is returned by DELETE /api/v1/jobs/{category}/{id}.
type CancelJobResponse struct {
	ID     string       `json:"id"`
	Status queue.Status `json:"status"`
}

// SubmitJobHandler handles POST /api/v1/jobs/{category}
//
// Accepts a job for asynchronous execution and responds immediately
// with the assigned id and queue position:
//
//	{
//	  "id": "9f2c...",
//	  "status": "queued",
//	  "position": 3,
//	  "queueLength": 3,
//	  "estimatedWaitTime": 90000000000,
//	  "statusUrl": "/api/v1/jobs/video-generation/9f2c..."
//	}
//
// Durations are reported in nanoseconds, Go's time.Duration encoding.
func SubmitJobHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRegistry(deps, w, r) {
			return
		}

		category := r.PathValue("category")
		if err := ValidateCategoryName(category); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}

		req, err := ParseSubmitJobRequest(r)
		if err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}

		id := uuid.NewString()
		sub, err := deps.Registry.Submit(id, jobs.Request{
			Category: category,
			Owner:    req.Owner,
			Input:    req.Input,
			Options:  req.Options,
		})
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		log.Info().
			Str("component", "api").
			Str("category", category).
			Str("job_id", sub.ID).
			Int("position", sub.Position).
			Msg("Job accepted")

		api.WriteJSON(w, http.StatusAccepted, SubmitJobResponse{
			Submission: sub,
			StatusURL:  fmt.Sprintf("/api/v1/jobs/%s/%s", category, sub.ID),
		})
	}
}

// GetJobHandler handles GET /api/v1/jobs/{category}/{id}
//
// Returns the current lifecycle view of a job. The response shape
// depends on the status: queued jobs carry position and wait estimate,
// processing jobs carry elapsed time, terminal jobs carry the result or
// error. Evicted and never-submitted ids are both 404.
func GetJobHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRegistry(deps, w, r) {
			return
		}

		category := r.PathValue("category")
		id := r.PathValue("id")
		if err := ValidateJobID(id); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}

		q, ok := deps.Registry.Get(category)
		if !ok {
			api.WriteError(w, r, fmt.Errorf("%w: %q", jobs.ErrUnknownCategory, category))
			return
		}

		view, ok := q.Status(id)
		if !ok {
			api.WriteJSONError(w, http.StatusNotFound, "Not Found",
				fmt.Sprintf("job %q not found in category %q", id, category))
			return
		}

		api.WriteJSON(w, http.StatusOK, view)
	}
}

// CancelJobHandler handles DELETE /api/v1/jobs/{category}/{id}
//
// Only queued jobs can be cancelled. A job already being processed or
// already settled returns 409 Conflict; an unknown id returns 404.
func CancelJobHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRegistry(deps, w, r) {
			return
		}

		category := r.PathValue("category")
		id := r.PathValue("id")
		if err := ValidateJobID(id); err != nil {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}

		q, ok := deps.Registry.Get(category)
		if !ok {
			api.WriteError(w, r, fmt.Errorf("%w: %q", jobs.ErrUnknownCategory, category))
			return
		}

		if q.Cancel(id) {
			log.Info().
				Str("component", "api").
				Str("category", category).
				Str("job_id", id).
				Msg("Job cancelled")

			api.WriteJSON(w, http.StatusOK, CancelJobResponse{ID: id, Status: queue.StatusCancelled})
			return
		}

		// Distinguish "not cancellable" from "unknown" for the client.
		view, ok := q.Status(id)
		if !ok {
			api.WriteJSONError(w, http.StatusNotFound, "Not Found",
				fmt.Sprintf("job %q not found in category %q", id, category))
			return
		}

		api.WriteJSONError(w, http.StatusConflict, "Conflict",
			fmt.Sprintf("job %q is %s; only queued jobs can be cancelled", id, view.Status))
	}
}

var errNoRegistry = errors.New("job registry not configured")

// requireRegistry guards handlers against a nil registry, which only
// happens when the server is wired without the API enabled.
func requireRegistry(deps *api.Deps, w http.ResponseWriter, r *http.Request) bool {
	if deps.Registry == nil {
		api.WriteError(w, r, errNoRegistry)
		return false
	}
	return true
}
