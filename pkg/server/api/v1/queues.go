package v1

import (
	"fmt"
	"net/http"

	"github.com/renderq/renderq/pkg/queue"
	"github.com/renderq/renderq/pkg/server/api"
	"github.com/renderq/renderq/pkg/server/jobs"
)

// ListQueuesResponse is returned by GET /api/v1/queues.
type ListQueuesResponse struct {
	Queues []queue.Stats `json:"queues"`
}

// ListQueuesHandler handles GET /api/v1/queues
//
// Returns a snapshot of every configured queue: backlog length, whether
// the worker is busy, and lifetime completed/failed counters.
func ListQueuesHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRegistry(deps, w, r) {
			return
		}

		api.WriteJSON(w, http.StatusOK, ListQueuesResponse{Queues: deps.Registry.Stats()})
	}
}

// GetQueueHandler handles GET /api/v1/queues/{category}
//
// Returns the snapshot for a single queue, or 404 when the category has
// no configured queue.
func GetQueueHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireRegistry(deps, w, r) {
			return
		}

		category := r.PathValue("category")
		q, ok := deps.Registry.Get(category)
		if !ok {
			api.WriteError(w, r, fmt.Errorf("%w: %q", jobs.ErrUnknownCategory, category))
			return
		}

		api.WriteJSON(w, http.StatusOK, q.Stats())
	}
}
