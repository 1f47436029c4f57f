package httpx

import (
	"net/http"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/server/api"
	v1 "github.com/renderq/renderq/pkg/server/api/v1"
)

// NewRouter creates and configures the main HTTP router.
// It mounts health endpoints and the job API based on the configuration.
//
// The router uses Go 1.22+ enhanced pattern matching for cleaner routes.
// Health endpoints are always enabled for liveness/readiness checks.
func NewRouter(cfg config.ServerConfig, deps *api.Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints (always enabled)
	mux.HandleFunc("GET /healthz", HealthzHandler)
	mux.HandleFunc("GET /readyz", v1.ReadyzHandler(deps.Ready))

	// Job API endpoints (conditional)
	if cfg.APIEnabled {
		mux.Handle("POST /api/v1/jobs/{category}", withTimeout(deps.Config, v1.SubmitJobHandler(deps)))
		mux.Handle("GET /api/v1/jobs/{category}/{id}", withTimeout(deps.Config, v1.GetJobHandler(deps)))
		mux.Handle("DELETE /api/v1/jobs/{category}/{id}", withTimeout(deps.Config, v1.CancelJobHandler(deps)))
		mux.Handle("GET /api/v1/queues", withTimeout(deps.Config, v1.ListQueuesHandler(deps)))
		mux.Handle("GET /api/v1/queues/{category}", withTimeout(deps.Config, v1.GetQueueHandler(deps)))
	}

	return mux
}

// withTimeout bounds API handler execution. Handlers are non-blocking
// by design (submission returns before the job runs), so hitting this
// limit indicates a stuck lock rather than a slow job.
func withTimeout(cfg api.Config, h http.Handler) http.Handler {
	if cfg.HandlerTimeout <= 0 {
		return h
	}
	return http.TimeoutHandler(h, cfg.HandlerTimeout, "handler timed out")
}

// HealthzHandler responds with 200 OK if the server process is alive.
// This endpoint is used by load balancers and orchestrators for liveness
// checks.
//
// It does not check dependencies (queues, workers) - just process
// health. For comprehensive readiness checks, use /readyz instead.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
