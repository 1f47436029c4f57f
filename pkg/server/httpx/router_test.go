package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/server/api"
	"github.com/renderq/renderq/pkg/server/jobs"
)

func newTestRouter(t *testing.T, apiEnabled bool) (*http.ServeMux, *atomic.Bool) {
	t.Helper()

	queues := config.QueuesConfig{
		Defaults: config.QueueConfig{
			Timeout:         5 * time.Second,
			AvgJobDuration:  time.Second,
			Retention:       time.Hour,
			CleanupInterval: time.Minute,
		},
		Categories: map[string]config.QueueConfig{"thumbnail": {}},
	}
	registry := jobs.NewRegistry(queues, jobs.NewSimulatedProcessor(zerolog.Nop()), zerolog.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = registry.Close(ctx)
	})

	ready := &atomic.Bool{}
	deps := &api.Deps{Registry: registry, Config: api.DefaultConfig(), Ready: ready}
	cfg := config.DefaultServerConfig()
	cfg.APIEnabled = apiEnabled

	return NewRouter(cfg, deps), ready
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Readyz(t *testing.T) {
	router, ready := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ready.Store(true)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_APIEnabled(t *testing.T) {
	router, _ := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/queues", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "thumbnail")
}

func TestRouter_APIDisabled(t *testing.T) {
	router, _ := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/queues", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Health stays mounted regardless.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/queues", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
