package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/queues", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"queues":[
			{"name":"image-generation","queueLength":2,"processing":true,
			 "currentJob":{"id":"job-1","startedAt":"2026-08-25T12:00:00Z","elapsed":4000000000},
			 "completedCount":10,"failedCount":1},
			{"name":"thumbnail","queueLength":0,"processing":false,"completedCount":4,"failedCount":0}
		]}`))
	})
	mux.HandleFunc("GET /api/v1/queues/thumbnail", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"thumbnail","queueLength":0,"processing":false,"completedCount":4,"failedCount":0}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStatsCommand_Table(t *testing.T) {
	srv := newStatsServer(t)

	cmd := NewStatsCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server-url", srv.URL, "--no-color"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "RenderQ Queues")
	assert.Contains(t, out, "image-generation")
	assert.Contains(t, out, "processing")
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "thumbnail")
	assert.Contains(t, out, "idle")
}

func TestStatsCommand_JSON(t *testing.T) {
	srv := newStatsServer(t)

	cmd := NewStatsCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server-url", srv.URL, "--output", "json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"image-generation"`)
	assert.Contains(t, buf.String(), `"queues"`)
}

func TestStatsCommand_YAML(t *testing.T) {
	srv := newStatsServer(t)

	cmd := NewStatsCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server-url", srv.URL, "--output", "yaml"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "queues:")
	assert.Contains(t, buf.String(), "image-generation")
}

func TestStatsCommand_SingleCategory(t *testing.T) {
	srv := newStatsServer(t)

	cmd := NewStatsCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server-url", srv.URL, "--category", "thumbnail", "--no-color"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "thumbnail")
	assert.NotContains(t, buf.String(), "image-generation")
}
