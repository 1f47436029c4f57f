package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus_UnknownID(t *testing.T) {
	q := newTestQueue(t, Options{})

	_, ok := q.Status("never-submitted")
	require.False(t, ok)
}

func TestStatus_QueuedView(t *testing.T) {
	q := newTestQueue(t, Options{AvgJobDuration: 15 * time.Second})

	release := make(chan struct{})
	defer close(release)

	_, err := q.Submit("head", nil, gatedWork(release))
	require.NoError(t, err)
	waitForStatus(t, q, "head", StatusProcessing)

	_, err = q.Submit("tail", nil, gatedWork(release))
	require.NoError(t, err)

	view, ok := q.Status("tail")
	require.True(t, ok)
	require.Equal(t, StatusQueued, view.Status)
	require.Equal(t, 1, view.Position)
	require.Equal(t, 1, view.QueueLength)
	require.Equal(t, 15*time.Second, view.EstimatedWait)
	require.False(t, view.CreatedAt.IsZero())
	require.Nil(t, view.StartedAt)
	require.Nil(t, view.CompletedAt)
}

func TestStatus_ProcessingView(t *testing.T) {
	q := newTestQueue(t, Options{})

	release := make(chan struct{})
	defer close(release)

	_, err := q.Submit("busy", nil, gatedWork(release))
	require.NoError(t, err)
	waitForStatus(t, q, "busy", StatusProcessing)

	time.Sleep(20 * time.Millisecond)

	view, ok := q.Status("busy")
	require.True(t, ok)
	require.Equal(t, StatusProcessing, view.Status)
	require.NotNil(t, view.StartedAt)
	require.Greater(t, view.Elapsed, time.Duration(0))
	require.Equal(t, 0, view.Position)
}

func TestStatus_CompletedView(t *testing.T) {
	q := newTestQueue(t, Options{})

	_, err := q.Submit("ok", nil, instantWork(map[string]string{"url": "https://cdn.example/out.mp4"}))
	require.NoError(t, err)

	view := waitForStatus(t, q, "ok", StatusCompleted)
	require.Equal(t, map[string]string{"url": "https://cdn.example/out.mp4"}, view.Result)
	require.Empty(t, view.Error)
	require.NotNil(t, view.CompletedAt)
	require.GreaterOrEqual(t, view.ProcessingTime, time.Duration(0))
}

func TestStatus_FailedView(t *testing.T) {
	q := newTestQueue(t, Options{})

	_, err := q.Submit("broken", nil, func(ctx context.Context, payload any) (any, error) {
		return nil, errors.New("upstream rejected the prompt")
	})
	require.NoError(t, err)

	view := waitForStatus(t, q, "broken", StatusFailed)
	require.Equal(t, "upstream rejected the prompt", view.Error)
	require.Nil(t, view.Result)
	require.NotNil(t, view.CompletedAt)
}

func TestStatusView_JSONShape(t *testing.T) {
	q := newTestQueue(t, Options{})

	_, err := q.Submit("ok", nil, instantWork("payload"))
	require.NoError(t, err)
	view := waitForStatus(t, q, "ok", StatusCompleted)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Equal(t, "completed", decoded["status"])
	require.Equal(t, "payload", decoded["result"])
	// Variant fields of other states stay absent.
	require.NotContains(t, decoded, "error")
	require.NotContains(t, decoded, "position")
	require.NotContains(t, decoded, "estimatedWaitTime")
}
