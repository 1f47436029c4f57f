package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/queue"
)

func testQueuesConfig() config.QueuesConfig {
	return config.QueuesConfig{
		Defaults: config.QueueConfig{
			Timeout:         5 * time.Second,
			AvgJobDuration:  time.Second,
			Retention:       time.Hour,
			CleanupInterval: time.Minute,
		},
		Categories: map[string]config.QueueConfig{
			"image-generation": {},
			"video-generation": {Timeout: 10 * time.Second},
		},
	}
}

func newTestRegistry(t *testing.T, proc Processor) *Registry {
	t.Helper()

	r := NewRegistry(testQueuesConfig(), proc, zerolog.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = r.Close(ctx)
	})
	return r
}

func TestRegistry_Categories(t *testing.T) {
	r := newTestRegistry(t, NewSimulatedProcessor(zerolog.Nop()))

	assert.Equal(t, []string{"image-generation", "video-generation"}, r.Categories())

	_, ok := r.Get("image-generation")
	assert.True(t, ok)
	_, ok = r.Get("bogus")
	assert.False(t, ok)
}

func TestRegistry_SubmitRoutesToProcessor(t *testing.T) {
	processed := make(chan Request, 1)
	proc := ProcessorFunc(func(ctx context.Context, req Request) (any, error) {
		processed <- req
		return "done", nil
	})
	r := newTestRegistry(t, proc)

	sub, err := r.Submit("job-1", Request{Category: "image-generation", Input: "a cat"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", sub.ID)
	assert.Equal(t, queue.StatusQueued, sub.Status)

	select {
	case req := <-processed:
		assert.Equal(t, "a cat", req.Input)
		assert.Equal(t, "image-generation", req.Category)
	case <-time.After(2 * time.Second):
		t.Fatal("processor was never invoked")
	}
}

func TestRegistry_SubmitUnknownCategory(t *testing.T) {
	r := newTestRegistry(t, NewSimulatedProcessor(zerolog.Nop()))

	_, err := r.Submit("job-1", Request{Category: "hologram", Input: "x"})
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestRegistry_StatsCoversAllCategories(t *testing.T) {
	r := newTestRegistry(t, NewSimulatedProcessor(zerolog.Nop()))

	stats := r.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "image-generation", stats[0].Name)
	assert.Equal(t, "video-generation", stats[1].Name)
}

func TestRegistry_CloseStopsQueues(t *testing.T) {
	r := NewRegistry(testQueuesConfig(), NewSimulatedProcessor(zerolog.Nop()), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))

	_, err := r.Submit("job-1", Request{Category: "image-generation", Input: "x"})
	require.True(t, queue.IsClosed(err))
}
