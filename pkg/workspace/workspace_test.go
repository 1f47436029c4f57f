package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_CreatesRootAndSubdirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	prepared, err := Prepare(root)
	require.NoError(t, err)
	require.DirExists(t, prepared)

	for _, sub := range Subdirectories() {
		assert.DirExists(t, filepath.Join(prepared, sub))
	}
}

func TestPrepare_Idempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	first, err := Prepare(root)
	require.NoError(t, err)

	second, err := Prepare(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrepare_EnvDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RENDERQ_WORKSPACE", dir)

	prepared, err := Prepare("")
	require.NoError(t, err)
	assert.Equal(t, dir, prepared)
}

func TestLock_Exclusive(t *testing.T) {
	root, err := Prepare(filepath.Join(t.TempDir(), "ws"))
	require.NoError(t, err)

	lock, err := Lock(root)
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	// A second lock attempt on the same root must fail.
	_, err = Lock(root)
	require.ErrorIs(t, err, ErrLocked)

	// Released lock can be reacquired.
	require.NoError(t, lock.Unlock())
	again, err := Lock(root)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestLock_WritesLockFile(t *testing.T) {
	root, err := Prepare(filepath.Join(t.TempDir(), "ws"))
	require.NoError(t, err)

	lock, err := Lock(root)
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	_, statErr := os.Stat(filepath.Join(root, "renderq.lock"))
	assert.NoError(t, statErr)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "/tmp/renderq-ws")

	root, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "/tmp/renderq-ws", root)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
