package runlock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquireSameLock(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "run.lock"))

	release, ok, err := l.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryAcquire()
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	release()
	release() // safe to call twice

	release, ok, err = l.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

func TestTryAcquireSeparateHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")
	a, b := New(path), New(path)

	release, ok, err := a.TryAcquire()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.TryAcquire()
	require.NoError(t, err)
	assert.False(t, ok, "another handle on the same file must be refused")

	release()

	release, ok, err = b.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}
