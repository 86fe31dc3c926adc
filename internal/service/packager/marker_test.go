package packager

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the previous directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}

// TestMarkerLifecycle verifies fresh markers block a run and stale markers are recovered.
func TestMarkerLifecycle(t *testing.T) {
	chdir(t, t.TempDir())

	ctx := context.Background()

	// No marker yet.
	require.False(t, IsPackagerRunningNow(ctx))

	// Fresh marker blocks.
	require.NoError(t, createMarker())
	require.True(t, IsPackagerRunningNow(ctx))

	// Stale marker is cleaned up and no longer blocks.
	old := time.Now().Add(-2 * markerLifetime)
	require.NoError(t, os.Chtimes(MarkerFilename, old, old))
	require.False(t, IsPackagerRunningNow(ctx))

	_, err := os.Stat(MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)

	// removeMarker tolerates a missing marker.
	require.NoError(t, removeMarker())
}
