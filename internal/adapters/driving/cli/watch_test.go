package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/adapters/driving/watch"
)

func TestWatchCmd_Flags(t *testing.T) {
	flag := watchCmd.Flags().Lookup("settle")
	require.NotNil(t, flag)
	assert.Equal(t, watch.DefaultSettle.String(), flag.DefValue)
	assert.NotNil(t, watchCmd.Flags().Lookup("metrics-addr"))
	assert.NotNil(t, watchCmd.Flags().Lookup("existing"))
}

func TestWatchCmd_RequiresDir(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "watch")

	assert.Error(t, err)
}

func TestWatchCmd_MetricsNotConfigured(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "watch", "--metrics-addr", "127.0.0.1:0", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics not configured")
}

func TestWatchCmd_MissingDirectory(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "watch", "/does/not/exist")

	assert.Error(t, err)
}
