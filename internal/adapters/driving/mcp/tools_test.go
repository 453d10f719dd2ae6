package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func writeAsset(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("glb"), 0o600))
	return path
}

func TestServer_handleEnqueue(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)

	t.Run("queues a glb file", func(t *testing.T) {
		_, out, err := server.handleEnqueue(ctx, nil, EnqueueInput{Path: writeAsset(t, "chair.glb")})

		require.NoError(t, err)
		assert.Equal(t, "chair.glb", out.Name)
		assert.Equal(t, "pending", out.Status)
		assert.NotEmpty(t, out.ID)
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		_, _, err := server.handleEnqueue(ctx, nil, EnqueueInput{Path: writeAsset(t, "chair.obj")})
		assert.Error(t, err)
	})

	t.Run("requires a path", func(t *testing.T) {
		_, _, err := server.handleEnqueue(ctx, nil, EnqueueInput{})
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := server.handleEnqueue(ctx, nil, EnqueueInput{Path: filepath.Join(t.TempDir(), "gone.glb")})
		assert.Error(t, err)
	})
}

func TestServer_handleProcess(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)
	for _, name := range []string{"a.glb", "bad.glb"} {
		_, _, err := server.handleEnqueue(ctx, nil, EnqueueInput{Path: writeAsset(t, name)})
		require.NoError(t, err)
	}

	_, out, err := server.handleProcess(ctx, nil, struct{}{})

	require.NoError(t, err)
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "done", out.Items[0].Status)
	assert.Equal(t, "a.fbx", out.Items[0].Result)
	assert.Equal(t, "error", out.Items[1].Status)
	assert.Equal(t, "Local conversion failed", out.Items[1].Error)

	_, listed, err := server.handleList(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, out, listed)
}

func TestServer_handleRemoveAndExport(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)
	_, item, err := server.handleEnqueue(ctx, nil, EnqueueInput{Path: writeAsset(t, "a.glb")})
	require.NoError(t, err)

	_, _, err = server.handleExport(ctx, nil, ExportInput{ID: item.ID, Dir: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "not converted yet")

	_, _, err = server.handleProcess(ctx, nil, struct{}{})
	require.NoError(t, err)

	dir := t.TempDir()
	_, exported, err := server.handleExport(ctx, nil, ExportInput{ID: item.ID, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.fbx"), exported.Path)

	_, out, err := server.handleRemove(ctx, nil, ItemInput{ID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)

	_, _, err = server.handleRemove(ctx, nil, ItemInput{ID: item.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleCheck(t *testing.T) {
	ctx := context.Background()
	ports := newTestPorts(t)
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, out, err := server.handleCheck(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "connected", out.Status)
	assert.Equal(t, domain.MessageReachable, out.Message)

	ports.Connectivity = nil
	_, _, err = server.handleCheck(ctx, nil, struct{}{})
	assert.Error(t, err)
}
