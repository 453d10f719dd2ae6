package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func TestResultActionService_Export(t *testing.T) {
	f := newQueueFixture(t)
	item, err := f.queue.Enqueue(context.Background(), glb("Chair.GLB"))
	require.NoError(t, err)
	require.NoError(t, f.queue.ProcessAll(context.Background()))
	actions := NewResultActionService(f.queue, f.previews, t.TempDir())
	dir := filepath.Join(t.TempDir(), "out")

	path, err := actions.Export(context.Background(), item.ID, dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Chair.fbx"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FBX:Chair.GLB", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResultActionService_ExportRequiresDone(t *testing.T) {
	f := newQueueFixture(t)
	item, err := f.queue.Enqueue(context.Background(), glb("a.glb"))
	require.NoError(t, err)
	actions := NewResultActionService(f.queue, f.previews, t.TempDir())

	_, err = actions.Export(context.Background(), item.ID, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = actions.Export(context.Background(), "missing", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResultActionService_Open(t *testing.T) {
	f := newQueueFixture(t)
	item, err := f.queue.Enqueue(context.Background(), glb("a.glb"))
	require.NoError(t, err)
	require.NoError(t, f.queue.ProcessAll(context.Background()))
	scratch := t.TempDir()
	actions := NewResultActionService(f.queue, f.previews, scratch)
	var opened string
	actions.open = func(path string) error { opened = path; return nil }

	path, err := actions.Open(context.Background(), item.ID)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, item.ID, "a.fbx"), path)
	assert.Equal(t, path, opened)
}
