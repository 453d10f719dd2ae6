package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func TestAddCmd_RequiresArgs(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "add")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAddCmd_QueuesGLBAndReportsSkipped(t *testing.T) {
	env := setupTestServices(t)
	paths := writeFiles(t, "chair.glb", "notes.txt")

	out, err := execute(t, append([]string{"add"}, paths...)...)

	require.NoError(t, err)
	assert.Contains(t, out, "Queued chair.glb")
	assert.Contains(t, out, "Skipped notes.txt")
	items := env.queue.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.StatusPending, items[0].Status)
}

func TestAddCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "add", "/does/not/exist.glb")

	assert.Error(t, err)
}

func TestAddCmd_RunConvertsImmediately(t *testing.T) {
	env := setupTestServices(t)
	paths := writeFiles(t, "a.glb", "bad.glb")

	out, err := execute(t, "add", "--run", paths[0], paths[1])

	require.NoError(t, err)
	assert.Contains(t, out, "✓ a.glb → a.fbx")
	assert.Contains(t, out, "✗ bad.glb: Local conversion failed")
	assert.Contains(t, out, "Converted 1, failed 1.")
	items := env.queue.Items()
	assert.Equal(t, domain.StatusDone, items[0].Status)
	assert.Equal(t, domain.StatusError, items[1].Status)
}

func TestRunCmd_NothingPending(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "run")

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to convert.")
}

func TestListCmd_Formats(t *testing.T) {
	env := setupTestServices(t)
	_, err := env.queue.Enqueue(context.Background(), domain.SourceFile{Name: "a.glb", Data: []byte("x")})
	require.NoError(t, err)
	_, err = env.queue.Enqueue(context.Background(), domain.SourceFile{Name: "bad.glb", Data: []byte("x")})
	require.NoError(t, err)
	require.NoError(t, env.queue.ProcessAll(context.Background()))

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "STATUS")
		assert.Contains(t, out, "a.glb → a.fbx")
		assert.Contains(t, out, "bad.glb (Local conversion failed)")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "list", "-o", "json")
		require.NoError(t, err)

		var records []itemRecord
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "a.fbx", records[0].Result)
		assert.Equal(t, "error", records[1].Status)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "list", "--output", "yaml")
		require.NoError(t, err)

		var records []itemRecord
		require.NoError(t, yaml.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)
		assert.Equal(t, "Local conversion failed", records[1].Error)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := execute(t, "list", "-o", "xml")
		assert.Error(t, err)
		listOutput = "table"
	})
}

func TestListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "list", "-o", "table")

	require.NoError(t, err)
	assert.Contains(t, out, "Queue is empty.")
}

func TestRemoveCmd(t *testing.T) {
	env := setupTestServices(t)
	item, err := env.queue.Enqueue(context.Background(), domain.SourceFile{Name: "a.glb", Data: []byte("x")})
	require.NoError(t, err)

	out, err := execute(t, "remove", item.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+item.ID)
	assert.Empty(t, env.queue.Items())

	_, err = execute(t, "remove", item.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClearCmd(t *testing.T) {
	env := setupTestServices(t)
	for _, name := range []string{"a.glb", "bad.glb"} {
		_, err := env.queue.Enqueue(context.Background(), domain.SourceFile{Name: name, Data: []byte("x")})
		require.NoError(t, err)
	}
	require.NoError(t, env.queue.ProcessAll(context.Background()))
	_, err := env.queue.Enqueue(context.Background(), domain.SourceFile{Name: "c.glb", Data: []byte("x")})
	require.NoError(t, err)

	out, err := execute(t, "clear")

	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 finished item(s)")
	require.Len(t, env.queue.Items(), 1)
	assert.Equal(t, "c.glb", env.queue.Items()[0].Source.Name)
}
