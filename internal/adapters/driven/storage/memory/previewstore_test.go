package memory

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func TestPreviewStore_Lifecycle(t *testing.T) {
	store := NewPreviewStore()
	data := []byte{1, 2, 3}

	handle, err := store.Create(context.Background(), "a.glb", domain.FormatGLB, data)
	require.NoError(t, err)
	data[0] = 9 // caller's buffer must not alias stored content
	assert.Equal(t, 1, store.Live())

	rc, err := store.Open(handle)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	require.NoError(t, store.Release(handle))
	require.NoError(t, store.Release(handle))
	assert.Equal(t, 2, store.Releases(handle))
	assert.Equal(t, 0, store.Live())

	_, err = store.Open(handle)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfigStore_SetErr(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))
	assert.Equal(t, "v", store.GetString("k"))
	_, ok := store.GetFloat("k")
	assert.False(t, ok)

	store.SetErr = assert.AnError
	assert.ErrorIs(t, store.Set("k", "w"), assert.AnError)
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("int", 4))
	require.NoError(t, store.Set("float", 2.5))

	f, ok := store.GetFloat("int")
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	f, ok = store.GetFloat("float")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = store.GetFloat("missing")
	assert.False(t, ok)
}
