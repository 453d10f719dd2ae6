package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func testItem(id, name string) domain.ConversionItem {
	return domain.NewConversionItem(id, domain.SourceRef{Name: name}, domain.PreviewHandle{ID: "p-" + id}, time.Now())
}

func TestItemStore_SaveGet(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testItem("a", "a.glb")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a.glb", got.Source.Name)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_ReplaceKeepsPosition(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testItem("a", "a.glb")))
	require.NoError(t, store.Save(ctx, testItem("b", "b.glb")))

	started, err := testItem("a", "a.glb").Start(time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, started))

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, domain.StatusConverting, items[0].Status)
	assert.Equal(t, "b", items[1].ID)
}

func TestItemStore_Delete(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, testItem(id, id+".glb")))
	}

	require.NoError(t, store.Delete(ctx, "b"))
	require.NoError(t, store.Delete(ctx, "missing"))

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}
