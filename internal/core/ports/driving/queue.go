package driving

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ConversionQueue tracks submitted assets and drains them through the
// conversion client one at a time.
type ConversionQueue interface {
	// Enqueue submits one .glb file. The item starts pending with its
	// source preview handle already created.
	// Returns domain.ErrUnsupportedFormat for any other extension.
	Enqueue(ctx context.Context, file domain.SourceFile) (domain.ConversionItem, error)

	// EnqueueAll submits files in order, skipping non-.glb names.
	// Returns the accepted items and the names that were skipped.
	EnqueueAll(ctx context.Context, files []domain.SourceFile) ([]domain.ConversionItem, []string, error)

	// ProcessAll converts every item still pending when visited, in
	// insertion order, one at a time. Conversion failures are recorded on
	// the item and never abort the drain.
	// Returns domain.ErrQueueBusy if a drain is already running.
	ProcessAll(ctx context.Context) error

	// IsProcessing reports whether a drain is running.
	IsProcessing() bool

	// Items returns a snapshot of all items in insertion order.
	Items() []domain.ConversionItem

	// Get returns a single item.
	// Returns domain.ErrNotFound if absent.
	Get(id string) (domain.ConversionItem, error)

	// Remove disposes of an item and releases its preview handles.
	// Returns domain.ErrItemBusy while the item is converting.
	Remove(ctx context.Context, id string) error

	// Clear removes every done or errored item. Returns the number removed.
	Clear(ctx context.Context) (int, error)

	// Subscribe registers fn to receive every replaced item record, in
	// order. The returned function unsubscribes.
	Subscribe(fn func(domain.ConversionItem)) (unsubscribe func())
}
