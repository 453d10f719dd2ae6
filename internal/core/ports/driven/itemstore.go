package driven

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ItemStore persists conversion items so the queue survives across
// CLI invocations. Items are stored whole; Save replaces by ID.
type ItemStore interface {
	// Save inserts or replaces an item.
	Save(ctx context.Context, item domain.ConversionItem) error

	// Get retrieves an item by ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (domain.ConversionItem, error)

	// List returns all items in insertion order.
	List(ctx context.Context) ([]domain.ConversionItem, error)

	// Delete removes an item. Deleting an absent item is not an error.
	Delete(ctx context.Context, id string) error
}
