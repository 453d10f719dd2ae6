package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// PreviewStore materialises asset bytes behind an ownership handle.
type PreviewStore interface {
	// Create stores data and returns a new handle for it.
	Create(ctx context.Context, name string, format domain.AssetFormat, data []byte) (domain.PreviewHandle, error)

	// Open returns the content behind a handle.
	// Returns domain.ErrNotFound if the handle was released.
	Open(handle domain.PreviewHandle) (io.ReadCloser, error)

	// Release frees the content. Releasing twice is not an error.
	Release(handle domain.PreviewHandle) error
}
