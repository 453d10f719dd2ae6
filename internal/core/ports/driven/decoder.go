package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// SceneDecoder parses one asset format into a scene graph.
type SceneDecoder interface {
	// Format returns the asset format this decoder reads.
	Format() domain.AssetFormat

	// Decode reads a complete asset from r.
	Decode(ctx context.Context, r io.Reader) (*domain.Scene, error)
}
