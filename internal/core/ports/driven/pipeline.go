package driven

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// NormaliserPipeline chains SceneNormalisers.
type NormaliserPipeline interface {
	// Normalise runs the scene through all normalisers in order and stops
	// at the first error.
	Normalise(ctx context.Context, scene *domain.Scene) error

	// Names returns the normaliser names in execution order.
	Names() []string
}
