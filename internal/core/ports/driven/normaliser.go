package driven

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// SceneNormaliser mutates a decoded scene in place so previews of different
// formats are visually comparable.
type SceneNormaliser interface {
	// Name returns the normaliser name for logging.
	Name() string

	// Normalise adjusts the scene. On error the scene must be left untouched.
	Normalise(ctx context.Context, scene *domain.Scene) error
}
