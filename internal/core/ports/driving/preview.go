package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// PreviewOptions controls how a preview is prepared.
type PreviewOptions struct {
	// RemapMaterials applies the legacy material normaliser. Nil selects
	// the default for the format: on for FBX, off for GLB.
	RemapMaterials *bool
}

// SceneSummary is the presentation data of a normalised scene.
type SceneSummary struct {
	Name      string
	Format    domain.AssetFormat
	Meshes    int
	Materials int
	Vertices  int

	// Size and Center describe the bounding box before normalisation.
	Size   [3]float64
	Center [3]float64

	// Scale is the uniform scale applied to the root.
	Scale float64

	// Remapped reports whether legacy materials were adjusted.
	Remapped bool
}

// Viewer holds one loaded, normalised scene and the resources it decoded.
type Viewer interface {
	// Scene returns the normalised scene.
	Scene() *domain.Scene

	// Summary returns presentation data for the scene.
	Summary() SceneSummary

	// Run calls frame once per interval until the viewer is closed or ctx
	// ends.
	Run(ctx context.Context, interval time.Duration, frame func(tick int)) error

	// Close releases decoded resources. Safe to call more than once.
	// It never releases the preview handle it was loaded from.
	Close() error
}

// PreviewService loads preview handles into viewers.
type PreviewService interface {
	// Load decodes and normalises the content behind handle.
	Load(ctx context.Context, handle domain.PreviewHandle, opts PreviewOptions) (Viewer, error)
}
