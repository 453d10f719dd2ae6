package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
	"github.com/custodia-labs/pipe3d/internal/normalisers"
	"github.com/custodia-labs/pipe3d/internal/normalisers/geometry"
)

// Ensure PreviewService implements the interface.
var _ driving.PreviewService = (*PreviewService)(nil)

// PreviewService decodes preview handles and normalises the resulting scenes.
type PreviewService struct {
	previews driven.PreviewStore
	decoders driven.DecoderRegistry
	geometry driven.SceneNormaliser
	material driven.SceneNormaliser
}

// NewPreviewService creates a preview service. geometry fits every scene;
// material is applied according to PreviewOptions.
func NewPreviewService(
	previews driven.PreviewStore,
	decoders driven.DecoderRegistry,
	geometry, material driven.SceneNormaliser,
) *PreviewService {
	return &PreviewService{
		previews: previews,
		decoders: decoders,
		geometry: geometry,
		material: material,
	}
}

// Load decodes the content behind handle and normalises it. The handle
// stays owned by its item; the returned viewer only borrows it.
func (s *PreviewService) Load(ctx context.Context, handle domain.PreviewHandle, opts driving.PreviewOptions) (driving.Viewer, error) {
	if handle.IsZero() {
		return nil, fmt.Errorf("%w: empty preview handle", domain.ErrInvalidInput)
	}

	rc, err := s.previews.Open(handle)
	if err != nil {
		return nil, err
	}
	scene, err := s.decoders.Decode(ctx, handle.Format, rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", handle.Name, err)
	}
	if scene.Name == "" {
		scene.Name = handle.Name
	}

	summary := summarise(scene)
	summary.Name = handle.Name

	remap := handle.Format.IsLegacy()
	if opts.RemapMaterials != nil {
		remap = *opts.RemapMaterials
	}

	pipeline := normalisers.NewPipeline()
	if remap && s.material != nil {
		pipeline.Add(s.material)
	}
	pipeline.Add(s.geometry)

	if err := pipeline.Normalise(ctx, scene); err != nil {
		if !errors.Is(err, domain.ErrDegenerateInput) {
			return nil, err
		}
		logger.Warn("Showing %s unscaled: %v", handle.Name, err)
	}

	summary.Scale = scene.Root.Transform.Scale[0]
	summary.Remapped = remap
	logger.Debug("Loaded preview %s (%s, %d meshes, scale %.4f)", handle.Name, handle.Format, summary.Meshes, summary.Scale)

	return newViewer(scene, summary), nil
}

// summarise counts scene contents and measures it before normalisation.
func summarise(scene *domain.Scene) driving.SceneSummary {
	summary := driving.SceneSummary{Format: scene.Format, Scale: 1}
	meshes := scene.Meshes()
	summary.Meshes = len(meshes)
	for _, m := range meshes {
		summary.Vertices += len(m.Positions)
	}
	summary.Materials = len(scene.Materials())

	if box, ok := geometry.Bounds(scene); ok {
		summary.Size = box.Diagonal()
		summary.Center = box.Center()
	}
	return summary
}

// viewer holds a loaded scene until closed.
type viewer struct {
	mu       sync.Mutex
	scene    *domain.Scene
	summary  driving.SceneSummary
	disposal []func()
	done     chan struct{}
	once     sync.Once
}

func newViewer(scene *domain.Scene, summary driving.SceneSummary) *viewer {
	v := &viewer{
		scene:   scene,
		summary: summary,
		done:    make(chan struct{}),
	}
	v.dispose(func() {
		v.mu.Lock()
		v.scene = nil
		v.mu.Unlock()
	})
	return v
}

// dispose registers fn to run on Close, in reverse registration order.
func (v *viewer) dispose(fn func()) {
	v.disposal = append(v.disposal, fn)
}

func (v *viewer) Scene() *domain.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}

func (v *viewer) Summary() driving.SceneSummary {
	return v.summary
}

func (v *viewer) Run(ctx context.Context, interval time.Duration, frame func(tick int)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: frame interval must be positive", domain.ErrInvalidInput)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for tick := 0; ; tick++ {
		select {
		case <-v.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			frame(tick)
		}
	}
}

func (v *viewer) Close() error {
	v.once.Do(func() {
		close(v.done)
		for i := len(v.disposal) - 1; i >= 0; i-- {
			v.disposal[i]()
		}
		v.disposal = nil
	})
	return nil
}
