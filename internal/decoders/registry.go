// Package decoders selects the scene decoder for an asset format.
// Format-specific decoders live in the glb and fbx subpackages.
package decoders

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/decoders/fbx"
	"github.com/custodia-labs/pipe3d/internal/decoders/glb"
)

// Ensure Registry implements the interface.
var _ driven.DecoderRegistry = (*Registry)(nil)

// Registry maps asset formats to their decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[domain.AssetFormat]driven.SceneDecoder
}

// NewRegistry creates a registry holding the given decoders.
func NewRegistry(decoders ...driven.SceneDecoder) *Registry {
	r := &Registry{decoders: make(map[domain.AssetFormat]driven.SceneDecoder)}
	for _, d := range decoders {
		r.Register(d)
	}
	return r
}

// NewDefaultRegistry creates a registry with the built-in GLB and FBX decoders.
func NewDefaultRegistry() *Registry {
	return NewRegistry(glb.New(), fbx.New())
}

// Register adds a decoder, replacing any previous one for its format.
func (r *Registry) Register(decoder driven.SceneDecoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[decoder.Format()] = decoder
}

// Decode reads r with the decoder registered for format.
func (r *Registry) Decode(ctx context.Context, format domain.AssetFormat, src io.Reader) (*domain.Scene, error) {
	r.mu.RLock()
	decoder, ok := r.decoders[format]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", domain.ErrUnsupportedFormat, format)
	}
	return decoder.Decode(ctx, src)
}

// SupportedFormats returns the registered formats in name order.
func (r *Registry) SupportedFormats() []domain.AssetFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.AssetFormat, 0, len(r.decoders))
	for f := range r.decoders {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
