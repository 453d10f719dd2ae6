package normalisers

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.NormaliserPipeline = (*Pipeline)(nil)

// Pipeline chains multiple SceneNormalisers and runs them in order.
type Pipeline struct {
	normalisers []driven.SceneNormaliser
}

// NewPipeline creates a pipeline with the given normalisers.
// Normalisers are executed in the order provided.
func NewPipeline(normalisers ...driven.SceneNormaliser) *Pipeline {
	return &Pipeline{
		normalisers: normalisers,
	}
}

// Normalise runs the scene through all normalisers in order.
func (p *Pipeline) Normalise(ctx context.Context, scene *domain.Scene) error {
	if scene == nil {
		return fmt.Errorf("scene is nil")
	}

	for _, n := range p.normalisers {
		if err := n.Normalise(ctx, scene); err != nil {
			return fmt.Errorf("normaliser %s: %w", n.Name(), err)
		}
	}

	return nil
}

// Names returns the normaliser names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.normalisers))
	for i, n := range p.normalisers {
		names[i] = n.Name()
	}
	return names
}

// Add appends a normaliser to the pipeline.
func (p *Pipeline) Add(n driven.SceneNormaliser) {
	p.normalisers = append(p.normalisers, n)
}

// Len returns the number of normalisers in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.normalisers)
}
