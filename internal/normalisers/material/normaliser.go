// Package material remaps legacy (FBX) materials so they render with the
// same matte look as the PBR materials of the source GLB.
package material

import (
	"context"
	"math"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.SceneNormaliser = (*Normaliser)(nil)

// Clamp limits applied by Remap.
const (
	MaxMetalness = 0.1
	MinRoughness = 0.75
	MaxShininess = 20.0
	Specular     = 0.15
)

// Normaliser applies Remap to every material of a scene.
type Normaliser struct{}

// New creates a material normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns "material".
func (n *Normaliser) Name() string {
	return "material"
}

// Normalise fills missing materials with domain.NewDefaultMaterial and
// remaps every other material once, even when shared between meshes.
func (n *Normaliser) Normalise(ctx context.Context, scene *domain.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seen := make(map[*domain.Material]bool)
	for _, mesh := range scene.Meshes() {
		if len(mesh.Materials) == 0 {
			mesh.Materials = []*domain.Material{domain.NewDefaultMaterial()}
			continue
		}
		for i, m := range mesh.Materials {
			if m == nil {
				mesh.Materials[i] = domain.NewDefaultMaterial()
				continue
			}
			if !seen[m] {
				seen[m] = true
				Remap(m)
			}
		}
	}
	return nil
}

// Remap clamps a material towards a low-gloss look. Parameters the
// material does not define are left unset.
func Remap(m *domain.Material) {
	if m.ColorTexture != nil {
		m.ColorTexture.ColorSpace = domain.ColorSpaceSRGB
	}
	if m.Metalness != nil {
		v := math.Min(*m.Metalness, MaxMetalness)
		m.Metalness = &v
	}
	if m.Roughness != nil {
		v := math.Max(*m.Roughness, MinRoughness)
		m.Roughness = &v
	}
	if m.Shininess != nil {
		v := math.Min(*m.Shininess, MaxShininess)
		m.Shininess = &v
	}
	if m.Specular != nil {
		m.Specular = &[3]float64{Specular, Specular, Specular}
	}
}
