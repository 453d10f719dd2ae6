package material

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func sceneWith(meshes ...*domain.Mesh) *domain.Scene {
	root := domain.NewNode("root")
	for _, m := range meshes {
		root.AddChild(&domain.Node{Name: m.Name, Transform: domain.IdentityTransform(), Mesh: m})
	}
	return &domain.Scene{Root: root}
}

func TestNew(t *testing.T) {
	assert.Equal(t, "material", New().Name())
}

func TestRemap_Phong(t *testing.T) {
	m := &domain.Material{
		Kind:         domain.MaterialPhong,
		ColorTexture: &domain.Texture{Name: "wood.tga", ColorSpace: domain.ColorSpaceLinear},
		Shininess:    ptr(80.0),
		Specular:     &[3]float64{0.9, 0.8, 0.7},
	}

	Remap(m)

	assert.Equal(t, domain.ColorSpaceSRGB, m.ColorTexture.ColorSpace)
	assert.Equal(t, 20.0, *m.Shininess)
	assert.Equal(t, [3]float64{0.15, 0.15, 0.15}, *m.Specular)
	assert.Nil(t, m.Metalness, "undefined parameters stay undefined")
	assert.Nil(t, m.Roughness)
}

func TestRemap_PBR(t *testing.T) {
	m := &domain.Material{Kind: domain.MaterialPBR, Metalness: ptr(1.0), Roughness: ptr(0.2)}

	Remap(m)

	assert.Equal(t, 0.1, *m.Metalness)
	assert.Equal(t, 0.75, *m.Roughness)
	assert.Nil(t, m.Shininess)
	assert.Nil(t, m.Specular)
}

func TestRemap_KeepsValuesInsideLimits(t *testing.T) {
	m := &domain.Material{Metalness: ptr(0.05), Roughness: ptr(0.9), Shininess: ptr(5.0)}

	Remap(m)

	assert.Equal(t, 0.05, *m.Metalness)
	assert.Equal(t, 0.9, *m.Roughness)
	assert.Equal(t, 5.0, *m.Shininess)
}

func TestNormalise_FillsMissingMaterials(t *testing.T) {
	bare := &domain.Mesh{Name: "bare"}
	holes := &domain.Mesh{Name: "holes", Materials: []*domain.Material{nil, {Name: "x", Roughness: ptr(0.0)}}}
	scene := sceneWith(bare, holes)

	require.NoError(t, New().Normalise(context.Background(), scene))

	require.Len(t, bare.Materials, 1)
	assert.Equal(t, "default", bare.Materials[0].Name)
	assert.Equal(t, [3]float64{0.8, 0.8, 0.8}, bare.Materials[0].Color)

	require.Len(t, holes.Materials, 2)
	assert.Equal(t, "default", holes.Materials[0].Name)
	assert.Equal(t, 0.75, *holes.Materials[1].Roughness)
}

func TestNormalise_DefaultMaterialIsNotClamped(t *testing.T) {
	bare := &domain.Mesh{Name: "bare"}

	require.NoError(t, New().Normalise(context.Background(), sceneWith(bare)))

	def := domain.NewDefaultMaterial()
	assert.Equal(t, *def.Roughness, *bare.Materials[0].Roughness)
	assert.Equal(t, *def.Metalness, *bare.Materials[0].Metalness)
}

func TestNormalise_SharedMaterial(t *testing.T) {
	shared := &domain.Material{Name: "shared", Specular: &[3]float64{1, 1, 1}}
	a := &domain.Mesh{Name: "a", Materials: []*domain.Material{shared}}
	b := &domain.Mesh{Name: "b", Materials: []*domain.Material{shared}}

	require.NoError(t, New().Normalise(context.Background(), sceneWith(a, b)))

	assert.Same(t, a.Materials[0], b.Materials[0])
	assert.Equal(t, [3]float64{0.15, 0.15, 0.15}, *shared.Specular)
}

func TestNormalise_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bare := &domain.Mesh{Name: "bare"}
	err := New().Normalise(ctx, sceneWith(bare))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bare.Materials)
}

func TestProperty_ClampsAreMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rough := rapid.Float64Range(0, 1).Draw(rt, "roughness")
		metal := rapid.Float64Range(-10, 10).Draw(rt, "metalness")
		shine := rapid.Float64Range(0, 1000).Draw(rt, "shininess")

		m := &domain.Material{Roughness: ptr(rough), Metalness: ptr(metal), Shininess: ptr(shine)}
		Remap(m)

		assert.Equal(rt, max(rough, MinRoughness), *m.Roughness)
		assert.Equal(rt, min(metal, MaxMetalness), *m.Metalness)
		assert.Equal(rt, min(shine, MaxShininess), *m.Shininess)

		// Remapping twice changes nothing.
		again := *m
		Remap(&again)
		assert.Equal(rt, *m.Roughness, *again.Roughness)
		assert.Equal(rt, *m.Metalness, *again.Metalness)
	})
}
