// Package geometry centres and rescales decoded scenes to a canonical size.
package geometry

import (
	"context"
	"math"

	"github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/quaternion"
	"github.com/flywave/go3d/float64/vec3"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.SceneNormaliser = (*Normaliser)(nil)

// TargetSize is the largest bounding-box dimension of a normalised scene.
const TargetSize = 3.0

// minExtent is the smallest largest-dimension that can be rescaled.
const minExtent = 1e-9

// Result describes the fit applied to a scene.
type Result struct {
	// Size is the bounding-box extent before scaling.
	Size [3]float64

	// Center is the bounding-box midpoint before scaling.
	Center [3]float64

	// Scale is the uniform factor now set on the root.
	Scale float64
}

// Normaliser fits scenes so their largest dimension equals the target size
// and their bounding-box centre sits on the origin.
type Normaliser struct {
	target float64
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithTargetSize overrides TargetSize. Non-positive values are ignored.
func WithTargetSize(size float64) Option {
	return func(n *Normaliser) {
		if size > 0 && !math.IsInf(size, 0) {
			n.target = size
		}
	}
}

// New creates a geometry normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{target: TargetSize}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns "geometry".
func (n *Normaliser) Name() string {
	return "geometry"
}

// Target returns the canonical size this normaliser fits to.
func (n *Normaliser) Target() float64 {
	return n.target
}

// Normalise fits the scene in place.
func (n *Normaliser) Normalise(ctx context.Context, scene *domain.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := Fit(scene, n.target)
	return err
}

// Fit measures the scene below its root and sets the root scale to
// target/maxDim and the root translation to -center*scale, so the scaled
// centre lands on the origin. The root rotation is kept and included in the
// measurement. Fitting an already fitted scene changes nothing.
//
// A scene without geometry, with a largest dimension below minExtent or
// with non-finite coordinates yields a *domain.DegenerateInputError and is
// left untouched.
func Fit(scene *domain.Scene, target float64) (Result, error) {
	if scene == nil || scene.Root == nil {
		return Result{}, &domain.DegenerateInputError{}
	}

	root := scene.Root
	rot := quaternion.T(root.Transform.Rotation)
	basis := mat4.Compose(&vec3.Zero, &rot, &vec3.T{1, 1, 1})

	box, found, valid := bounds(root, basis)
	if !found {
		return Result{}, &domain.DegenerateInputError{}
	}

	size := box.Diagonal()
	center := box.Center()
	maxDim := math.Max(size[0], math.Max(size[1], size[2]))
	if !valid || !finite(size) || maxDim < minExtent {
		return Result{}, &domain.DegenerateInputError{Extent: maxDim}
	}

	scale := target / maxDim
	root.Transform.Scale = [3]float64{scale, scale, scale}
	root.Transform.Translation = [3]float64{-center[0] * scale, -center[1] * scale, -center[2] * scale}

	return Result{Size: size, Center: center, Scale: scale}, nil
}

// Bounds returns the world-space bounding box of every mesh position,
// including the root transform. ok is false when the scene has no geometry
// or a coordinate is not finite.
func Bounds(scene *domain.Scene) (box vec3.Box, ok bool) {
	if scene == nil || scene.Root == nil {
		return vec3.Box{}, false
	}
	box, found, valid := bounds(scene.Root, local(scene.Root.Transform))
	return box, found && valid
}

// bounds extends a box with every position below root, where rootWorld
// places the root in world space. valid is false if any transformed
// position is not finite.
func bounds(root *domain.Node, rootWorld *mat4.T) (box vec3.Box, found, valid bool) {
	box = vec3.MinBox
	valid = true

	var visit func(n *domain.Node, world *mat4.T)
	visit = func(n *domain.Node, world *mat4.T) {
		if n.Mesh != nil {
			for _, p := range n.Mesh.Positions {
				v := vec3.T(p)
				w := world.MulVec3(&v)
				if !finite(w) {
					valid = false
					continue
				}
				box.Extend(&w)
				found = true
			}
		}
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			var childWorld mat4.T
			childWorld.AssignMul(world, local(c.Transform))
			visit(c, &childWorld)
		}
	}
	visit(root, rootWorld)
	return box, found, valid
}

func local(t domain.Transform) *mat4.T {
	pos := vec3.T(t.Translation)
	rot := quaternion.T(t.Rotation)
	scale := vec3.T(t.Scale)
	return mat4.Compose(&pos, &rot, &scale)
}

func finite(v vec3.T) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
