// Package glb decodes binary glTF 2.0 assets into scene graphs.
package glb

import (
	"context"
	"fmt"
	"io"

	"github.com/flywave/go3d/float64/mat4"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.SceneDecoder = (*Decoder)(nil)

// maxDepth bounds node recursion.
const maxDepth = 256

// Decoder reads GLB files with qmuntal/gltf.
type Decoder struct{}

// New creates a new GLB decoder.
func New() *Decoder {
	return &Decoder{}
}

// Format returns domain.FormatGLB.
func (d *Decoder) Format() domain.AssetFormat {
	return domain.FormatGLB
}

// Decode parses a GLB stream into a scene rooted at a synthetic node that
// holds the default scene's root nodes.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*domain.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: glb: %v", domain.ErrInvalidInput, err)
	}

	b := &builder{
		doc:       doc,
		materials: make(map[int]*domain.Material),
		built:     make(map[int]bool, len(doc.Nodes)),
	}

	name, roots := sceneRoots(doc)
	root := domain.NewNode(name)
	for _, idx := range roots {
		node, err := b.node(idx, 0)
		if err != nil {
			return nil, err
		}
		root.AddChild(node)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &domain.Scene{Name: name, Format: domain.FormatGLB, Root: root}, nil
}

// sceneRoots picks the default scene, then the first scene, then every node
// that is nobody's child.
func sceneRoots(doc *gltf.Document) (string, []int) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		s := doc.Scenes[idx]
		return s.Name, s.Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return "", roots
}

type builder struct {
	doc       *gltf.Document
	materials map[int]*domain.Material
	// built records node indices already placed in the tree. A node may
	// have only one parent, so each index is built at most once and the
	// output never holds more nodes than the document declares.
	built map[int]bool
}

func (b *builder) node(idx, depth int) (*domain.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: glb: node index %d out of range", domain.ErrInvalidInput, idx)
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: glb: node hierarchy deeper than %d", domain.ErrInvalidInput, maxDepth)
	}
	if b.built[idx] {
		return nil, fmt.Errorf("%w: glb: node %d is referenced more than once", domain.ErrInvalidInput, idx)
	}
	b.built[idx] = true

	src := b.doc.Nodes[idx]
	node := &domain.Node{Name: src.Name, Transform: transform(src)}

	if src.Mesh != nil {
		mesh, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, err
		}
		node.Mesh = mesh
	}

	for _, c := range src.Children {
		child, err := b.node(c, depth+1)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// transform prefers an explicit matrix, decomposed into TRS, over the
// node's separate translation, rotation and scale properties.
func transform(n *gltf.Node) domain.Transform {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		mat := mat4.FromArray(m)
		pos, rot, scale := mat4.Decompose(&mat)
		return domain.Transform{
			Translation: *pos,
			Rotation:    *rot,
			Scale:       *scale,
		}
	}
	return domain.Transform{
		Translation: n.TranslationOrDefault(),
		Rotation:    n.RotationOrDefault(),
		Scale:       n.ScaleOrDefault(),
	}
}

func (b *builder) mesh(idx int) (*domain.Mesh, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("%w: glb: mesh index %d out of range", domain.ErrInvalidInput, idx)
	}
	src := b.doc.Meshes[idx]
	mesh := &domain.Mesh{Name: src.Name}

	var buf [][3]float32
	for _, prim := range src.Primitives {
		if acc, ok := prim.Attributes[gltf.POSITION]; ok {
			if acc < 0 || acc >= len(b.doc.Accessors) {
				return nil, fmt.Errorf("%w: glb: accessor index %d out of range", domain.ErrInvalidInput, acc)
			}
			positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[acc], buf[:0])
			if err != nil {
				return nil, fmt.Errorf("%w: glb: positions of mesh %q: %v", domain.ErrInvalidInput, src.Name, err)
			}
			buf = positions
			for _, p := range positions {
				mesh.Positions = append(mesh.Positions, [3]float64{float64(p[0]), float64(p[1]), float64(p[2])})
			}
		}

		var mat *domain.Material
		if prim.Material != nil {
			mat = b.material(*prim.Material)
		}
		mesh.Materials = append(mesh.Materials, mat)
	}
	return mesh, nil
}

// material converts a glTF material once and shares it between primitives.
func (b *builder) material(idx int) *domain.Material {
	if m, ok := b.materials[idx]; ok {
		return m
	}
	if idx < 0 || idx >= len(b.doc.Materials) {
		return nil
	}

	src := b.doc.Materials[idx]
	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		pbr = &gltf.PBRMetallicRoughness{}
	}

	base := pbr.BaseColorFactorOrDefault()
	metal := pbr.MetallicFactorOrDefault()
	rough := pbr.RoughnessFactorOrDefault()
	m := &domain.Material{
		Name:      src.Name,
		Kind:      domain.MaterialPBR,
		Color:     [3]float64{base[0], base[1], base[2]},
		Metalness: &metal,
		Roughness: &rough,
	}
	if pbr.BaseColorTexture != nil {
		m.ColorTexture = &domain.Texture{
			Name:       b.textureName(pbr.BaseColorTexture.Index),
			ColorSpace: domain.ColorSpaceSRGB,
		}
	}

	b.materials[idx] = m
	return m
}

func (b *builder) textureName(idx int) string {
	if idx < 0 || idx >= len(b.doc.Textures) {
		return fmt.Sprintf("texture_%d", idx)
	}
	tex := b.doc.Textures[idx]
	if tex.Name != "" {
		return tex.Name
	}
	if tex.Source != nil && *tex.Source >= 0 && *tex.Source < len(b.doc.Images) {
		img := b.doc.Images[*tex.Source]
		if img.Name != "" {
			return img.Name
		}
		if img.URI != "" && !img.IsEmbeddedResource() {
			return img.URI
		}
	}
	return fmt.Sprintf("texture_%d", idx)
}
