// Package fbx decodes binary Autodesk FBX files into scene graphs.
//
// Only the parts of the format needed for previews are read: the model
// hierarchy with local transforms, mesh vertex positions, Lambert/Phong
// materials and their diffuse textures.
package fbx

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/flywave/go3d/float64/quaternion"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.SceneDecoder = (*Decoder)(nil)

// Phong defaults applied when a material omits the property.
const (
	defaultShininess = 30.0
	defaultSpecular  = 0x11 / 255.0
)

// Decoder reads binary FBX files.
type Decoder struct{}

// New creates a new FBX decoder.
func New() *Decoder {
	return &Decoder{}
}

// Format returns domain.FormatFBX.
func (d *Decoder) Format() domain.AssetFormat {
	return domain.FormatFBX
}

// Decode parses a binary FBX stream. Text FBX files are rejected with
// domain.ErrUnsupportedFormat.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*domain.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fbx: %w", err)
	}

	doc, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return build(doc), nil
}

type geometry struct {
	name      string
	positions [][3]float64
}

// graph collects objects by id before connections link them.
type graph struct {
	models     map[int64]*domain.Node
	order      []int64
	geometries map[int64]*geometry
	materials  map[int64]*domain.Material
	textures   map[int64]*domain.Texture

	parent    map[int64]int64
	meshOf    map[int64]int64
	slotsOf   map[int64][]*domain.Material
	hasParent map[int64]bool
}

func build(doc *document) *domain.Scene {
	g := &graph{
		models:     make(map[int64]*domain.Node),
		geometries: make(map[int64]*geometry),
		materials:  make(map[int64]*domain.Material),
		textures:   make(map[int64]*domain.Texture),
		parent:     make(map[int64]int64),
		meshOf:     make(map[int64]int64),
		slotsOf:    make(map[int64][]*domain.Material),
		hasParent:  make(map[int64]bool),
	}

	for _, obj := range doc.find("Objects").items() {
		id, ok := propInt(obj.Props, 0)
		if !ok {
			continue
		}
		name := objectName(propString(obj.Props, 1))

		switch obj.Name {
		case "Model":
			g.models[id] = &domain.Node{Name: name, Transform: modelTransform(obj)}
			g.order = append(g.order, id)
		case "Geometry":
			if v := obj.child("Vertices"); v != nil {
				g.geometries[id] = &geometry{name: name, positions: triples(propFloats(v.Props, 0))}
			}
		case "Material":
			g.materials[id] = material(name, obj)
		case "Texture":
			g.textures[id] = &domain.Texture{Name: textureName(name, obj), ColorSpace: domain.ColorSpaceLinear}
		}
	}

	root := domain.NewNode("")
	var roots []int64
	for _, c := range doc.find("Connections").children("C") {
		kind := propString(c.Props, 0)
		child, ok1 := propInt(c.Props, 1)
		parent, ok2 := propInt(c.Props, 2)
		if !ok1 || !ok2 {
			continue
		}

		switch {
		case g.models[child] != nil && parent == 0:
			if !g.hasParent[child] {
				g.hasParent[child] = true
				roots = append(roots, child)
			}
		case g.models[child] != nil && g.models[parent] != nil:
			if !g.hasParent[child] && !g.isAncestor(child, parent) {
				g.hasParent[child] = true
				g.parent[child] = parent
				g.models[parent].AddChild(g.models[child])
			}
		case g.geometries[child] != nil && g.models[parent] != nil:
			g.meshOf[parent] = child
		case g.materials[child] != nil && g.models[parent] != nil:
			g.slotsOf[parent] = append(g.slotsOf[parent], g.materials[child])
		case g.textures[child] != nil && g.materials[parent] != nil:
			prop := propString(c.Props, 3)
			if kind == "OO" || prop == "DiffuseColor" || prop == "Diffuse" {
				tex := *g.textures[child]
				g.materials[parent].ColorTexture = &tex
			}
		}
	}

	for _, id := range g.order {
		if geomID, ok := g.meshOf[id]; ok {
			geom := g.geometries[geomID]
			g.models[id].Mesh = &domain.Mesh{
				Name:      geom.name,
				Positions: geom.positions,
				Materials: g.slotsOf[id],
			}
		}
		if !g.hasParent[id] {
			roots = append(roots, id)
		}
	}
	for _, id := range roots {
		root.AddChild(g.models[id])
	}

	return &domain.Scene{Format: domain.FormatFBX, Root: root}
}

// isAncestor reports whether candidate is node itself or one of its
// ancestors, which would make linking node under candidate a cycle.
func (g *graph) isAncestor(candidate, node int64) bool {
	for cur, seen := node, 0; seen <= len(g.parent); seen++ {
		if cur == candidate {
			return true
		}
		next, ok := g.parent[cur]
		if !ok {
			return false
		}
		cur = next
	}
	return true
}

// items returns a record's children, tolerating a missing record.
func (r *record) items() []*record {
	if r == nil {
		return nil
	}
	return r.Children
}

// objectName strips the "\x00\x01Class" suffix binary FBX appends to names.
func objectName(s string) string {
	if i := strings.Index(s, "\x00\x01"); i >= 0 {
		return s[:i]
	}
	return s
}

func triples(values []float64) [][3]float64 {
	out := make([][3]float64, 0, len(values)/3)
	for i := 0; i+2 < len(values); i += 3 {
		out = append(out, [3]float64{values[i], values[i+1], values[i+2]})
	}
	return out
}

// properties70 maps property names to their value list.
func properties70(r *record) map[string][]any {
	out := make(map[string][]any)
	for _, p := range r.child("Properties70").children("P") {
		if len(p.Props) >= 4 {
			out[propString(p.Props, 0)] = p.Props[4:]
		}
	}
	return out
}

func vecProp(props map[string][]any, name string, def [3]float64) ([3]float64, bool) {
	values, ok := props[name]
	if !ok || len(values) < 3 {
		return def, false
	}
	var v [3]float64
	for i := range v {
		f, ok := propFloat(values, i)
		if !ok {
			return def, false
		}
		v[i] = f
	}
	return v, true
}

func scalarProp(props map[string][]any, name string) (float64, bool) {
	values, ok := props[name]
	if !ok {
		return 0, false
	}
	return propFloat(values, 0)
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}

// eulerXYZ converts FBX Euler angles in degrees, applied X then Y then Z.
func eulerXYZ(deg [3]float64) quaternion.T {
	qx := quaternion.FromXAxisAngle(degrees(deg[0]))
	qy := quaternion.FromYAxisAngle(degrees(deg[1]))
	qz := quaternion.FromZAxisAngle(degrees(deg[2]))
	return quaternion.Mul3(&qz, &qy, &qx)
}

func modelTransform(r *record) domain.Transform {
	props := properties70(r)
	t := domain.IdentityTransform()
	t.Translation, _ = vecProp(props, "Lcl Translation", t.Translation)
	t.Scale, _ = vecProp(props, "Lcl Scaling", t.Scale)

	rot, hasRot := vecProp(props, "Lcl Rotation", [3]float64{})
	pre, hasPre := vecProp(props, "PreRotation", [3]float64{})
	if hasRot || hasPre {
		qPre := eulerXYZ(pre)
		qRot := eulerXYZ(rot)
		t.Rotation = quaternion.Mul(&qPre, &qRot)
	}
	return t
}

func material(name string, r *record) *domain.Material {
	props := properties70(r)
	m := &domain.Material{Name: name, Kind: domain.MaterialPhong}
	if sm := r.child("ShadingModel"); sm != nil && strings.EqualFold(propString(sm.Props, 0), "lambert") {
		m.Kind = domain.MaterialLambert
	}

	m.Color = [3]float64{1, 1, 1}
	if c, ok := vecProp(props, "DiffuseColor", m.Color); ok {
		m.Color = c
	} else if c, ok := vecProp(props, "Diffuse", m.Color); ok {
		m.Color = c
	}

	if m.Kind != domain.MaterialPhong {
		return m
	}

	shininess := defaultShininess
	if v, ok := scalarProp(props, "ShininessExponent"); ok {
		shininess = v
	} else if v, ok := scalarProp(props, "Shininess"); ok {
		shininess = v
	}
	m.Shininess = &shininess

	specular := [3]float64{defaultSpecular, defaultSpecular, defaultSpecular}
	if c, ok := vecProp(props, "SpecularColor", specular); ok {
		specular = c
	} else if c, ok := vecProp(props, "Specular", specular); ok {
		specular = c
	}
	m.Specular = &specular
	return m
}

// textureName prefers the referenced file's base name over the object name.
func textureName(name string, r *record) string {
	for _, field := range []string{"RelativeFilename", "FileName"} {
		if f := r.child(field); f != nil {
			if s := propString(f.Props, 0); s != "" {
				s = strings.ReplaceAll(s, "\\", "/")
				return s[strings.LastIndex(s, "/")+1:]
			}
		}
	}
	return name
}
