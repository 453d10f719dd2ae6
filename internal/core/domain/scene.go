package domain

// Transform is a node's local translation, rotation and scale.
// Rotation is a unit quaternion in (x, y, z, w) order.
type Transform struct {
	Translation [3]float64
	Rotation    [4]float64
	Scale       [3]float64
}

// IdentityTransform returns the neutral transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
}

// Node is an element of the scene hierarchy.
type Node struct {
	Name      string
	Transform Transform
	Mesh      *Mesh
	Children  []*Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: IdentityTransform()}
}

// AddChild appends child and returns it.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Mesh is renderable geometry. Positions are in node-local space.
type Mesh struct {
	Name      string
	Positions [][3]float64

	// Materials holds one slot per primitive/group. A nil slot means the
	// source file did not assign a material.
	Materials []*Material
}

// MaterialKind identifies the shading model of a material.
type MaterialKind string

// Material kinds.
const (
	MaterialPBR     MaterialKind = "pbr"
	MaterialPhong   MaterialKind = "phong"
	MaterialLambert MaterialKind = "lambert"
	MaterialBasic   MaterialKind = "basic"
)

// ColorSpace is the interpretation of texture colour values.
type ColorSpace string

// Colour spaces.
const (
	ColorSpaceLinear ColorSpace = "linear"
	ColorSpaceSRGB   ColorSpace = "srgb"
)

// Texture is an image bound to a material channel.
type Texture struct {
	Name       string
	ColorSpace ColorSpace
}

// Material describes surface appearance. Optional parameters are nil when
// the shading model does not define them.
type Material struct {
	Name  string
	Kind  MaterialKind
	Color [3]float64

	// ColorTexture is the base/diffuse colour map, if any.
	ColorTexture *Texture

	Metalness *float64
	Roughness *float64
	Shininess *float64
	Specular  *[3]float64
}

// NewDefaultMaterial returns the neutral grey material given to meshes that
// arrive without one.
func NewDefaultMaterial() *Material {
	metal, rough := 0.0, 1.0
	return &Material{
		Name:      "default",
		Kind:      MaterialPBR,
		Color:     [3]float64{0.8, 0.8, 0.8},
		Metalness: &metal,
		Roughness: &rough,
	}
}

// Scene is a decoded scene graph.
type Scene struct {
	Name   string
	Format AssetFormat
	Root   *Node
}

// Walk visits every node depth-first, parents before children.
func (s *Scene) Walk(fn func(n *Node)) {
	if s == nil || s.Root == nil {
		return
	}
	var visit func(n *Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			if c != nil {
				visit(c)
			}
		}
	}
	visit(s.Root)
}

// Meshes returns every mesh in traversal order.
func (s *Scene) Meshes() []*Mesh {
	var meshes []*Mesh
	s.Walk(func(n *Node) {
		if n.Mesh != nil {
			meshes = append(meshes, n.Mesh)
		}
	})
	return meshes
}

// Materials returns the distinct non-nil materials referenced by meshes.
func (s *Scene) Materials() []*Material {
	seen := make(map[*Material]bool)
	var out []*Material
	for _, m := range s.Meshes() {
		for _, mat := range m.Materials {
			if mat != nil && !seen[mat] {
				seen[mat] = true
				out = append(out, mat)
			}
		}
	}
	return out
}
