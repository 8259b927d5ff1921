// Package svgscene defines the scene graph produced
// by compiling an SVG document: an arena of transformed nodes
// carrying drawables (paths, shapes, rectangles), with
// their fills and strokes.
package svgscene

// NodeID addresses a node in the Scene arena.
type NodeID int

// NoNode is used for absent node references.
const NoNode NodeID = -1

// Node is a transformed group of drawables.
// Children are indices in the arena: the same node may be
// referenced by several parents (through <use> elements),
// so the scene is a DAG rather than a tree.
type Node struct {
	Transform Matrix2D
	Children  []NodeID
	Drawables []Drawable
	Clipper   NodeID // NoNode for unclipped nodes
}

// Scene owns all the nodes of a compiled document.
type Scene struct {
	Nodes []Node
	Root  NodeID

	// Titles and Descriptions gather the text of <title>
	// and <desc> elements, in document order.
	Titles       []string
	Descriptions []string
}

// NodeOpacities stores the opacity of the nodes
// for which it is not 1.
type NodeOpacities map[NodeID]float64

// Opacity returns the opacity of `id`, defaulting to 1.
func (no NodeOpacities) Opacity(id NodeID) float64 {
	if op, ok := no[id]; ok {
		return op
	}
	return 1
}

// NewScene returns a scene with an empty root node.
func NewScene() *Scene {
	s := &Scene{}
	s.Root = s.NewNode()
	return s
}

// NewNode allocates a new detached node, with an identity transform.
func (s *Scene) NewNode() NodeID {
	s.Nodes = append(s.Nodes, Node{Transform: Identity, Clipper: NoNode})
	return NodeID(len(s.Nodes) - 1)
}

// Node returns a pointer to the node `id`, valid until
// the next call to NewNode.
func (s *Scene) Node(id NodeID) *Node { return &s.Nodes[id] }

// AddChild appends `child` to the children of `parent`.
func (s *Scene) AddChild(parent, child NodeID) {
	p := &s.Nodes[parent]
	p.Children = append(p.Children, child)
}
