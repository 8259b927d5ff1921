package svgscene

// NodeWorldTransform is one visit of a node during a depth first walk.
type NodeWorldTransform struct {
	Node           NodeID
	Parent         NodeID // NoNode for the root
	WorldTransform Matrix2D
	WorldOpacity   float64
}

// WorldTransformedNodes walks the scene from its root and returns,
// in pre-order, one entry for every path reaching a node: a node shared
// by several <use> elements is visited once per reference.
// References creating a cycle are not followed.
// Clippers are not walked.
func (s *Scene) WorldTransformedNodes(opacities NodeOpacities) []NodeWorldTransform {
	var (
		out    []NodeWorldTransform
		onPath = map[NodeID]bool{}
	)
	var walk func(id, parent NodeID, world Matrix2D, opacity float64)
	walk = func(id, parent NodeID, world Matrix2D, opacity float64) {
		if onPath[id] {
			return
		}
		onPath[id] = true
		defer delete(onPath, id)

		node := &s.Nodes[id]
		world = world.Mult(node.Transform)
		opacity *= opacities.Opacity(id)
		out = append(out, NodeWorldTransform{Node: id, Parent: parent, WorldTransform: world, WorldOpacity: opacity})
		for _, child := range node.Children {
			walk(child, id, world, opacity)
		}
	}
	if s.Root >= 0 && int(s.Root) < len(s.Nodes) {
		walk(s.Root, NoNode, Identity, 1)
	}
	return out
}
