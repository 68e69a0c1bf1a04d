package tree

// Locate returns the innermost node containing offset.
//
// A node contains offset when start < offset < end. With includeBoundary
// the ends count too, and among siblings the first one touching offset wins,
// so an offset between two adjacent siblings resolves to a sibling instead
// of their parent. The root is never returned.
func Locate(t *Tree, offset int, includeBoundary bool) (NodeID, bool) {
	found := NoNode
	children := t.Root().Children

	for i := 0; i < len(children); {
		n := &t.nodes[children[i]]
		inside := n.Start < offset && offset < n.End
		touching := includeBoundary && n.Start <= offset && offset <= n.End
		if inside || touching {
			found = n.ID
			children = n.Children
			i = 0
			continue
		}
		i++
	}

	return found, found != NoNode
}

// LocateNode is Locate returning the node itself.
func LocateNode(t *Tree, offset int, includeBoundary bool) (*Node, bool) {
	id, ok := Locate(t, offset, includeBoundary)
	if !ok {
		return nil, false
	}
	return t.Node(id)
}
