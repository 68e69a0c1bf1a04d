package tree

// Syntax is the family of grammar a document is parsed with.
type Syntax int

const (
	Markup Syntax = iota
	Stylesheet
)

func (s Syntax) String() string {
	switch s {
	case Markup:
		return "markup"
	case Stylesheet:
		return "stylesheet"
	default:
		return "unknown"
	}
}

// Kind classifies a Node.
type Kind int

const (
	KindRoot Kind = iota
	KindElement
	KindComment
	KindRule
	KindAtRule
	KindProperty
)

// NodeID indexes a node inside its Tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Span is a half-open byte range.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Attribute of a markup element. Value includes the quotes when quoted,
// Inner never does. Both are empty when the attribute has no value.
type Attribute struct {
	Span
	Name  Span
	Value Span
	Inner Span
}

// HasValue reports whether the attribute was written with a value.
func (a Attribute) HasValue() bool {
	return !a.Value.IsEmpty()
}

// Node is one structural unit of a document.
type Node struct {
	Span
	ID         NodeID
	Kind       Kind
	Name       string
	Open       *Span
	Close      *Span
	Selector   *Span
	Value      *Span
	Attributes []Attribute
	Parent     NodeID
	Children   []NodeID
}

// Tree owns the nodes of one parsed snapshot. Node 0 is the root.
type Tree struct {
	Syntax Syntax
	nodes  []Node
}

// NewTree creates a tree whose root spans [0, length).
func NewTree(syntax Syntax, length int) *Tree {
	return &Tree{
		Syntax: syntax,
		nodes: []Node{{
			Span:   Span{Start: 0, End: length},
			ID:     0,
			Kind:   KindRoot,
			Parent: NoNode,
		}},
	}
}

// Add appends n as the last child of parent and returns its id.
func (t *Tree) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.ID = id
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, n)
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

func (t *Tree) Root() *Node {
	return &t.nodes[0]
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[id], true
}

func (t *Tree) Parent(n *Node) (*Node, bool) {
	return t.Node(n.Parent)
}

func (t *Tree) FirstChild(n *Node) (*Node, bool) {
	if len(n.Children) == 0 {
		return nil, false
	}
	return t.Node(n.Children[0])
}

func (t *Tree) NextSibling(n *Node) (*Node, bool) {
	return t.sibling(n, 1)
}

func (t *Tree) PrevSibling(n *Node) (*Node, bool) {
	return t.sibling(n, -1)
}

func (t *Tree) sibling(n *Node, step int) (*Node, bool) {
	parent, ok := t.Parent(n)
	if !ok {
		return nil, false
	}
	for i, id := range parent.Children {
		if id == n.ID {
			return t.Node(parentChild(parent, i+step))
		}
	}
	return nil, false
}

func parentChild(parent *Node, i int) NodeID {
	if i < 0 || i >= len(parent.Children) {
		return NoNode
	}
	return parent.Children[i]
}
