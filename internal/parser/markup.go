package parser

import (
	"marknav/internal/tree"

	sitter "github.com/smacker/go-tree-sitter"
)

// tree-sitter-html node types
const (
	htmlElement        = "element"
	htmlScriptElement  = "script_element"
	htmlStyleElement   = "style_element"
	htmlStartTag       = "start_tag"
	htmlSelfClosingTag = "self_closing_tag"
	htmlEndTag         = "end_tag"
	htmlTagName        = "tag_name"
	htmlAttribute      = "attribute"
	htmlAttributeName  = "attribute_name"
	htmlAttributeValue = "attribute_value"
	htmlQuotedValue    = "quoted_attribute_value"
	htmlComment        = "comment"
	htmlError          = "ERROR"
)

func buildMarkup(root *sitter.Node, src []byte) *tree.Tree {
	t := tree.NewTree(tree.Markup, len(src))
	addMarkupChildren(t, 0, root, src)
	return t
}

func addMarkupChildren(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case htmlElement, htmlScriptElement, htmlStyleElement:
			addElement(t, parent, child, src)
		case htmlComment:
			t.Add(parent, tree.Node{Span: spanOf(child), Kind: tree.KindComment})
		case htmlError:
			// keep whatever elements the parser recovered
			addMarkupChildren(t, parent, child, src)
		}
	}
}

func addElement(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	node := tree.Node{Span: spanOf(n), Kind: tree.KindElement}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case htmlStartTag, htmlSelfClosingTag:
			open := spanOf(c)
			node.Open = &open
			node.Name, node.Attributes = readTag(c, src)
		case htmlEndTag:
			if c.EndByte() > c.StartByte() {
				closing := spanOf(c)
				node.Close = &closing
			}
		}
	}

	if node.Open == nil {
		addMarkupChildren(t, parent, n, src)
		return
	}

	// tree-sitter keeps void and unclosed elements open until their parent
	// closes; such an element ends with its open tag and what follows it
	// belongs to the parent.
	if node.Close == nil {
		node.End = node.Open.End
		t.Add(parent, node)
		addMarkupChildren(t, parent, n, src)
		return
	}

	id := t.Add(parent, node)
	addMarkupChildren(t, id, n, src)
}

func readTag(tag *sitter.Node, src []byte) (string, []tree.Attribute) {
	var name string
	var attrs []tree.Attribute

	for i := 0; i < int(tag.NamedChildCount()); i++ {
		c := tag.NamedChild(i)
		switch c.Type() {
		case htmlTagName:
			name = c.Content(src)
		case htmlAttribute:
			attrs = append(attrs, readAttribute(c))
		}
	}
	return name, attrs
}

func readAttribute(n *sitter.Node) tree.Attribute {
	attr := tree.Attribute{Span: spanOf(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case htmlAttributeName:
			attr.Name = spanOf(c)
		case htmlAttributeValue:
			attr.Value = spanOf(c)
			attr.Inner = attr.Value
		case htmlQuotedValue:
			attr.Value = spanOf(c)
			attr.Inner = attr.Value
			if attr.Value.Len() >= 2 {
				attr.Inner = tree.Span{Start: attr.Value.Start + 1, End: attr.Value.End - 1}
			}
		}
	}
	return attr
}
