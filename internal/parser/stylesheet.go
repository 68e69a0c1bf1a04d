package parser

import (
	"strings"

	"marknav/internal/tree"

	sitter "github.com/smacker/go-tree-sitter"
)

// tree-sitter-css node types
const (
	cssRuleSet           = "rule_set"
	cssSelectors         = "selectors"
	cssBlock             = "block"
	cssDeclaration       = "declaration"
	cssPropertyName      = "property_name"
	cssKeyframeBlockList = "keyframe_block_list"
	cssKeyframeBlock     = "keyframe_block"
	cssError             = "ERROR"
)

var cssAtRules = map[string]bool{
	"at_rule":             true,
	"media_statement":     true,
	"supports_statement":  true,
	"keyframes_statement": true,
	"import_statement":    true,
	"charset_statement":   true,
	"namespace_statement": true,
}

func buildStylesheet(root *sitter.Node, src []byte) *tree.Tree {
	t := tree.NewTree(tree.Stylesheet, len(src))
	addStylesheetChildren(t, 0, root, src)
	return t
}

func addStylesheetChildren(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch typ := c.Type(); {
		case typ == cssRuleSet:
			addRule(t, parent, c, src)
		case typ == cssKeyframeBlock:
			addKeyframe(t, parent, c, src)
		case typ == cssDeclaration:
			addProperty(t, parent, c, src)
		case cssAtRules[typ]:
			addAtRule(t, parent, c, src)
		case typ == cssError:
			addStylesheetChildren(t, parent, c, src)
		}
	}
}

func addRule(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	node := tree.Node{Span: spanOf(n), Kind: tree.KindRule}
	var block *sitter.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case cssSelectors:
			selector := spanOf(c)
			node.Selector = &selector
			node.Name = c.Content(src)
		case cssBlock:
			block = c
		}
	}
	addBlockNode(t, parent, node, block, src)
}

func addKeyframe(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	node := tree.Node{Span: spanOf(n), Kind: tree.KindRule}
	var block *sitter.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == cssBlock {
			block = c
			continue
		}
		if node.Selector == nil {
			selector := spanOf(c)
			node.Selector = &selector
			node.Name = c.Content(src)
		}
	}
	addBlockNode(t, parent, node, block, src)
}

func addAtRule(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	node := tree.Node{Span: spanOf(n), Kind: tree.KindAtRule}
	if n.ChildCount() > 0 {
		node.Name = n.Child(0).Content(src)
	}

	var body *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == cssBlock || c.Type() == cssKeyframeBlockList {
			body = c
			break
		}
	}

	preludeEnd := node.End
	if body != nil {
		preludeEnd = int(body.StartByte())
	}
	prelude := strings.TrimRight(string(src[node.Start:preludeEnd]), " \t\r\n;")
	selector := tree.Span{Start: node.Start, End: node.Start + len(prelude)}
	node.Selector = &selector

	addBlockNode(t, parent, node, body, src)
}

// addBlockNode adds node with the braces of body as its delimiters and the
// contents of body as its children.
func addBlockNode(t *tree.Tree, parent tree.NodeID, node tree.Node, body *sitter.Node, src []byte) {
	if body != nil {
		span := spanOf(body)
		if span.Len() > 0 && src[span.Start] == '{' {
			open := tree.Span{Start: span.Start, End: span.Start + 1}
			node.Open = &open
		}
		if span.Len() > 1 && src[span.End-1] == '}' {
			closing := tree.Span{Start: span.End - 1, End: span.End}
			node.Close = &closing
		}
	}
	id := t.Add(parent, node)
	if body != nil {
		addStylesheetChildren(t, id, body, src)
	}
}

func addProperty(t *tree.Tree, parent tree.NodeID, n *sitter.Node, src []byte) {
	node := tree.Node{Span: spanOf(n), Kind: tree.KindProperty}

	colon := -1
	var value *tree.Span
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == cssPropertyName:
			node.Name = c.Content(src)
		case !c.IsNamed() && c.Type() == ":" && colon < 0:
			colon = int(c.EndByte())
		case !c.IsNamed() && c.Type() == ";":
		case colon >= 0:
			if value == nil {
				value = &tree.Span{Start: int(c.StartByte())}
			}
			value.End = int(c.EndByte())
		}
	}

	if value == nil && colon >= 0 {
		value = &tree.Span{Start: colon, End: colon}
	}
	node.Value = value
	t.Add(parent, node)
}
