package structural

import (
	"regexp"

	"marknav/internal/document"
	"marknav/internal/tree"
)

var tagEnd = regexp.MustCompile(`(\s*/)?>$`)

// element returns the element touching offset, boundaries included.
func element(t *tree.Tree, offset int) (*tree.Node, bool) {
	n, ok := tree.LocateNode(t, offset, true)
	if !ok || n.Kind != tree.KindElement || n.Open == nil {
		return nil, false
	}
	return n, true
}

// MatchTag returns the offset of the matching tag of the element at the
// selection start: inside the close tag when the cursor is in the open tag,
// inside the open tag when it is in the close tag. Cursors in the content of
// an element, or on an element without a close tag, have no match.
func MatchTag(doc *document.Document, t *tree.Tree, sel document.Selection) (int, bool) {
	offset := doc.OffsetAt(sel.Start())
	n, ok := element(t, offset)
	if !ok || n.Close == nil {
		return 0, false
	}
	if n.Open.End < offset && offset < n.Close.Start {
		return 0, false
	}
	if offset <= n.Open.End {
		return n.Close.Start + 2, true
	}
	return n.Start + 1, true
}

// RemoveTag computes the edits deleting the open and close tags of the
// element at the selection start. The content is kept as it is.
func RemoveTag(doc *document.Document, t *tree.Tree, sel document.Selection) ([]document.Edit, bool) {
	n, ok := element(t, doc.OffsetAt(sel.Start()))
	if !ok {
		return nil, false
	}
	edits := []document.Edit{{Start: n.Open.Start, End: n.Open.End}}
	if n.Close != nil {
		edits = append(edits, document.Edit{Start: n.Close.Start, End: n.Close.End})
	}
	return edits, true
}

// SplitJoinTag turns the element at the selection start into a
// self-closing tag, dropping its content, or splits a tag without close
// tag into an empty open and close pair.
func SplitJoinTag(doc *document.Document, t *tree.Tree, sel document.Selection) (document.Edit, bool) {
	n, ok := element(t, doc.OffsetAt(sel.Start()))
	if !ok {
		return document.Edit{}, false
	}

	if n.Close != nil {
		return document.Edit{Start: n.Open.End - 1, End: n.End, NewText: "/>"}, true
	}

	start := n.End
	if loc := tagEnd.FindStringIndex(doc.Slice(n.Start, n.End)); loc != nil {
		start = n.Start + loc[0]
	}
	return document.Edit{Start: start, End: n.End, NewText: "></" + n.Name + ">"}, true
}
