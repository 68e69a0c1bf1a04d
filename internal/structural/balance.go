package structural

import (
	"marknav/internal/document"
	"marknav/internal/tree"
)

// BalanceOut widens the selection to the content of the enclosing element,
// then to the whole element. A node without a close tag is selected whole.
func BalanceOut(doc *document.Document, t *tree.Tree, sel document.Selection) (tree.Span, bool) {
	start, end := doc.OffsetAt(sel.Start()), doc.OffsetAt(sel.End())
	n, ok := tree.LocateNode(t, start, false)
	if !ok {
		return tree.Span{}, false
	}
	if n.Open == nil || n.Close == nil {
		return n.Span, true
	}

	current := tree.Span{Start: start, End: end}
	inner := tree.Span{Start: n.Open.End, End: n.Close.Start}
	if contains(inner, current) && inner != current {
		return inner, true
	}
	if contains(n.Span, current) && n.Span != current {
		return n.Span, true
	}
	return tree.Span{}, false
}

// BalanceIn narrows a whole selected element to its content, otherwise
// selects the first child of the node at the selection start, or the
// content of that child when the child is already selected.
func BalanceIn(doc *document.Document, t *tree.Tree, sel document.Selection) (tree.Span, bool) {
	start, end := doc.OffsetAt(sel.Start()), doc.OffsetAt(sel.End())
	current := tree.Span{Start: start, End: end}

	n, ok := tree.LocateNode(t, start, true)
	if !ok {
		return tree.Span{}, false
	}
	if n.Span == current && n.Open != nil && n.Close != nil {
		return tree.Span{Start: n.Open.End, End: n.Close.Start}, true
	}

	first, ok := t.FirstChild(n)
	if !ok {
		return tree.Span{}, false
	}
	if first.Span == current && first.Open != nil && first.Close != nil {
		return tree.Span{Start: first.Open.End, End: first.Close.Start}, true
	}
	return first.Span, true
}

func contains(outer, inner tree.Span) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}
