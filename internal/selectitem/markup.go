package selectitem

import (
	"marknav/internal/document"
	"marknav/internal/tree"
)

func nextMarkup(doc *document.Document, t *tree.Tree, start, end int) (tree.Span, bool) {
	cur, ok := tree.LocateNode(t, end, false)
	if !ok {
		cur = t.Root()
	}

	var next *tree.Node
	if cur.Kind != tree.KindComment {
		if cur.Open != nil && end <= cur.Open.Start+len(cur.Name) {
			return tagName(cur)
		}

		if cur.Open != nil && end < cur.Open.End {
			if span, ok := nextAttribute(doc, start, end, cur); ok {
				return span, true
			}
		}

		// first child after the cursor
		for _, id := range cur.Children {
			c, _ := t.Node(id)
			if end < c.End && c.Kind != tree.KindComment {
				next = c
				break
			}
		}
	}

	for next == nil && cur != nil {
		if sib, ok := t.NextSibling(cur); ok {
			if sib.Kind != tree.KindComment {
				next = sib
			} else {
				cur = sib
			}
			continue
		}
		cur, _ = t.Parent(cur)
	}

	if next == nil {
		return tree.Span{}, false
	}
	return tagName(next)
}

func prevMarkup(doc *document.Document, t *tree.Tree, start, end int) (tree.Span, bool) {
	cur, ok := tree.LocateNode(t, start, false)
	if !ok {
		cur = t.Root()
	}

	var prev *tree.Node
	if cur.Open != nil && cur.Kind != tree.KindComment && start-1 > cur.Open.Start {
		first, hasChild := t.FirstChild(cur)
		if start < cur.Open.End || !hasChild || end <= first.Start {
			prev = cur
		} else {
			// last child ending before the cursor
			var last *tree.Node
			c := first
			for {
				if c.Kind != tree.KindComment {
					last = c
				}
				sib, ok := t.NextSibling(c)
				if !ok || start < sib.End {
					break
				}
				c = sib
			}
			if last != nil {
				prev = deepest(t, last)
			}
		}
	}

	for prev == nil && cur != nil {
		if sib, ok := t.PrevSibling(cur); ok {
			if sib.Kind != tree.KindComment {
				prev = deepest(t, sib)
			} else {
				cur = sib
			}
			continue
		}
		parent, ok := t.Parent(cur)
		if !ok {
			break
		}
		prev = parent
	}

	if prev == nil {
		return tree.Span{}, false
	}
	if span, ok := prevAttribute(doc, start, end, prev); ok {
		return span, true
	}
	return tagName(prev)
}

// tagName is the item selected for an element: its name inside the open tag.
func tagName(n *tree.Node) (tree.Span, bool) {
	if n.Kind != tree.KindElement || n.Open == nil {
		return tree.Span{}, false
	}
	start := n.Open.Start + 1
	return tree.Span{Start: start, End: start + len(n.Name)}, true
}

// deepest descends through the last non-comment child of n.
func deepest(t *tree.Tree, n *tree.Node) *tree.Node {
	for {
		var last *tree.Node
		for i := len(n.Children) - 1; i >= 0; i-- {
			c, _ := t.Node(n.Children[i])
			if c.Kind != tree.KindComment {
				last = c
				break
			}
		}
		if last == nil {
			return n
		}
		n = last
	}
}

// nextAttribute steps forward through the attributes of n: the whole
// attribute, then its value, then each word of the value.
func nextAttribute(doc *document.Document, start, end int, n *tree.Node) (tree.Span, bool) {
	for _, a := range n.Attributes {
		if end < a.Start {
			return a.Span, true
		}
		if a.Inner.IsEmpty() {
			continue
		}
		if (start == a.Start && end == a.End) || end < a.Inner.Start {
			return a.Inner, true
		}
		if end >= a.End {
			continue
		}

		pos := end - a.Inner.Start - 1
		if start == a.Inner.Start && end == a.Inner.End {
			pos = -1
		}
		if ws, we, ok := nextWord(doc.Slice(a.Inner.Start, a.Inner.End), pos); ok {
			span := shift(a.Inner.Start, ws, we)
			if span != (tree.Span{Start: start, End: end}) {
				return span, true
			}
		}
	}
	return tree.Span{}, false
}

// prevAttribute is nextAttribute in reverse: a value word, the value, then
// the whole attribute.
func prevAttribute(doc *document.Document, start, end int, n *tree.Node) (tree.Span, bool) {
	if n.Kind == tree.KindComment {
		return tree.Span{}, false
	}
	for i := len(n.Attributes) - 1; i >= 0; i-- {
		a := n.Attributes[i]
		if start <= a.Start {
			continue
		}
		if a.Inner.IsEmpty() || start < a.Inner.Start {
			return a.Span, true
		}
		if start == a.Inner.Start {
			if end >= a.Inner.End {
				return a.Span, true
			}
			return a.Inner, true
		}

		value := doc.Slice(a.Inner.Start, a.Inner.End)
		pos := start - a.Inner.Start
		if start > a.Inner.End {
			pos = len(value)
		}
		if ws, we, ok := prevWord(value, pos); ok {
			return shift(a.Inner.Start, ws, we), true
		}
		return a.Inner, true
	}
	return tree.Span{}, false
}
