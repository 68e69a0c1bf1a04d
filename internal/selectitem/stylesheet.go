package selectitem

import (
	"strings"

	"marknav/internal/document"
	"marknav/internal/tree"
)

func nextStylesheet(doc *document.Document, t *tree.Tree, start, end int) (tree.Span, bool) {
	cur, ok := tree.LocateNode(t, end, true)
	if !ok {
		cur = t.Root()
	}

	if cur.Kind == tree.KindProperty && cur.Value != nil {
		// whole property selected: its value is next
		if start == cur.Start && end == cur.End {
			return *cur.Value, !cur.Value.IsEmpty()
		}
		if start >= cur.Value.Start && end <= cur.Value.End {
			if span, ok := valueWord(doc, cur, start, end, true); ok {
				return span, true
			}
		}
	}

	if cur.Kind == tree.KindRule && cur.Selector != nil && end < cur.Selector.End {
		return item(cur)
	}
	if cur.Kind == tree.KindProperty && cur.Value != nil && end < cur.Value.End {
		return item(cur)
	}

	var next *tree.Node
	for _, id := range cur.Children {
		c, _ := t.Node(id)
		if end < c.End {
			next = c
			break
		}
	}

	for next == nil && cur != nil {
		next, _ = t.NextSibling(cur)
		cur, _ = t.Parent(cur)
	}

	if next == nil {
		return tree.Span{}, false
	}
	return item(next)
}

func prevStylesheet(doc *document.Document, t *tree.Tree, start, end int) (tree.Span, bool) {
	cur, ok := tree.LocateNode(t, start, false)
	if !ok {
		cur = t.Root()
	}

	if cur.Kind == tree.KindProperty && cur.Value != nil {
		// whole value selected: the property is next
		if start == cur.Value.Start && end == cur.Value.End {
			return item(cur)
		}
		if start >= cur.Value.Start && end <= cur.Value.End {
			if span, ok := valueWord(doc, cur, start, end, false); ok {
				return span, true
			}
		}
	}

	first, hasChild := t.FirstChild(cur)
	if cur.Kind == tree.KindProperty || !hasChild || start <= first.Start {
		return item(cur)
	}

	// last child ending before the cursor
	prev := first
	for {
		sib, ok := t.NextSibling(prev)
		if !ok || start < sib.End {
			break
		}
		prev = sib
	}
	prev = deepest(t, prev)

	if prev.Kind == tree.KindProperty && prev.Value != nil {
		if span, ok := valueWord(doc, prev, start, end, false); ok {
			return span, true
		}
	}
	return item(prev)
}

// item is the span selected for a stylesheet node: the selector of a rule,
// the whole of anything else.
func item(n *tree.Node) (tree.Span, bool) {
	switch {
	case n.Kind == tree.KindRoot:
		return tree.Span{}, false
	case (n.Kind == tree.KindRule || n.Kind == tree.KindAtRule) && n.Selector != nil:
		return *n.Selector, true
	default:
		return n.Span, true
	}
}

// valueWord steps to the next or previous word of the value of property n,
// or selects the whole value when stepping back from its start.
func valueWord(doc *document.Document, n *tree.Node, start, end int, forward bool) (tree.Span, bool) {
	v := *n.Value
	value := doc.Slice(v.Start, v.End)

	if !forward && start == v.Start && end < v.End {
		return v, !v.IsEmpty()
	}

	var ws, we int
	var ok bool
	if forward {
		if end == v.End && (start > v.Start || !strings.Contains(value, " ")) {
			return tree.Span{}, false
		}
		pos := end - v.Start - 1
		if end == v.End {
			pos = -1
		}
		ws, we, ok = nextWord(value, pos)
	} else {
		if start == v.Start {
			return tree.Span{}, false
		}
		pos := start - v.Start
		if start > v.End {
			pos = len(value)
		}
		ws, we, ok = prevWord(value, pos)
	}

	if !ok {
		return tree.Span{}, false
	}
	return shift(v.Start, ws, we), true
}
