package structural

import (
	"regexp"

	"marknav/internal/document"
	"marknav/internal/tree"
)

var (
	lineBreak = regexp.MustCompile(`\r\n|\n`)
	tagGap    = regexp.MustCompile(`>\s*<`)
)

// MergeLines computes the edit that puts the node(s) under selection on one
// line. An empty selection resolves one node; otherwise the nodes at both
// ends are resolved independently and the edit spans from the first node's
// start to the second node's end.
func MergeLines(doc *document.Document, t *tree.Tree, sel document.Selection) (document.Edit, bool) {
	start, end := doc.OffsetAt(sel.Start()), doc.OffsetAt(sel.End())

	var first, last *tree.Node
	var ok bool
	if sel.IsEmpty() {
		if first, ok = tree.LocateNode(t, start, false); !ok {
			return document.Edit{}, false
		}
		last = first
	} else {
		if first, ok = tree.LocateNode(t, start, true); !ok {
			return document.Edit{}, false
		}
		if last, ok = tree.LocateNode(t, end, true); !ok {
			return document.Edit{}, false
		}
	}

	text := doc.Slice(first.Start, last.End)
	text = lineBreak.ReplaceAllString(text, "")
	text = tagGap.ReplaceAllString(text, "><")

	return document.Edit{Start: first.Start, End: last.End, NewText: text}, true
}

// UpdateTag computes the edits renaming the element at the selection start:
// the name inside its open tag and, unless the element has no close tag,
// the name inside its close tag.
func UpdateTag(doc *document.Document, t *tree.Tree, sel document.Selection, name string) ([]document.Edit, bool) {
	n, ok := tree.LocateNode(t, doc.OffsetAt(sel.Start()), false)
	if !ok || n.Open == nil || n.Kind != tree.KindElement {
		return nil, false
	}

	openStart := n.Open.Start + 1
	edits := []document.Edit{{Start: openStart, End: openStart + len(n.Name), NewText: name}}

	if n.Close != nil {
		edits = append(edits, document.Edit{Start: n.Close.Start + 2, End: n.Close.End - 1, NewText: name})
	}
	return edits, true
}
