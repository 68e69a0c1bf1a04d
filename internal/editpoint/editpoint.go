// Package editpoint finds the places a user most likely wants to type next:
// inside empty attribute quotes, inside an empty tag gap, or at the start of
// a blank line. It looks at raw line text only, never at a parse tree.
package editpoint

import (
	"strings"

	"marknav/internal/document"
)

const (
	emptyAttribute = `""`
	emptyTag       = "><"
)

// Direction of the scan.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Next returns the offset of the first edit point after offset.
func Next(doc *document.Document, offset int) (int, bool) {
	return Find(doc, offset, Forward)
}

// Prev returns the offset of the first edit point before offset.
func Prev(doc *document.Document, offset int) (int, bool) {
	return Find(doc, offset, Backward)
}

// Find scans line by line from the line holding offset.
func Find(doc *document.Document, offset int, dir Direction) (int, bool) {
	first := doc.LineOf(offset)
	step := 1
	if dir == Backward {
		step = -1
	}

	for n := first; n >= 0 && n < doc.LineCount(); n += step {
		line := doc.LineAt(n)

		if n != first && line.IsEmptyOrWhitespace {
			return line.Start, true
		}

		col := -1
		if n == first {
			col = offset - line.Start
		}
		if i, ok := findInLine(line.Text, col, dir); ok {
			return line.Start + i + 1, true
		}
	}
	return offset, false
}

// findInLine returns the index of the delimiter pair nearest to col in the
// scan direction. col < 0 searches the whole line.
func findInLine(text string, col int, dir Direction) (int, bool) {
	if col > len(text) {
		col = len(text)
	}

	if dir == Forward {
		from := 0
		if col > 0 {
			from = col
		}
		attr := strings.Index(text[from:], emptyAttribute)
		tag := strings.Index(text[from:], emptyTag)
		i, ok := nearest(attr, tag, dir)
		return from + i, ok
	}

	if col >= 0 {
		text = text[:col]
	}
	return nearest(strings.LastIndex(text, emptyAttribute), strings.LastIndex(text, emptyTag), dir)
}

func nearest(attr, tag int, dir Direction) (int, bool) {
	switch {
	case attr > -1 && tag > -1:
		if dir == Forward {
			return min(attr, tag), true
		}
		return max(attr, tag), true
	case attr > -1:
		return attr, true
	case tag > -1:
		return tag, true
	default:
		return -1, false
	}
}
