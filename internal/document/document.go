package document

import (
	"sort"
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an immutable snapshot of an editor buffer.
// Offsets are UTF-8 byte offsets, positions follow LSP and count UTF-16 code units.
type Document struct {
	text       string
	lineStarts []int
}

// Line is a single line of a Document without its line break.
type Line struct {
	Number              int
	Start               int
	Text                string
	IsEmptyOrWhitespace bool
}

// New builds a snapshot of text.
func New(text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, lineStarts: starts}
}

func (d *Document) Text() string {
	return d.text
}

func (d *Document) Len() int {
	return len(d.text)
}

func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// LineAt returns line n. n is clamped to the document.
func (d *Document) LineAt(n int) Line {
	if n < 0 {
		n = 0
	}
	if n >= len(d.lineStarts) {
		n = len(d.lineStarts) - 1
	}
	start := d.lineStarts[n]
	end := len(d.text)
	if n+1 < len(d.lineStarts) {
		end = d.lineStarts[n+1] - 1
	}
	text := strings.TrimSuffix(d.text[start:end], "\r")
	return Line{
		Number:              n,
		Start:               start,
		Text:                text,
		IsEmptyOrWhitespace: strings.TrimSpace(text) == "",
	}
}

// LineOf returns the number of the line holding offset.
func (d *Document) LineOf(offset int) int {
	offset = d.clamp(offset)
	return sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
}

// OffsetAt converts an LSP position to a byte offset. Characters past the
// end of a line resolve to the end of that line.
func (d *Document) OffsetAt(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(d.lineStarts) {
		return len(d.text)
	}
	l := d.LineAt(line)
	offset := l.Start
	var units uint32
	for _, r := range l.Text {
		width := uint32(1)
		if r > 0xFFFF {
			width = 2
		}
		if units+width > pos.Character {
			break
		}
		units += width
		offset += utf8.RuneLen(r)
	}
	return offset
}

// PositionAt converts a byte offset to an LSP position.
func (d *Document) PositionAt(offset int) protocol.Position {
	offset = d.clamp(offset)
	line := d.LineOf(offset)
	var units uint32
	for _, r := range d.text[d.lineStarts[line]:offset] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{Line: uint32(line), Character: units}
}

// Slice returns the text in [start, end), clamped to the document.
func (d *Document) Slice(start, end int) string {
	start, end = d.clamp(start), d.clamp(end)
	if start >= end {
		return ""
	}
	return d.text[start:end]
}

// RangeOf converts a byte span to an LSP range.
func (d *Document) RangeOf(start, end int) protocol.Range {
	return protocol.Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}

func (d *Document) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(d.text) {
		return len(d.text)
	}
	return offset
}
