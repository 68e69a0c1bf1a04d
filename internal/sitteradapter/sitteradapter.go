package sitteradapter

import (
	"strings"

	"marknav/internal/document"

	sitter "github.com/smacker/go-tree-sitter"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

// CreateTSEditAdapter converts an LSP TextDocumentContentChangeEvent into a tree-sitter EditInput.
func CreateTSEditAdapter(
	lspEdit lsp.TextDocumentContentChangeEvent,
	doc *document.Document, // document before the change
) sitter.EditInput {
	edit := TextEdit(lspEdit, doc)

	startPoint := pointAt(doc, edit.Start)
	oldEndPoint := pointAt(doc, edit.End)

	newEndByte := edit.Start + len(edit.NewText)
	newEndPoint := computeNewEndPoint(startPoint, edit.NewText)

	return sitter.EditInput{
		StartIndex:  uint32(edit.Start),
		OldEndIndex: uint32(edit.End),
		NewEndIndex: uint32(newEndByte),
		StartPoint:  startPoint,
		OldEndPoint: oldEndPoint,
		NewEndPoint: newEndPoint,
	}
}

// TextEdit resolves the range of an LSP change to byte offsets in doc.
func TextEdit(lspEdit lsp.TextDocumentContentChangeEvent, doc *document.Document) document.Edit {
	start := doc.OffsetAt(lspEdit.Range.Start)
	end := doc.OffsetAt(lspEdit.Range.End)
	if end < start {
		start, end = end, start
	}
	return document.Edit{Start: start, End: end, NewText: lspEdit.Text}
}

// pointAt computes the tree-sitter Point (row, byte column) of offset.
func pointAt(doc *document.Document, offset int) sitter.Point {
	line := doc.LineAt(doc.LineOf(offset))
	return sitter.Point{Row: uint32(line.Number), Column: uint32(offset - line.Start)}
}

// computeNewEndPoint computes the tree-sitter Point after inserting newText at startPoint.
func computeNewEndPoint(startPoint sitter.Point, newText string) sitter.Point {
	lines := strings.Split(newText, "\n")
	last := lines[len(lines)-1]
	row := startPoint.Row + uint32(len(lines)-1)
	col := uint32(len(last))
	if len(lines) == 1 {
		col += startPoint.Column
	}
	return sitter.Point{Row: row, Column: col}
}

// ApplyTextEdit applies a single LSP edit to the given document,
// using the same offsets that CreateTSEditAdapter computes.
func ApplyTextEdit(
	edit lsp.TextDocumentContentChangeEvent,
	doc *document.Document,
) string {
	text, err := doc.Apply([]document.Edit{TextEdit(edit, doc)})
	if err != nil {
		// offsets are clamped by OffsetAt, so this cannot happen
		return doc.Text()
	}
	return text
}
