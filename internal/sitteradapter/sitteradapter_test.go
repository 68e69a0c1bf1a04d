package sitteradapter_test

import (
	"testing"

	"marknav/internal/document"
	"marknav/internal/sitteradapter"

	sitter "github.com/smacker/go-tree-sitter"
	lsp "github.com/tliron/glsp/protocol_3_16"
)

func change(sl, sc, el, ec uint32, text string) lsp.TextDocumentContentChangeEvent {
	return lsp.TextDocumentContentChangeEvent{
		Range: &lsp.Range{
			Start: lsp.Position{Line: sl, Character: sc},
			End:   lsp.Position{Line: el, Character: ec},
		},
		Text: text,
	}
}

func TestCreateTSEditAdapter(t *testing.T) {
	doc := document.New("<ul>\n  <li>é</li>\n</ul>")

	tests := []struct {
		name   string
		change lsp.TextDocumentContentChangeEvent
		want   sitter.EditInput
		text   string
	}{
		{
			name:   "replace on one line",
			change: change(1, 3, 1, 5, "ol"),
			want: sitter.EditInput{
				StartIndex: 8, OldEndIndex: 10, NewEndIndex: 10,
				StartPoint: sitter.Point{Row: 1, Column: 3}, OldEndPoint: sitter.Point{Row: 1, Column: 5},
				NewEndPoint: sitter.Point{Row: 1, Column: 5},
			},
			text: "<ul>\n  <ol>é</li>\n</ul>",
		},
		{
			name:   "after a multi-byte character",
			change: change(1, 7, 1, 7, "x"),
			want: sitter.EditInput{
				StartIndex: 13, OldEndIndex: 13, NewEndIndex: 14,
				StartPoint: sitter.Point{Row: 1, Column: 8}, OldEndPoint: sitter.Point{Row: 1, Column: 8},
				NewEndPoint: sitter.Point{Row: 1, Column: 9},
			},
			text: "<ul>\n  <li>éx</li>\n</ul>",
		},
		{
			name:   "insert lines",
			change: change(0, 4, 0, 4, "\n  <li></li>"),
			want: sitter.EditInput{
				StartIndex: 4, OldEndIndex: 4, NewEndIndex: 16,
				StartPoint: sitter.Point{Row: 0, Column: 4}, OldEndPoint: sitter.Point{Row: 0, Column: 4},
				NewEndPoint: sitter.Point{Row: 1, Column: 11},
			},
			text: "<ul>\n  <li></li>\n  <li>é</li>\n</ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sitteradapter.CreateTSEditAdapter(tt.change, doc); got != tt.want {
				t.Errorf("CreateTSEditAdapter() = %+v, want %+v", got, tt.want)
			}
			if got := sitteradapter.ApplyTextEdit(tt.change, doc); got != tt.text {
				t.Errorf("ApplyTextEdit() = %q, want %q", got, tt.text)
			}
		})
	}
}
