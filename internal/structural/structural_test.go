package structural_test

import (
	"context"
	"strings"
	"testing"

	"marknav/internal/document"
	"marknav/internal/parser"
	"marknav/internal/structural"
	"marknav/internal/tree"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func parse(t *testing.T, text string) (*document.Document, *tree.Tree) {
	t.Helper()
	pool := parser.NewParserPool(1)
	t.Cleanup(func() { pool.Close() })

	tr, err := pool.Parse(context.Background(), tree.Markup, []byte(text))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return document.New(text), tr
}

func sel(aLine, aChar, bLine, bChar uint32) document.Selection {
	return document.NewSelection(
		protocol.Position{Line: aLine, Character: aChar},
		protocol.Position{Line: bLine, Character: bChar},
	)
}

func TestMergeLines(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		sel    document.Selection
		want   string
		wantOK bool
	}{
		{
			name:   "selection across one element",
			text:   "<div>\n  <span>x</span>\n</div>",
			sel:    sel(0, 2, 2, 3),
			want:   "<div><span>x</span></div>",
			wantOK: true,
		},
		{
			name:   "cursor inside nested element",
			text:   "<ul>\n  <li>\n    a\n  </li>\n</ul>",
			sel:    sel(1, 3, 1, 3),
			want:   "<li>    a  </li>",
			wantOK: true,
		},
		{
			name:   "selection across siblings",
			text:   "<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
			sel:    sel(1, 2, 2, 2),
			want:   "<li>a</li><li>b</li>",
			wantOK: true,
		},
		{
			name:   "crlf line breaks",
			text:   "<p>\r\n  <b>x</b>\r\n</p>",
			sel:    sel(0, 1, 0, 1),
			want:   "<p><b>x</b></p>",
			wantOK: true,
		},
		{
			name:   "cursor outside any element",
			text:   "text <p>x</p>",
			sel:    sel(0, 1, 0, 1),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, tr := parse(t, tt.text)
			edit, ok := structural.MergeLines(doc, tr, tt.sel)
			if ok != tt.wantOK {
				t.Fatalf("MergeLines() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if edit.NewText != tt.want {
				t.Errorf("MergeLines() text = %q, want %q", edit.NewText, tt.want)
			}
			if strings.ContainsAny(edit.NewText, "\n") {
				t.Errorf("merged text still has line breaks: %q", edit.NewText)
			}
			if edit.Start < 0 || edit.End > doc.Len() || edit.Start > edit.End {
				t.Errorf("edit range [%d, %d) outside document", edit.Start, edit.End)
			}
		})
	}
}

func TestUpdateTag(t *testing.T) {
	t.Run("paired tag", func(t *testing.T) {
		doc, tr := parse(t, "<p>hi</p>")
		edits, ok := structural.UpdateTag(doc, tr, sel(0, 1, 0, 1), "section")
		if !ok {
			t.Fatal("UpdateTag() found nothing")
		}
		got, err := doc.Apply(edits)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if got != "<section>hi</section>" {
			t.Errorf("renamed = %q", got)
		}
	})

	t.Run("self closing tag", func(t *testing.T) {
		doc, tr := parse(t, "<div><br/></div>")
		edits, ok := structural.UpdateTag(doc, tr, sel(0, 7, 0, 7), "hr")
		if !ok || len(edits) != 1 {
			t.Fatalf("UpdateTag() = %v, %v", edits, ok)
		}
		got, _ := doc.Apply(edits)
		if got != "<div><hr/></div>" {
			t.Errorf("renamed = %q", got)
		}
	})

	t.Run("nested uses innermost element", func(t *testing.T) {
		doc, tr := parse(t, "<div><span>x</span></div>")
		edits, _ := structural.UpdateTag(doc, tr, sel(0, 11, 0, 11), "em")
		got, _ := doc.Apply(edits)
		if got != "<div><em>x</em></div>" {
			t.Errorf("renamed = %q", got)
		}
	})

	t.Run("no element", func(t *testing.T) {
		doc, tr := parse(t, "plain text")
		if _, ok := structural.UpdateTag(doc, tr, sel(0, 3, 0, 3), "x"); ok {
			t.Error("expected no match")
		}
	})
}

func TestMergeLinesVoidElement(t *testing.T) {
	text := "<p>a<br>\n<!-- keep -->\n<i>b</i></p>"
	doc, tr := parse(t, text)

	edit, ok := structural.MergeLines(doc, tr, sel(0, 5, 0, 5))
	if !ok {
		t.Fatal("MergeLines() found nothing")
	}
	if doc.Slice(edit.Start, edit.End) != "<br>" || edit.NewText != "<br>" {
		t.Errorf("MergeLines() replaced %q with %q", doc.Slice(edit.Start, edit.End), edit.NewText)
	}
	if got, _ := doc.Apply([]document.Edit{edit}); got != text {
		t.Errorf("text after merge = %q", got)
	}
}

func TestMatchTag(t *testing.T) {
	doc, tr := parse(t, "<ul>\n  <li>ab</li>\n</ul><br>")

	tests := []struct {
		name   string
		at     document.Selection
		want   int
		wantOK bool
	}{
		{"open tag to close tag", sel(0, 1, 0, 1), 21, true},
		{"close tag to open tag", sel(2, 3, 2, 3), 1, true},
		{"inner open tag", sel(1, 3, 1, 3), 15, true},
		{"content has no match", sel(1, 7, 1, 7), 0, false},
		{"void element has no match", sel(2, 7, 2, 7), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := structural.MatchTag(doc, tr, tt.at)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MatchTag() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBalance(t *testing.T) {
	doc, tr := parse(t, "<div><p>ab</p><i></i></div>")

	span := func(s tree.Span) string { return doc.Slice(s.Start, s.End) }

	out, ok := structural.BalanceOut(doc, tr, sel(0, 9, 0, 9))
	if !ok || span(out) != "ab" {
		t.Fatalf("BalanceOut() from content = %q, %v", span(out), ok)
	}
	out, ok = structural.BalanceOut(doc, tr, sel(0, 8, 0, 10))
	if !ok || span(out) != "<p>ab</p>" {
		t.Fatalf("BalanceOut() from p content = %q, %v", span(out), ok)
	}
	out, ok = structural.BalanceOut(doc, tr, sel(0, 5, 0, 14))
	if !ok || span(out) != "<p>ab</p><i></i>" {
		t.Fatalf("BalanceOut() from whole p = %q, %v", span(out), ok)
	}

	in, ok := structural.BalanceIn(doc, tr, sel(0, 0, 0, 27))
	if !ok || span(in) != "<p>ab</p><i></i>" {
		t.Fatalf("BalanceIn() from whole div = %q, %v", span(in), ok)
	}
	in, ok = structural.BalanceIn(doc, tr, sel(0, 5, 0, 14))
	if !ok || span(in) != "ab" {
		t.Fatalf("BalanceIn() from whole p = %q, %v", span(in), ok)
	}
	if _, ok := structural.BalanceIn(doc, tr, sel(0, 15, 0, 15)); ok {
		t.Error("BalanceIn() inside empty element should find nothing")
	}
}

func TestRemoveTag(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		at     document.Selection
		want   string
		wantOK bool
	}{
		{"paired", "<div><b>x</b></div>", sel(0, 6, 0, 6), "<div>x</div>", true},
		{"outer keeps inner", "<div><b>x</b></div>", sel(0, 1, 0, 1), "<b>x</b>", true},
		{"self closing", "<p>a<br/>b</p>", sel(0, 5, 0, 5), "<p>ab</p>", true},
		{"plain text", "just text", sel(0, 2, 0, 2), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, tr := parse(t, tt.text)
			edits, ok := structural.RemoveTag(doc, tr, tt.at)
			if ok != tt.wantOK {
				t.Fatalf("RemoveTag() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got, _ := doc.Apply(edits); got != tt.want {
				t.Errorf("RemoveTag() = %q, want %q", got, tt.want)
			}
		})
	}
}
