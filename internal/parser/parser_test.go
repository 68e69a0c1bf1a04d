package parser_test

import (
	"context"
	"strings"
	"testing"

	"marknav/internal/parser"
	"marknav/internal/tree"

	sitter "github.com/smacker/go-tree-sitter"
)

const markupDoc = `<div class="a b" hidden>
  <span>x</span>
  <br>
  <!-- note -->
</div>`

func slice(src string, s tree.Span) string {
	return src[s.Start:s.End]
}

func TestMarkupTree(t *testing.T) {
	pool := parser.NewParserPool(1)
	defer pool.Close()

	tr, err := pool.Parse(context.Background(), tree.Markup, []byte(markupDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tr.Syntax != tree.Markup {
		t.Errorf("Syntax = %v", tr.Syntax)
	}

	div, ok := tree.LocateNode(tr, 2, false)
	if !ok || div.Name != "div" {
		t.Fatalf("expected div at offset 2, got %+v", div)
	}
	if div.Open == nil || slice(markupDoc, *div.Open) != `<div class="a b" hidden>` {
		t.Errorf("div open = %v", div.Open)
	}
	if div.Close == nil || slice(markupDoc, *div.Close) != "</div>" {
		t.Errorf("div close = %v", div.Close)
	}

	if len(div.Attributes) != 2 {
		t.Fatalf("div has %d attributes", len(div.Attributes))
	}
	class := div.Attributes[0]
	if slice(markupDoc, class.Name) != "class" || slice(markupDoc, class.Value) != `"a b"` || slice(markupDoc, class.Inner) != "a b" {
		t.Errorf("class attribute = %+v", class)
	}
	if div.Attributes[1].HasValue() {
		t.Errorf("hidden should have no value")
	}

	var kinds []tree.Kind
	var names []string
	for _, id := range div.Children {
		n, _ := tr.Node(id)
		kinds = append(kinds, n.Kind)
		names = append(names, n.Name)
	}
	if len(kinds) != 3 || kinds[2] != tree.KindComment {
		t.Fatalf("div children = %v %v", kinds, names)
	}
	if names[0] != "span" || names[1] != "br" {
		t.Errorf("div children = %v", names)
	}

	br, _ := tr.Node(div.Children[1])
	if br.Close != nil {
		t.Errorf("void element should have no close tag")
	}
	if slice(markupDoc, br.Span) != "<br>" || len(br.Children) != 0 {
		t.Errorf("br = %q with %d children", slice(markupDoc, br.Span), len(br.Children))
	}
}

func TestUnclosedElementsEndAtOpenTag(t *testing.T) {
	pool := parser.NewParserPool(1)
	defer pool.Close()

	src := "<p>a<br>\n<!-- keep -->\n<img src=x><i>b</i></p>"
	tr, err := pool.Parse(context.Background(), tree.Markup, []byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p, ok := tree.LocateNode(tr, 1, false)
	if !ok || p.Name != "p" {
		t.Fatalf("expected p at offset 1, got %+v", p)
	}

	var got []string
	for _, id := range p.Children {
		n, _ := tr.Node(id)
		got = append(got, slice(src, n.Span))
	}
	want := []string{"<br>", "<!-- keep -->", "<img src=x>", "<i>b</i>"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("p children = %q, want %q", got, want)
	}
}

const stylesheetDoc = `a, b { color: red; margin: 0 auto; }
@media screen {
  p { padding: 1px }
}`

func TestStylesheetTree(t *testing.T) {
	pool := parser.NewParserPool(1)
	defer pool.Close()

	tr, err := pool.Parse(context.Background(), tree.Stylesheet, []byte(stylesheetDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	root := tr.Root()
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children", len(root.Children))
	}

	rule, _ := tr.Node(root.Children[0])
	if rule.Kind != tree.KindRule || rule.Selector == nil || slice(stylesheetDoc, *rule.Selector) != "a, b" {
		t.Fatalf("first rule = %+v", rule)
	}
	if len(rule.Children) != 2 {
		t.Fatalf("rule has %d properties", len(rule.Children))
	}
	margin, _ := tr.Node(rule.Children[1])
	if margin.Kind != tree.KindProperty || margin.Name != "margin" {
		t.Fatalf("second property = %+v", margin)
	}
	if margin.Value == nil || slice(stylesheetDoc, *margin.Value) != "0 auto" {
		t.Errorf("margin value = %v", margin.Value)
	}

	media, _ := tr.Node(root.Children[1])
	if media.Kind != tree.KindAtRule || media.Name != "@media" {
		t.Fatalf("second node = %+v", media)
	}
	if slice(stylesheetDoc, *media.Selector) != "@media screen" {
		t.Errorf("media prelude = %q", slice(stylesheetDoc, *media.Selector))
	}
	if len(media.Children) != 1 {
		t.Fatalf("media has %d children", len(media.Children))
	}
	p, _ := tr.Node(media.Children[0])
	padding, _ := tr.Node(p.Children[0])
	if slice(stylesheetDoc, *padding.Value) != "1px" {
		t.Errorf("padding value = %q", slice(stylesheetDoc, *padding.Value))
	}
}

func TestIncrementalParse(t *testing.T) {
	p, err := parser.NewParser(tree.Markup)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	defer p.Close()

	before := "<p>hi</p>"
	if _, err := p.Parse(context.Background(), []byte(before)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// rename p to em in the open tag and the close tag, last edit first
	after := strings.Replace(before, "</p>", "</em>", 1)
	after = strings.Replace(after, "<p>", "<em>", 1)
	err = p.Update(
		parser.Edit{
			StartIndex: 7, OldEndIndex: 8, NewEndIndex: 9,
			StartPoint: sitter.Point{Column: 7}, OldEndPoint: sitter.Point{Column: 8}, NewEndPoint: sitter.Point{Column: 9},
		},
		parser.Edit{
			StartIndex: 1, OldEndIndex: 2, NewEndIndex: 3,
			StartPoint: sitter.Point{Column: 1}, OldEndPoint: sitter.Point{Column: 2}, NewEndPoint: sitter.Point{Column: 3},
		},
	)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tr, err := p.Parse(context.Background(), []byte(after))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	em, ok := tree.LocateNode(tr, 2, false)
	if !ok || em.Name != "em" || em.Close == nil || slice(after, *em.Close) != "</em>" {
		t.Errorf("after edit got %+v", em)
	}
}

func TestUpdateWithoutTree(t *testing.T) {
	p, err := parser.NewParser(tree.Stylesheet)
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	defer p.Close()

	if err := p.Update(parser.Edit{}); err == nil {
		t.Error("expected error updating before the first parse")
	}
}
