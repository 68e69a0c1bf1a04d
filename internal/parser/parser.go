package parser

import (
	"context"
	"fmt"
	"sync"

	"marknav/internal/tree"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("marknav.parser")

var languages = map[tree.Syntax]*sitter.Language{
	tree.Markup:     html.GetLanguage(),
	tree.Stylesheet: css.GetLanguage(),
}

// Edit represents an edit change for incremental parsing.
type Edit sitter.EditInput

// Parser wraps a tree-sitter parser instance along with a (possibly) stateful syntax tree.
type Parser struct {
	syntax tree.Syntax
	parser *sitter.Parser
	tree   *sitter.Tree
	mu     sync.Mutex
}

// NewParser creates a Parser for the given syntax.
func NewParser(syntax tree.Syntax) (*Parser, error) {
	lang, ok := languages[syntax]
	if !ok {
		return nil, fmt.Errorf("no grammar for syntax %s", syntax)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{syntax: syntax, parser: p}, nil
}

// Parse builds a node tree for content. When edits were recorded with Update
// since the last parse, the previous syntax tree is reused.
func (p *Parser) Parse(ctx context.Context, content []byte) (*tree.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.parser == nil {
		return nil, fmt.Errorf("parser is closed")
	}

	next, err := p.parser.ParseCtx(ctx, p.tree, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", p.syntax, err)
	}
	if p.tree != nil {
		p.tree.Close()
	}
	p.tree = next

	return build(p.syntax, next.RootNode(), content), nil
}

// Update applies a set of changes (edits) to the currently parsed tree.
func (p *Parser) Update(changes ...Edit) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tree == nil {
		return fmt.Errorf("no tree available to update")
	}
	for _, change := range changes {
		p.tree.Edit(sitter.EditInput(change))
	}
	return nil
}

// Reset forgets the previous syntax tree so the next Parse starts from scratch.
func (p *Parser) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
}

// Close frees any resources held by the Parser.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
	return nil
}

// ParserPool maintains a pool of Parser instances per syntax for one-time parsing.
type ParserPool struct {
	pools map[tree.Syntax]chan *Parser
}

// NewParserPool creates a ParserPool with n Parser instances for every syntax.
func NewParserPool(n int) *ParserPool {
	if n < 1 {
		n = 1
	}
	pp := &ParserPool{pools: make(map[tree.Syntax]chan *Parser, len(languages))}
	for syntax := range languages {
		pool := make(chan *Parser, n)
		for i := 0; i < n; i++ {
			p, err := NewParser(syntax)
			if err != nil {
				panic(fmt.Sprintf("failed to create parser: %v", err))
			}
			pool <- p
		}
		pp.pools[syntax] = pool
	}
	return pp
}

// Parse performs a one-time parse of the document using one Parser from the pool.
func (pp *ParserPool) Parse(ctx context.Context, syntax tree.Syntax, document []byte) (*tree.Tree, error) {
	pool, ok := pp.pools[syntax]
	if !ok {
		return nil, fmt.Errorf("no parsers for syntax %s", syntax)
	}

	var p *Parser
	select {
	case p = <-pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { pool <- p }()

	// A pooled parser never reuses a tree from another document.
	p.Reset()
	t, err := p.Parse(ctx, document)
	if err != nil {
		return nil, err
	}
	log.Debugf("parsed %d bytes of %s into %d nodes", len(document), syntax, t.Len())
	return t, nil
}

// Close releases all Parser instances in the pool.
func (pp *ParserPool) Close() error {
	for _, pool := range pp.pools {
		close(pool)
		for p := range pool {
			p.Close()
		}
	}
	return nil
}

func build(syntax tree.Syntax, root *sitter.Node, src []byte) *tree.Tree {
	if syntax == tree.Stylesheet {
		return buildStylesheet(root, src)
	}
	return buildMarkup(root, src)
}

func spanOf(n *sitter.Node) tree.Span {
	return tree.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}
