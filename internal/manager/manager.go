package manager

import (
	"context"
	"fmt"
	"sync"

	"marknav/internal/config"
	"marknav/internal/document"
	"marknav/internal/parser"
	"marknav/internal/sitteradapter"
	"marknav/internal/tree"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("marknav.manager")

// openDocument is the state of one open URI.
type openDocument struct {
	languageID string
	syntax     tree.Syntax
	doc        *document.Document
	parser     *parser.Parser
}

// Snapshot is a consistent copy of an open document.
type Snapshot struct {
	URI        string
	LanguageID string
	Syntax     tree.Syntax
	Document   *document.Document
}

// DocumentManager encapsulates parser and document state for each open URI.
type DocumentManager struct {
	mu     sync.Mutex
	config config.Config
	docs   map[string]*openDocument
}

// NewDocumentManager creates an initialized DocumentManager.
func NewDocumentManager(cfg config.Config) *DocumentManager {
	return &DocumentManager{
		config: cfg,
		docs:   make(map[string]*openDocument),
	}
}

// Open starts tracking uri, replacing any previous state for it.
func (dm *DocumentManager) Open(uri, languageID, text string) error {
	syntax, _ := dm.config.Syntax(languageID)
	p, err := parser.NewParser(syntax)
	if err != nil {
		return fmt.Errorf("failed to create parser for %s: %w", uri, err)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if old, ok := dm.docs[uri]; ok {
		old.parser.Close()
	}
	dm.docs[uri] = &openDocument{
		languageID: languageID,
		syntax:     syntax,
		doc:        document.New(text),
		parser:     p,
	}
	log.Debugf("opened %s as %s", uri, syntax)
	return nil
}

// ApplyIncrementalEdit applies a Tree-sitter edit and updates stored text.
func (dm *DocumentManager) ApplyIncrementalEdit(
	uri string,
	change protocol.TextDocumentContentChangeEvent,
) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	od, ok := dm.docs[uri]
	if !ok {
		return fmt.Errorf("no document for %s", uri)
	}
	if change.Range == nil {
		od.doc = document.New(change.Text)
		od.parser.Reset()
		return nil
	}

	// no tree yet means nothing to edit; the next parse starts fresh
	tsEdit := sitteradapter.CreateTSEditAdapter(change, od.doc)
	if err := od.parser.Update(parser.Edit(tsEdit)); err != nil {
		log.Debugf("no tree to edit for %s: %s", uri, err)
	}

	od.doc = document.New(sitteradapter.ApplyTextEdit(change, od.doc))
	return nil
}

// Replace swaps the whole text of uri, dropping the incremental tree.
func (dm *DocumentManager) Replace(uri, text string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	od, ok := dm.docs[uri]
	if !ok {
		return fmt.Errorf("no document for %s", uri)
	}
	od.doc = document.New(text)
	od.parser.Reset()
	return nil
}

// Snapshot returns the current state of uri.
func (dm *DocumentManager) Snapshot(uri string) (Snapshot, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	od, ok := dm.docs[uri]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{URI: uri, LanguageID: od.languageID, Syntax: od.syntax, Document: od.doc}, true
}

// Parse builds the node tree of uri with its incremental parser. The lock
// is held so no edit lands between reading the text and parsing it.
func (dm *DocumentManager) Parse(ctx context.Context, uri string) (Snapshot, *tree.Tree, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	od, ok := dm.docs[uri]
	if !ok {
		return Snapshot{}, nil, fmt.Errorf("document not loaded for %s", uri)
	}

	t, err := od.parser.Parse(ctx, []byte(od.doc.Text()))
	if err != nil {
		return Snapshot{}, nil, err
	}
	return Snapshot{URI: uri, LanguageID: od.languageID, Syntax: od.syntax, Document: od.doc}, t, nil
}

// Release frees parser and document for a URI.
func (dm *DocumentManager) Release(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if od, ok := dm.docs[uri]; ok {
		od.parser.Close()
		delete(dm.docs, uri)
	}
}

// CloseAll cleans up all parsers.
func (dm *DocumentManager) CloseAll() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	for uri, od := range dm.docs {
		if err := od.parser.Close(); err != nil {
			return fmt.Errorf("error closing parser for %s: %w", uri, err)
		}
	}
	dm.docs = make(map[string]*openDocument)
	return nil
}
