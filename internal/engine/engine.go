// Package engine runs the navigation and editing commands over every cursor
// of an editor. Each entry point validates its input once, builds at most one
// tree, computes one result per cursor and never mutates the document.
package engine

import (
	"context"
	"errors"
	"fmt"

	"marknav/internal/config"
	"marknav/internal/document"
	"marknav/internal/tree"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("marknav.engine")

var (
	// ErrNoActiveDocument is returned when a command runs without a document.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrUnsupportedDocumentKind is returned by markup-only commands on a
	// stylesheet, and by tree commands on a language that is neither markup
	// nor stylesheet. Nothing is computed.
	ErrUnsupportedDocumentKind = errors.New("command does not apply to this document kind")

	// ErrMissingTagName is returned by UpdateTag without a new name.
	ErrMissingTagName = errors.New("no tag name given")
)

// Parser builds node trees for the engine.
type Parser interface {
	Parse(ctx context.Context, syntax tree.Syntax, content []byte) (*tree.Tree, error)
}

// Editor is the state a command runs against.
type Editor struct {
	URI        string
	LanguageID string
	Document   *document.Document
	Selections []document.Selection

	// Tree, when set and of the right syntax, is used instead of parsing.
	Tree *tree.Tree
}

// Result of a command. Selections always has one entry per input
// selection, in input order. Edits is nil for navigation commands;
// otherwise Edits[i] holds what cursor i produced (nil for no match).
type Result struct {
	Selections []document.Selection
	Edits      [][]document.Edit
}

// Batch flattens the per-cursor edits into one batch ordered for
// application: descending start offset, exact duplicates removed.
func (r Result) Batch() []document.Edit {
	var all []document.Edit
	for _, edits := range r.Edits {
		all = append(all, edits...)
	}
	return document.Descending(all)
}

// Engine runs commands.
type Engine struct {
	parser Parser
	config config.Config
}

// New creates an Engine parsing with p.
func New(p Parser, cfg config.Config) *Engine {
	return &Engine{parser: p, config: cfg}
}

func (e *Engine) Config() config.Config {
	return e.config
}

func (e *Engine) syntax(ed *Editor) (tree.Syntax, bool) {
	return e.config.Syntax(ed.LanguageID)
}

func (e *Engine) tree(ctx context.Context, ed *Editor, syntax tree.Syntax) (*tree.Tree, error) {
	if ed.Tree != nil && ed.Tree.Syntax == syntax {
		return ed.Tree, nil
	}
	t, err := e.parser.Parse(ctx, syntax, []byte(ed.Document.Text()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ed.URI, err)
	}
	return t, nil
}

func validate(ed *Editor) error {
	if ed == nil || ed.Document == nil {
		return ErrNoActiveDocument
	}
	return nil
}

// unchanged copies the input selections.
func unchanged(ed *Editor) []document.Selection {
	out := make([]document.Selection, len(ed.Selections))
	copy(out, ed.Selections)
	return out
}
