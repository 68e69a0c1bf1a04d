package engine

import (
	"context"
	"slices"

	"marknav/internal/document"
	"marknav/internal/editpoint"
	"marknav/internal/selectitem"
	"marknav/internal/structural"
	"marknav/internal/tree"
)

// NextEditPoint moves every cursor to the next edit point. Cursors with no
// edit point ahead keep their selection.
func (e *Engine) NextEditPoint(ed *Editor) (Result, error) {
	return e.editPoint(ed, editpoint.Forward)
}

// PrevEditPoint moves every cursor to the previous edit point.
func (e *Engine) PrevEditPoint(ed *Editor) (Result, error) {
	return e.editPoint(ed, editpoint.Backward)
}

func (e *Engine) editPoint(ed *Editor, dir editpoint.Direction) (Result, error) {
	if err := validate(ed); err != nil {
		return Result{}, err
	}

	out := unchanged(ed)
	for i, sel := range ed.Selections {
		anchor, _ := ed.Document.Offsets(sel)
		if offset, ok := editpoint.Find(ed.Document, anchor, dir); ok {
			out[i] = document.Cursor(ed.Document.PositionAt(offset))
		}
	}
	return Result{Selections: out}, nil
}

// SelectNextItem selects the next structural item at every cursor.
func (e *Engine) SelectNextItem(ctx context.Context, ed *Editor) (Result, error) {
	return e.selectItem(ctx, ed, true)
}

// SelectPrevItem selects the previous structural item at every cursor.
func (e *Engine) SelectPrevItem(ctx context.Context, ed *Editor) (Result, error) {
	return e.selectItem(ctx, ed, false)
}

func (e *Engine) selectItem(ctx context.Context, ed *Editor, forward bool) (Result, error) {
	if err := validate(ed); err != nil {
		return Result{}, err
	}

	syntax, ok := e.syntax(ed)
	if !ok {
		return Result{}, ErrUnsupportedDocumentKind
	}
	strategy := selectitem.Dispatch(syntax)
	step := strategy.Prev
	if forward {
		step = strategy.Next
	}

	t, err := e.tree(ctx, ed, syntax)
	if err != nil {
		return Result{}, err
	}

	out := unchanged(ed)
	for i, sel := range ed.Selections {
		start, end := ed.Document.OffsetAt(sel.Start()), ed.Document.OffsetAt(sel.End())
		if span, ok := step(ed.Document, t, start, end); ok {
			out[i] = ed.Document.SelectionOf(span.Start, span.End)
		}
	}
	log.Debugf("select item on %s (%s): %d selections", ed.URI, syntax, len(out))
	return Result{Selections: out}, nil
}

// MergeLines puts the element under every cursor on a single line. On a
// stylesheet it does nothing and returns ErrUnsupportedDocumentKind.
func (e *Engine) MergeLines(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupEdit(ctx, ed, func(doc *document.Document, t *tree.Tree, sel document.Selection) ([]document.Edit, bool) {
		edit, ok := structural.MergeLines(doc, t, sel)
		if !ok {
			return nil, false
		}
		return []document.Edit{edit}, true
	})
}

// UpdateTag renames the element under every cursor to name, open and close
// tag together.
func (e *Engine) UpdateTag(ctx context.Context, ed *Editor, name string) (Result, error) {
	if err := validate(ed); err != nil {
		return Result{}, err
	}
	if name == "" {
		return Result{}, ErrMissingTagName
	}
	return e.markupEdit(ctx, ed, func(doc *document.Document, t *tree.Tree, sel document.Selection) ([]document.Edit, bool) {
		return structural.UpdateTag(doc, t, sel, name)
	})
}

// RemoveTag deletes the open and close tags of the element under every
// cursor.
func (e *Engine) RemoveTag(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupEdit(ctx, ed, structural.RemoveTag)
}

// SplitJoinTag joins the element under every cursor into a self-closing
// tag, or splits a self-closing tag into an open and close pair.
func (e *Engine) SplitJoinTag(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupEdit(ctx, ed, func(doc *document.Document, t *tree.Tree, sel document.Selection) ([]document.Edit, bool) {
		edit, ok := structural.SplitJoinTag(doc, t, sel)
		if !ok {
			return nil, false
		}
		return []document.Edit{edit}, true
	})
}

// MatchTag moves every cursor to the tag matching the one it is in.
func (e *Engine) MatchTag(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupSelect(ctx, ed, func(doc *document.Document, t *tree.Tree, sel document.Selection) (document.Selection, bool) {
		offset, ok := structural.MatchTag(doc, t, sel)
		if !ok {
			return sel, false
		}
		return document.Cursor(doc.PositionAt(offset)), true
	})
}

// BalanceOut widens every selection to the enclosing element content or
// element.
func (e *Engine) BalanceOut(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupSelect(ctx, ed, spanStep(structural.BalanceOut))
}

// BalanceIn narrows every selection to the content or first child of the
// element it covers.
func (e *Engine) BalanceIn(ctx context.Context, ed *Editor) (Result, error) {
	return e.markupSelect(ctx, ed, spanStep(structural.BalanceIn))
}

type (
	editFunc   func(doc *document.Document, t *tree.Tree, sel document.Selection) ([]document.Edit, bool)
	selectFunc func(doc *document.Document, t *tree.Tree, sel document.Selection) (document.Selection, bool)
)

func spanStep(fn func(*document.Document, *tree.Tree, document.Selection) (tree.Span, bool)) selectFunc {
	return func(doc *document.Document, t *tree.Tree, sel document.Selection) (document.Selection, bool) {
		span, ok := fn(doc, t, sel)
		if !ok {
			return sel, false
		}
		return doc.SelectionOf(span.Start, span.End), true
	}
}

// markupEdit resolves edits for every cursor, last cursor in the document
// first. Edits[i] stays nil for a cursor without a match.
func (e *Engine) markupEdit(ctx context.Context, ed *Editor, resolve editFunc) (Result, error) {
	t, err := e.markupTree(ctx, ed)
	if err != nil {
		return Result{}, err
	}

	edits := make([][]document.Edit, len(ed.Selections))
	for _, i := range reverseOrder(ed) {
		if cursorEdits, ok := resolve(ed.Document, t, ed.Selections[i]); ok {
			edits[i] = cursorEdits
		}
	}
	return Result{Selections: unchanged(ed), Edits: edits}, nil
}

// markupSelect computes a new selection for every cursor in input order.
func (e *Engine) markupSelect(ctx context.Context, ed *Editor, step selectFunc) (Result, error) {
	t, err := e.markupTree(ctx, ed)
	if err != nil {
		return Result{}, err
	}

	out := unchanged(ed)
	for i, sel := range ed.Selections {
		if next, ok := step(ed.Document, t, sel); ok {
			out[i] = next
		}
	}
	return Result{Selections: out}, nil
}

func (e *Engine) markupTree(ctx context.Context, ed *Editor) (*tree.Tree, error) {
	if err := validate(ed); err != nil {
		return nil, err
	}
	if syntax, ok := e.syntax(ed); !ok || syntax == tree.Stylesheet {
		return nil, ErrUnsupportedDocumentKind
	}
	return e.tree(ctx, ed, tree.Markup)
}

// reverseOrder lists selection indexes from the last in the document to
// the first.
func reverseOrder(ed *Editor) []int {
	idx := make([]int, len(ed.Selections))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		sa, sb := ed.Selections[a].Start(), ed.Selections[b].Start()
		switch {
		case document.Before(sb, sa):
			return -1
		case document.Before(sa, sb):
			return 1
		default:
			return 0
		}
	})
	return idx
}
