// Package selectitem widens, narrows and steps a selection across the
// structural items of a document: tag names, attributes and attribute words
// in markup; selectors, properties and value words in stylesheets.
package selectitem

import (
	"marknav/internal/document"
	"marknav/internal/tree"
)

// StepFunc computes the item after (or before) the selection [start, end).
// It returns false when there is nothing to step to.
type StepFunc func(doc *document.Document, t *tree.Tree, start, end int) (tree.Span, bool)

// Strategy is the pair of step functions for one syntax.
type Strategy struct {
	Next StepFunc
	Prev StepFunc
}

var (
	Markup     = Strategy{Next: nextMarkup, Prev: prevMarkup}
	Stylesheet = Strategy{Next: nextStylesheet, Prev: prevStylesheet}
)

// Dispatch picks the strategy for syntax.
func Dispatch(syntax tree.Syntax) Strategy {
	if syntax == tree.Stylesheet {
		return Stylesheet
	}
	return Markup
}

// nextWord finds the word following pos in value. A single space is the
// only separator; pos == -1 selects the first word.
func nextWord(value string, pos int) (int, int, bool) {
	foundSpace := pos == -1
	start := -1

	for pos < len(value)-1 {
		pos++
		c := value[pos]
		switch {
		case !foundSpace:
			foundSpace = c == ' '
		case start < 0 && c == ' ':
		case start < 0:
			start = pos
		case c == ' ':
			return start, pos, true
		}
	}

	if start < 0 {
		return 0, 0, false
	}
	return start, len(value), true
}

// prevWord finds the word preceding pos in value. pos == len(value) selects
// the last word.
func prevWord(value string, pos int) (int, int, bool) {
	foundSpace := pos == len(value)
	end := -1

	for pos > 0 {
		pos--
		c := value[pos]
		switch {
		case !foundSpace:
			foundSpace = c == ' '
		case end < 0 && c == ' ':
		case end < 0:
			end = pos + 1
		case c == ' ':
			return pos + 1, end, true
		}
	}

	if end < 0 {
		return 0, 0, false
	}
	return 0, end, true
}

func shift(base, start, end int) tree.Span {
	return tree.Span{Start: base + start, End: base + end}
}
