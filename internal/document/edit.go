package document

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	// ErrOverlappingEdits is returned when two edits of a batch touch the same text
	ErrOverlappingEdits = errors.New("overlapping edits")

	// ErrEditOutOfRange is returned when an edit reaches outside the document
	ErrEditOutOfRange = errors.New("edit out of range")
)

// Edit replaces [Start, End) of a snapshot with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// Descending sorts edits by start offset, last edit first, and drops exact
// duplicates. Applying the result in order never shifts a pending range.
func Descending(edits []Edit) []Edit {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start > sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	out := sorted[:0]
	for i, e := range sorted {
		if i > 0 && e == out[len(out)-1] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Validate checks that a batch fits in d and has no overlapping ranges.
func (d *Document) Validate(edits []Edit) error {
	batch := Descending(edits)
	for i, e := range batch {
		if e.Start < 0 || e.End < e.Start || e.End > len(d.text) {
			return fmt.Errorf("%w: [%d, %d) in document of length %d", ErrEditOutOfRange, e.Start, e.End, len(d.text))
		}
		if i > 0 && e.End > batch[i-1].Start {
			return fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrOverlappingEdits,
				e.Start, e.End, batch[i-1].Start, batch[i-1].End)
		}
	}
	return nil
}

// Apply returns the text of d with the whole batch applied, or an error and
// no text when any edit is invalid.
func (d *Document) Apply(edits []Edit) (string, error) {
	if err := d.Validate(edits); err != nil {
		return "", err
	}
	text := d.text
	for _, e := range Descending(edits) {
		var b strings.Builder
		b.Grow(len(text) - (e.End - e.Start) + len(e.NewText))
		b.WriteString(text[:e.Start])
		b.WriteString(e.NewText)
		b.WriteString(text[e.End:])
		text = b.String()
	}
	return text, nil
}

// TextEdits converts a batch to LSP text edits against d.
func (d *Document) TextEdits(edits []Edit) []protocol.TextEdit {
	batch := Descending(edits)
	out := make([]protocol.TextEdit, len(batch))
	for i, e := range batch {
		out[i] = protocol.TextEdit{
			Range:   d.RangeOf(e.Start, e.End),
			NewText: e.NewText,
		}
	}
	return out
}
