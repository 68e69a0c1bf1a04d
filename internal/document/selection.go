package document

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Selection is a cursor or a highlighted range.
// Anchor is where the selection started, Active is where typing occurs.
type Selection struct {
	Anchor protocol.Position `json:"anchor"`
	Active protocol.Position `json:"active"`
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active protocol.Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// Cursor creates an empty selection at pos.
func Cursor(pos protocol.Position) Selection {
	return Selection{Anchor: pos, Active: pos}
}

func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// IsReversed reports whether the active end lies before the anchor.
func (s Selection) IsReversed() bool {
	return Before(s.Active, s.Anchor)
}

// Start returns the earlier of anchor and active.
func (s Selection) Start() protocol.Position {
	if s.IsReversed() {
		return s.Active
	}
	return s.Anchor
}

// End returns the later of anchor and active.
func (s Selection) End() protocol.Position {
	if s.IsReversed() {
		return s.Anchor
	}
	return s.Active
}

// Before reports whether a comes strictly before b.
func Before(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

// Offsets resolves the selection against d.
func (d *Document) Offsets(s Selection) (anchor, active int) {
	return d.OffsetAt(s.Anchor), d.OffsetAt(s.Active)
}

// SelectionOf builds a selection from byte offsets.
func (d *Document) SelectionOf(anchor, active int) Selection {
	return Selection{Anchor: d.PositionAt(anchor), Active: d.PositionAt(active)}
}
