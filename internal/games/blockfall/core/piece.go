package core

import (
	"fmt"
	"math"
)

// Orientation is a clockwise quarter-turn count in [0, 3].
type Orientation uint8

// CW returns the orientation one quarter-turn clockwise.
func (o Orientation) CW() Orientation {
	return (o + 1) % 4
}

// CCW returns the orientation one quarter-turn counter-clockwise.
func (o Orientation) CCW() Orientation {
	return (o + 3) % 4
}

// Degrees returns the orientation as 0, 90, 180 or 270.
func (o Orientation) Degrees() int {
	return int(o%4) * 90
}

// Template is an immutable piece shape shared by every piece of its kind.
//
// The pivot is stored doubled so that both cell centres and bounding-box
// centres are exact integers. A clockwise quarter-turn maps a doubled offset
// d = 2*off - Pivot2 to (d.Row, -d.Col).
type Template struct {
	name    string
	color   Color
	pivot2  Coord
	offsets [4][]Coord
}

// NewTemplate validates and builds a template.
// pivot is given in cell units and may be a half-integer (e.g. 1.5) for
// shapes that turn about the centre of their bounding box.
func NewTemplate(name string, color Color, pivotCol, pivotRow float64, offsets []Coord) (*Template, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTemplate)
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: %s has no cells", ErrInvalidTemplate, name)
	}

	p2c, p2r := pivotCol*2, pivotRow*2
	if p2c != math.Trunc(p2c) || p2r != math.Trunc(p2r) {
		return nil, fmt.Errorf("%w: %s pivot (%v,%v) is not on a half-cell", ErrInvalidTemplate, name, pivotCol, pivotRow)
	}
	pivot2 := C(int(p2c), int(p2r))
	// Mixed parity would rotate cells onto half-cell positions.
	if (pivot2.Col-pivot2.Row)%2 != 0 {
		return nil, fmt.Errorf("%w: %s pivot (%v,%v) mixes cell and edge", ErrInvalidTemplate, name, pivotCol, pivotRow)
	}

	seen := make(map[Coord]bool, len(offsets))
	base := make([]Coord, len(offsets))
	for i, off := range offsets {
		if seen[off] {
			return nil, fmt.Errorf("%w: %s repeats cell %s", ErrInvalidTemplate, name, off)
		}
		seen[off] = true
		base[i] = off
	}

	t := &Template{name: name, color: color, pivot2: pivot2}
	t.offsets[0] = base
	for o := 1; o < 4; o++ {
		prev := t.offsets[o-1]
		next := make([]Coord, len(prev))
		for i, off := range prev {
			next[i] = t.turnCW(off)
		}
		t.offsets[o] = next
	}
	return t, nil
}

// MustTemplate is like NewTemplate but panics on error.
// Intended for package-level shape tables.
func MustTemplate(name string, color Color, pivotCol, pivotRow float64, offsets []Coord) *Template {
	t, err := NewTemplate(name, color, pivotCol, pivotRow, offsets)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) turnCW(off Coord) Coord {
	dc := 2*off.Col - t.pivot2.Col
	dr := 2*off.Row - t.pivot2.Row
	dc, dr = dr, -dc
	return C((dc+t.pivot2.Col)/2, (dr+t.pivot2.Row)/2)
}

// Name returns the template name (e.g. "T").
func (t *Template) Name() string {
	return t.name
}

// Color returns the display color.
func (t *Template) Color() Color {
	return t.color
}

// Size returns the number of cells.
func (t *Template) Size() int {
	return len(t.offsets[0])
}

// Offsets returns a copy of the cell offsets at the given orientation.
func (t *Template) Offsets(o Orientation) []Coord {
	src := t.offsets[o%4]
	out := make([]Coord, len(src))
	copy(out, src)
	return out
}

// Bounds returns the minimum and maximum offsets at the given orientation.
func (t *Template) Bounds(o Orientation) (lo, hi Coord) {
	offs := t.offsets[o%4]
	lo, hi = offs[0], offs[0]
	for _, off := range offs[1:] {
		lo.Col = min(lo.Col, off.Col)
		lo.Row = min(lo.Row, off.Row)
		hi.Col = max(hi.Col, off.Col)
		hi.Row = max(hi.Row, off.Row)
	}
	return lo, hi
}

// AbsoluteCells returns the board cells covered by t at anchor and orientation.
func AbsoluteCells(t *Template, anchor Coord, o Orientation) []Coord {
	if t == nil {
		return nil
	}
	offs := t.offsets[o%4]
	cells := make([]Coord, len(offs))
	for i, off := range offs {
		cells[i] = anchor.AddCoord(off)
	}
	return cells
}

// ActivePiece is the falling, player-controlled piece.
type ActivePiece struct {
	Template    *Template
	Anchor      Coord
	Orientation Orientation
}

// Cells returns the absolute cells of the piece.
// A piece without a template has no cells.
func (p ActivePiece) Cells() []Coord {
	return AbsoluteCells(p.Template, p.Anchor, p.Orientation)
}

// Empty reports whether the piece has no cells.
func (p ActivePiece) Empty() bool {
	return p.Template == nil || p.Template.Size() == 0
}

// String returns a short description for logs.
func (p ActivePiece) String() string {
	if p.Template == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s@%s/%d", p.Template.name, p.Anchor, p.Orientation.Degrees())
}
