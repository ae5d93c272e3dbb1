package core

// cellsFree reports whether every cell is in bounds and unoccupied.
// An empty set is vacuously free.
func cellsFree(cells []Coord, b *Board) bool {
	for _, c := range cells {
		if !b.free(c) {
			return false
		}
	}
	return true
}

// CanMove reports whether p can take one step in dir on b.
// All cells are checked, which covers the leading edge.
func CanMove(p ActivePiece, dir Direction, b *Board) bool {
	return cellsFree(AbsoluteCells(p.Template, Translate(p.Anchor, dir), p.Orientation), b)
}

// Move steps p in dir if legal. On false, p is unchanged.
func Move(p *ActivePiece, dir Direction, b *Board) bool {
	if !CanMove(*p, dir, b) {
		return false
	}
	p.Anchor = Translate(p.Anchor, dir)
	return true
}

// DropDistance returns how many rows p can fall before landing.
func DropDistance(p ActivePiece, b *Board) int {
	if p.Empty() {
		return 0
	}
	n := 0
	for CanMove(p, DirDown, b) {
		p.Anchor = Translate(p.Anchor, DirDown)
		n++
	}
	return n
}

// HardDrop moves p straight down until it lands and returns the rows travelled.
func HardDrop(p *ActivePiece, b *Board) int {
	n := DropDistance(*p, b)
	p.Anchor = p.Anchor.Add(0, -n)
	return n
}

// Ghost returns p at its landing position.
func Ghost(p ActivePiece, b *Board) ActivePiece {
	p.Anchor = p.Anchor.Add(0, -DropDistance(p, b))
	return p
}

// kick returns the anchor shift that brings every cell in range, correcting
// columns first and rows only if still needed. ok is false when the cells
// span more than the board in either axis.
func kick(cells []Coord, b *Board) (shift Coord, ok bool) {
	if len(cells) == 0 {
		return Coord{}, true
	}
	lo, hi := cells[0], cells[0]
	for _, c := range cells[1:] {
		lo.Col = min(lo.Col, c.Col)
		lo.Row = min(lo.Row, c.Row)
		hi.Col = max(hi.Col, c.Col)
		hi.Row = max(hi.Row, c.Row)
	}
	if hi.Col-lo.Col >= b.columns || hi.Row-lo.Row >= b.rows {
		return Coord{}, false
	}

	switch {
	case lo.Col < 0:
		shift.Col = -lo.Col
	case hi.Col >= b.columns:
		shift.Col = b.columns - 1 - hi.Col
	}
	switch {
	case lo.Row < 0:
		shift.Row = -lo.Row
	case hi.Row >= b.rows:
		shift.Row = b.rows - 1 - hi.Row
	}
	return shift, true
}

// rotated computes the piece after turning to o, applying a wall-kick if the
// turned cells leave the board. ok is false if the result is illegal.
func rotated(p ActivePiece, o Orientation, b *Board) (ActivePiece, bool) {
	next := p
	next.Orientation = o
	if p.Empty() {
		return next, true
	}

	shift, ok := kick(next.Cells(), b)
	if !ok {
		return p, false
	}
	next.Anchor = next.Anchor.AddCoord(shift)
	if !cellsFree(next.Cells(), b) {
		return p, false
	}
	return next, true
}

// CanRotate reports whether p can turn clockwise, wall-kick included.
func CanRotate(p ActivePiece, b *Board) bool {
	_, ok := rotated(p, p.Orientation.CW(), b)
	return ok
}

// Rotate turns p clockwise, kicking it back inside the walls if needed.
// Either the turn and correction both apply or p is left untouched.
func Rotate(p *ActivePiece, b *Board) bool {
	next, ok := rotated(*p, p.Orientation.CW(), b)
	if !ok {
		return false
	}
	*p = next
	return true
}

// CanRotateCCW reports whether p can turn counter-clockwise.
func CanRotateCCW(p ActivePiece, b *Board) bool {
	_, ok := rotated(p, p.Orientation.CCW(), b)
	return ok
}

// RotateCCW is the counter-clockwise counterpart of Rotate.
func RotateCCW(p *ActivePiece, b *Board) bool {
	next, ok := rotated(*p, p.Orientation.CCW(), b)
	if !ok {
		return false
	}
	*p = next
	return true
}
