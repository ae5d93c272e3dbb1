package core

import "fmt"

// Coord represents a cell position on the board.
// Col increases to the right, Row increases upward (row 0 is the floor).
type Coord struct {
	Col int
	Row int
}

// C is a convenience constructor for Coord.
func C(col, row int) Coord {
	return Coord{Col: col, Row: row}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Add returns a new Coord offset by (dc, dr).
func (c Coord) Add(dc, dr int) Coord {
	return Coord{Col: c.Col + dc, Row: c.Row + dr}
}

// AddCoord returns the sum of two coordinates.
func (c Coord) AddCoord(other Coord) Coord {
	return Coord{Col: c.Col + other.Col, Row: c.Row + other.Row}
}

// Step returns a new Coord one step in the given direction.
func (c Coord) Step(d Direction) Coord {
	dc, dr := d.Delta()
	return c.Add(dc, dr)
}

// Direction is a translation intent for the active piece.
type Direction uint8

const (
	DirDown Direction = iota
	DirLeft
	DirRight
)

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Delta returns the (dc, dr) offset for one step in this direction.
// Down decreases Row because row 0 is the floor.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Translate moves an anchor one step in the given direction.
// It is a pure coordinate add with no legality check.
func Translate(anchor Coord, d Direction) Coord {
	return anchor.Step(d)
}
