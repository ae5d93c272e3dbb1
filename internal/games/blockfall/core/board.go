// Package core provides the grid/piece simulation for the Blockfall game.
// This package is UI-agnostic, deterministic, and never performs I/O.
package core

import (
	"fmt"
	"strings"
)

// Board is the occupancy grid of locked cells.
// Cells are stored in row-major order: index = row*Columns + col.
// Row 0 is the bottom row.
type Board struct {
	columns int
	rows    int
	cells   []bool
}

// NewBoard creates an empty board with the given dimensions.
func NewBoard(columns, rows int) (*Board, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBoard, columns, rows)
	}
	return &Board{
		columns: columns,
		rows:    rows,
		cells:   make([]bool, columns*rows),
	}, nil
}

// ParseBoard builds a board from text lines, top row first.
// '#' (or any non '.' / ' ' rune) marks an occupied cell.
// All lines must have the same width.
func ParseBoard(lines []string) (*Board, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidBoard)
	}
	width := len([]rune(lines[0]))
	b, err := NewBoard(width, len(lines))
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: line %d has width %d, want %d", ErrInvalidBoard, i, len(runes), width)
		}
		row := b.rows - 1 - i
		for col, r := range runes {
			if r != '.' && r != ' ' {
				b.cells[b.index(col, row)] = true
			}
		}
	}
	return b, nil
}

// Columns returns the board width.
func (b *Board) Columns() int {
	return b.columns
}

// Rows returns the board height.
func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) index(col, row int) int {
	return row*b.columns + col
}

// InBounds reports whether (col, row) lies inside the grid.
func (b *Board) InBounds(col, row int) bool {
	return col >= 0 && col < b.columns && row >= 0 && row < b.rows
}

// Occupied reports whether the cell holds a locked block.
// Out-of-range coordinates fail with ErrOutOfBounds instead of being clamped.
func (b *Board) Occupied(col, row int) (bool, error) {
	if !b.InBounds(col, row) {
		return false, fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, C(col, row), b.columns, b.rows)
	}
	return b.cells[b.index(col, row)], nil
}

// free reports whether c is in bounds and unoccupied.
func (b *Board) free(c Coord) bool {
	return b.InBounds(c.Col, c.Row) && !b.cells[b.index(c.Col, c.Row)]
}

// SetOccupied writes a cell unconditionally. Legality is the engine's job.
func (b *Board) SetOccupied(col, row int, value bool) error {
	if !b.InBounds(col, row) {
		return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, C(col, row), b.columns, b.rows)
	}
	b.cells[b.index(col, row)] = value
	return nil
}

// RowComplete reports whether every column of the row is occupied.
// Out-of-range rows are never complete.
func (b *Board) RowComplete(row int) bool {
	if row < 0 || row >= b.rows {
		return false
	}
	start := b.index(0, row)
	for _, filled := range b.cells[start : start+b.columns] {
		if !filled {
			return false
		}
	}
	return true
}

// RowEmpty reports whether no column of the row is occupied.
func (b *Board) RowEmpty(row int) bool {
	if row < 0 || row >= b.rows {
		return true
	}
	start := b.index(0, row)
	for _, filled := range b.cells[start : start+b.columns] {
		if filled {
			return false
		}
	}
	return true
}

// ClearRow empties every cell in the row.
func (b *Board) ClearRow(row int) error {
	if row < 0 || row >= b.rows {
		return fmt.Errorf("%w: row %d on %dx%d board", ErrOutOfBounds, row, b.columns, b.rows)
	}
	start := b.index(0, row)
	clear(b.cells[start : start+b.columns])
	return nil
}

// CollapseAbove shifts every row above row down by one, keeping column
// alignment, and empties the top row. Row row itself is overwritten.
func (b *Board) CollapseAbove(row int) error {
	if row < 0 || row >= b.rows {
		return fmt.Errorf("%w: row %d on %dx%d board", ErrOutOfBounds, row, b.columns, b.rows)
	}
	for r := row + 1; r < b.rows; r++ {
		copy(b.cells[b.index(0, r-1):b.index(0, r)], b.cells[b.index(0, r):b.index(0, r)+b.columns])
	}
	top := b.index(0, b.rows-1)
	clear(b.cells[top : top+b.columns])
	return nil
}

// FilledCount returns the number of occupied cells.
func (b *Board) FilledCount() int {
	count := 0
	for _, filled := range b.cells {
		if filled {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]bool, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		columns: b.columns,
		rows:    b.rows,
		cells:   cells,
	}
}

// Equal returns true if two boards have the same dimensions and contents.
// A nil board equals nothing.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.columns != other.columns || b.rows != other.rows {
		return false
	}
	for i, filled := range b.cells {
		if filled != other.cells[i] {
			return false
		}
	}
	return true
}

// Grid returns a copy of the occupancy, top row first, for display.
func (b *Board) Grid() [][]bool {
	grid := make([][]bool, b.rows)
	for i := range grid {
		row := b.rows - 1 - i
		grid[i] = make([]bool, b.columns)
		copy(grid[i], b.cells[b.index(0, row):b.index(0, row)+b.columns])
	}
	return grid
}

// String renders the board as text, top row first ('#' filled, '.' empty).
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.columns + 1) * b.rows)
	for row := b.rows - 1; row >= 0; row-- {
		for col := 0; col < b.columns; col++ {
			if b.cells[b.index(col, row)] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
