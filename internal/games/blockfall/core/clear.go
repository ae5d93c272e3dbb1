package core

import (
	"fmt"
	"slices"
)

// ClearResult reports the outcome of a line clear.
type ClearResult struct {
	Count int   // Number of rows removed
	Rows  []int // Board rows cleared, in processing (descending) order
}

// Lock commits p's cells into b and returns the distinct rows it touched,
// highest first. If any cell is out of bounds or already occupied it returns
// ErrIllegalLock and leaves b untouched. An empty piece locks nothing.
func Lock(p ActivePiece, b *Board) ([]int, error) {
	cells := p.Cells()
	for _, c := range cells {
		if !b.free(c) {
			return nil, fmt.Errorf("%w: %s at %s", ErrIllegalLock, p, c)
		}
	}

	rows := make([]int, 0, len(cells))
	for _, c := range cells {
		b.cells[b.index(c.Col, c.Row)] = true
		rows = append(rows, c.Row)
	}
	slices.Sort(rows)
	rows = slices.Compact(rows)
	slices.Reverse(rows)
	return rows, nil
}

// ClearCompletedRows removes every complete row among touched and collapses
// the rows above it. Rows are processed highest first: a collapse only moves
// rows above the cleared one, so the lower indices still to be processed
// stay valid.
func ClearCompletedRows(b *Board, touched []int) ClearResult {
	if len(touched) == 0 {
		return ClearResult{}
	}

	rows := slices.Clone(touched)
	slices.Sort(rows)
	rows = slices.Compact(rows)
	slices.Reverse(rows)

	var res ClearResult
	for _, row := range rows {
		if !b.RowComplete(row) {
			continue
		}
		// row is in range: RowComplete is false otherwise.
		_ = b.ClearRow(row)
		_ = b.CollapseAbove(row)
		res.Count++
		res.Rows = append(res.Rows, row)
	}
	return res
}

// ClearAllCompletedRows scans the whole board.
func ClearAllCompletedRows(b *Board) ClearResult {
	rows := make([]int, b.rows)
	for i := range rows {
		rows[i] = i
	}
	return ClearCompletedRows(b, rows)
}
