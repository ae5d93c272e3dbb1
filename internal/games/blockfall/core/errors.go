package core

import "errors"

var (
	// ErrOutOfBounds is returned when a board coordinate lies outside the grid.
	// It always signals a caller bug: the engine bounds-checks before it
	// queries occupancy.
	ErrOutOfBounds = errors.New("blockfall: coordinate out of bounds")

	// ErrIllegalLock is returned when a piece is locked over occupied or
	// out-of-range cells.
	ErrIllegalLock = errors.New("blockfall: illegal lock")

	// ErrInvalidBoard is returned for non-positive board dimensions or a
	// malformed board layout.
	ErrInvalidBoard = errors.New("blockfall: invalid board")

	// ErrInvalidTemplate is returned for piece templates that cannot rotate
	// about their pivot or have no cells.
	ErrInvalidTemplate = errors.New("blockfall: invalid piece template")
)
