package core

// Event is a notification emitted by a simulation tick for the score, UI
// and render collaborators. Events never carry mutable game state.
type Event interface {
	event()
}

// PieceSpawnedEvent is emitted when a new piece enters the board.
type PieceSpawnedEvent struct {
	Piece string // Template name
	Next  string // Preview template name
}

func (PieceSpawnedEvent) event() {}

// PieceLockedEvent is emitted when the active piece is committed to the board.
type PieceLockedEvent struct {
	Piece string
	Rows  []int // Rows the piece touched, highest first
}

func (PieceLockedEvent) event() {}

// RowsClearedEvent is emitted after a lock that completed rows.
// Rows holds the board indices removed, in processing order.
type RowsClearedEvent struct {
	Count  int
	Rows   []int
	Points int
}

func (RowsClearedEvent) event() {}

// LevelUpEvent is emitted when cleared lines raise the level.
type LevelUpEvent struct {
	Level int
}

func (LevelUpEvent) event() {}

// GameOverEvent is emitted once when the game ends.
type GameOverEvent struct {
	Reason string // "top_out" or "spawn_blocked"
}

func (GameOverEvent) event() {}
