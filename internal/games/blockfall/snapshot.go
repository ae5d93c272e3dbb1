package blockfall

import (
	"fmt"
	"strings"

	bf "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the complete game state for determinism testing, replay
// and rendering. It shares no memory with the running game.
type Snapshot struct {
	Tick   uint64
	Mode   string
	Score  int
	Lines  int
	Level  int
	Pieces int
	State  GameStateType
	Reason string // Game over reason, empty while playing

	Board  *bf.Board  // Locked cells only
	Piece  string     // Active template name, empty when no piece is in play
	Phase  bf.Phase   // Lifecycle stage of the active piece
	Active []bf.Coord // Cells of the active piece
	Ghost  []bf.Coord // Landing position of the active piece
	Next   string     // Preview template name
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	s := Snapshot{
		Tick:   g.tick,
		Mode:   string(g.mode),
		Score:  g.score,
		Lines:  g.lines,
		Level:  g.level,
		Pieces: g.pieces,
		State:  state,
		Reason: g.reason,
		Board:  g.board.Clone(),
		Phase:  g.phase,
		Next:   g.queue.Peek().Name(),
	}
	if !g.active.Empty() {
		s.Piece = g.active.Template.Name()
		s.Active = g.active.Cells()
		s.Ghost = bf.Ghost(g.active, g.board).Cells()
	}
	return s
}

// Cell glyphs used by Snapshot.String.
const (
	GlyphEmpty  = '.'
	GlyphLocked = '#'
	GlyphActive = '@'
	GlyphGhost  = '+'
)

// String renders the playfield top row first, followed by a status line.
// The active piece is drawn over its ghost.
func (s Snapshot) String() string {
	cols, rows := s.Board.Columns(), s.Board.Rows()
	grid := make([][]byte, rows)
	for i, line := range s.Board.Grid() {
		grid[i] = make([]byte, cols)
		for col, filled := range line {
			if filled {
				grid[i][col] = GlyphLocked
			} else {
				grid[i][col] = GlyphEmpty
			}
		}
	}

	paint := func(cells []bf.Coord, glyph byte) {
		for _, c := range cells {
			if s.Board.InBounds(c.Col, c.Row) {
				grid[rows-1-c.Row][c.Col] = glyph
			}
		}
	}
	paint(s.Ghost, GlyphGhost)
	paint(s.Active, GlyphActive)

	var sb strings.Builder
	for _, line := range grid {
		sb.Write(line)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "score %d  lines %d  level %d  next %s", s.Score, s.Lines, s.Level, s.Next)
	switch s.State {
	case StateGameOver:
		fmt.Fprintf(&sb, "  GAME OVER (%s)", s.Reason)
	case StatePaused:
		sb.WriteString("  PAUSED")
	}
	return sb.String()
}

// View returns the text rendering of the current state.
func (g *Game) View() string {
	return g.Snapshot().String()
}
