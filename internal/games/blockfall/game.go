// Package blockfall implements the falling-block puzzle game.
// The controller drives the pure simulation in the core subpackage: it spawns
// pieces, applies gravity and player intents, runs the lock delay and feeds
// completed rows to the line-clear engine.
package blockfall

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	bf "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "blockfall"     // Draw policy from config (uniform by default)
	ModeBag     Mode = "blockfall_bag" // Always deals from a shuffled bag
)

// Game over reasons carried by core.GameOverEvent.
const (
	ReasonTopOut       = "top_out"
	ReasonSpawnBlocked = "spawn_blocked"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// setup is everything Reset needs that is derived from configuration.
type setup struct {
	cfg     config.BlockfallConfig
	catalog *bf.Catalog
	preset  *bf.Board // nil when the board starts empty
}

// Game implements the Blockfall controller.
type Game struct {
	mode  Mode
	setup *setup // pinned by Configure; loaded on Reset otherwise

	runtime    core.RuntimeConfig
	cfg        config.BlockfallConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand
	tick       uint64

	board  *bf.Board
	queue  *bf.Queue
	active bf.ActivePiece
	phase  bf.Phase

	// Timers, in ticks
	fallTicks int
	lockTicks int
	fallTimer int
	lockTimer int

	score    int
	lines    int
	level    int
	pieces   int
	gameOver bool
	reason   string
	paused   bool

	pending []core.Event // Emitted by Reset, delivered on the next Step
}

// New creates a classic Blockfall game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewBag creates a Blockfall game that deals pieces from a shuffled bag.
func NewBag() *Game {
	return &Game{mode: ModeBag}
}

// NewWithConfig creates a game pinned to cfg.
func NewWithConfig(mode Mode, cfg config.BlockfallConfig) (*Game, error) {
	g := &Game{mode: mode}
	if err := g.Configure(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

func init() {
	registry.Register(string(ModeClassic), "Blockfall", func() registry.Game {
		return New()
	})
	registry.Register(string(ModeBag), "Blockfall (Bag)", func() registry.Game {
		return NewBag()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeBag {
		return string(ModeBag)
	}
	return string(ModeClassic)
}

// Configure pins the configuration used by every following Reset.
// Custom templates and the board preset are validated here.
func (g *Game) Configure(cfg config.BlockfallConfig) error {
	s, err := newSetup(cfg, g.mode)
	if err != nil {
		return err
	}
	g.setup = s
	return nil
}

// Config returns the configuration of the current round.
func (g *Game) Config() config.BlockfallConfig {
	return g.cfg
}

func newSetup(cfg config.BlockfallConfig, mode Mode) (*setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mode == ModeBag {
		cfg.Pieces.Policy = bf.PolicyBag
	}

	catalog, err := BuildCatalog(cfg.Pieces.Templates)
	if err != nil {
		return nil, err
	}
	// Reject unknown policies before the first Reset.
	if _, err := bf.NewPicker(cfg.Pieces.Policy, catalog, rand.New(rand.NewSource(0))); err != nil {
		return nil, err
	}

	s := &setup{cfg: cfg, catalog: catalog}
	if len(cfg.Board.Preset) > 0 {
		s.preset, err = presetBoard(cfg.Board)
		if err != nil {
			return nil, err
		}
		// A preset never starts with complete rows.
		bf.ClearAllCompletedRows(s.preset)
	}
	return s, nil
}

// loadSetup reads configuration the way the CLI left it.
func (g *Game) loadSetup() *setup {
	cfg, err := config.LoadBlockfall(configPath)
	if err != nil {
		cfg = config.DefaultBlockfallConfig()
	}
	config.ApplyPreset(&cfg, difficultyPreset)

	s, err := newSetup(cfg, g.mode)
	if err != nil {
		// Defaults always build.
		s, _ = newSetup(config.DefaultBlockfallConfig(), g.mode)
	}
	return s
}

// BuildCatalog converts configured templates into a catalog.
// No templates selects the standard seven.
func BuildCatalog(templates []config.TemplateConfig) (*bf.Catalog, error) {
	if len(templates) == 0 {
		return bf.StandardCatalog(), nil
	}
	out := make([]*bf.Template, 0, len(templates))
	for _, tc := range templates {
		offsets := make([]bf.Coord, len(tc.Cells))
		for i, c := range tc.Cells {
			offsets[i] = bf.C(c[0], c[1])
		}
		var pivotCol, pivotRow float64
		if len(tc.Pivot) == 2 {
			pivotCol, pivotRow = tc.Pivot[0], tc.Pivot[1]
		}
		color, _ := bf.ParseColor(tc.Color)
		t, err := bf.NewTemplate(tc.Name, color, pivotCol, pivotRow, offsets)
		if err != nil {
			return nil, fmt.Errorf("config: template %q: %w", tc.Name, err)
		}
		out = append(out, t)
	}
	return bf.NewCatalog(out...)
}

// presetBoard builds the starting board. Preset lines fill the bottom rows.
func presetBoard(bc config.BoardConfig) (*bf.Board, error) {
	b, err := bf.NewBoard(bc.Columns, bc.Rows)
	if err != nil {
		return nil, err
	}
	src, err := bf.ParseBoard(bc.Preset)
	if err != nil {
		return nil, err
	}
	if src.Columns() != bc.Columns {
		return nil, fmt.Errorf("%w: preset width %d, board has %d columns", bf.ErrInvalidBoard, src.Columns(), bc.Columns)
	}
	for row := 0; row < src.Rows(); row++ {
		for col := 0; col < src.Columns(); col++ {
			filled, _ := src.Occupied(col, row)
			if filled {
				if err := b.SetOccupied(col, row, true); err != nil {
					return nil, err
				}
			}
		}
	}
	return b, nil
}

// Reset initializes/restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = core.DefaultConfig().TickRate
	}
	g.runtime = runtime

	s := g.setup
	if s == nil {
		s = g.loadSetup()
	}
	g.cfg = s.cfg
	g.difficulty = config.NewDifficultyManager(s.cfg.Difficulty)

	if s.preset != nil {
		g.board = s.preset.Clone()
	} else {
		g.board, _ = bf.NewBoard(s.cfg.Board.Columns, s.cfg.Board.Rows)
	}

	g.rng = rand.New(rand.NewSource(runtime.Seed))
	picker, _ := bf.NewPicker(s.cfg.Pieces.Policy, s.catalog, g.rng)
	g.queue = bf.NewQueue(picker)

	g.tick = 0
	g.score = 0
	g.lines = 0
	g.level = 1
	g.pieces = 0
	g.gameOver = false
	g.reason = ""
	g.paused = false
	g.pending = nil
	g.active = bf.ActivePiece{}
	g.phase = bf.PhaseDespawned

	g.lockTicks = msToTicks(s.cfg.Timing.LockDelayMs, runtime.TickRate)
	g.updateSpeed()

	g.pending = g.spawn(g.pending)
}

// msToTicks converts a duration to whole ticks, rounding to nearest.
func msToTicks(ms, tickRate int) int {
	return (ms*tickRate + 500) / 1000
}

// updateSpeed recomputes the gravity interval for the current progress.
func (g *Game) updateSpeed() {
	t := g.cfg.Timing
	ms := g.difficulty.FallInterval(t.FallIntervalMs, t.MinFallMs, g.lines, g.tick)
	g.fallTicks = max(1, msToTicks(ms, g.runtime.TickRate))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	events := g.pending
	g.pending = nil

	// Handle pause
	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.paused || g.gameOver {
		return core.StepResult{State: g.State(), Events: events}
	}

	g.tick++

	// Player intents, in a fixed order
	if in.Has(core.ActionRotate) {
		bf.Rotate(&g.active, g.board)
	}
	if in.Has(core.ActionRotateCCW) {
		bf.RotateCCW(&g.active, g.board)
	}
	if in.Has(core.ActionLeft) {
		bf.Move(&g.active, bf.DirLeft, g.board)
	}
	if in.Has(core.ActionRight) {
		bf.Move(&g.active, bf.DirRight, g.board)
	}

	if in.Has(core.ActionHardDrop) {
		rows := bf.HardDrop(&g.active, g.board)
		g.score += rows * g.cfg.Scoring.HardDropPoints
		g.setPhase(bf.PhaseLanded)
		events = g.lock(events)
		return core.StepResult{State: g.State(), Events: events}
	}

	// A landed piece moved over a gap falls again
	if g.phase == bf.PhaseLanded && bf.CanMove(g.active, bf.DirDown, g.board) {
		g.setPhase(bf.PhaseFalling)
		g.fallTimer = 0
		g.lockTimer = 0
	}

	justLanded := false
	if g.phase == bf.PhaseSpawned || g.phase == bf.PhaseFalling {
		soft := in.Has(core.ActionSoftDrop)
		if soft {
			g.fallTimer += max(1, g.cfg.Timing.SoftDropFactor)
		} else {
			g.fallTimer++
		}
		if g.fallTimer >= g.fallTicks {
			g.fallTimer = 0
			g.updateSpeed()
			if bf.Move(&g.active, bf.DirDown, g.board) {
				g.setPhase(bf.PhaseFalling)
				if soft {
					g.score += g.cfg.Scoring.SoftDropPoints
				}
			} else {
				g.setPhase(bf.PhaseLanded)
				g.lockTimer = g.lockTicks
				justLanded = true
			}
		}
	}

	if g.phase == bf.PhaseLanded {
		if !justLanded {
			g.lockTimer--
		}
		if g.lockTimer <= 0 {
			events = g.lock(events)
		}
	}

	return core.StepResult{State: g.State(), Events: events}
}

// setPhase moves the active piece through its lifecycle.
// An illegal transition is a controller bug.
func (g *Game) setPhase(to bf.Phase) {
	if g.phase == to {
		return
	}
	if !g.phase.CanTransition(to) {
		panic(fmt.Sprintf("blockfall: illegal phase change %s -> %s", g.phase, to))
	}
	g.phase = to
}

// lock commits the active piece, clears rows and spawns the next piece.
func (g *Game) lock(events []core.Event) []core.Event {
	rows, err := bf.Lock(g.active, g.board)
	if err != nil {
		// The engine never lets the active piece overlap or leave the board.
		panic(fmt.Errorf("blockfall: lock %s: %w", g.active, err))
	}
	g.setPhase(bf.PhaseLocked)
	g.pieces++
	events = append(events, core.PieceLockedEvent{Piece: g.active.Template.Name(), Rows: rows})

	res := bf.ClearCompletedRows(g.board, rows)
	g.setPhase(bf.PhaseCleared)
	if res.Count > 0 {
		points := res.Count * g.cfg.Scoring.PointsPerLine
		g.score += points
		g.lines += res.Count
		events = append(events, core.RowsClearedEvent{Count: res.Count, Rows: res.Rows, Points: points})

		if lpl := g.cfg.Scoring.LinesPerLevel; lpl > 0 {
			if level := 1 + g.lines/lpl; level > g.level {
				g.level = level
				events = append(events, core.LevelUpEvent{Level: level})
			}
		}
		g.updateSpeed()
	}

	g.setPhase(bf.PhaseDespawned)
	g.active = bf.ActivePiece{}

	if g.toppedOut() {
		return g.end(events, ReasonTopOut)
	}
	return g.spawn(events)
}

// gameOverRow returns the lowest row whose occupancy ends the game.
func (g *Game) gameOverRow() int {
	if r := g.cfg.Board.GameOverRow; r >= 0 {
		return r
	}
	return g.board.Rows() - 1
}

func (g *Game) toppedOut() bool {
	for row := g.gameOverRow(); row < g.board.Rows(); row++ {
		if !g.board.RowEmpty(row) {
			return true
		}
	}
	return false
}

// spawn places the next piece, ending the game if the spawn cells are taken.
func (g *Game) spawn(events []core.Event) []core.Event {
	piece := bf.Spawn(g.queue.Next(), g.board)
	for _, c := range piece.Cells() {
		if filled, err := g.board.Occupied(c.Col, c.Row); err != nil || filled {
			return g.end(events, ReasonSpawnBlocked)
		}
	}

	g.active = piece
	g.phase = bf.PhaseSpawned
	g.fallTimer = 0
	g.lockTimer = 0
	return append(events, core.PieceSpawnedEvent{
		Piece: piece.Template.Name(),
		Next:  g.queue.Peek().Name(),
	})
}

func (g *Game) end(events []core.Event, reason string) []core.Event {
	g.gameOver = true
	g.reason = reason
	return append(events, core.GameOverEvent{Reason: reason})
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Lines:    g.lines,
		Level:    g.level,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Pieces returns the number of pieces locked this round.
func (g *Game) Pieces() int {
	return g.pieces
}
