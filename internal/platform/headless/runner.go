package headless

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Frame is the published view of one tick. It shares no memory with the game.
type Frame struct {
	Tick   uint64
	State  core.GameState
	Events []core.Event
	View   string // Empty unless Options.Views is set
}

// Options configures a Runner.
type Options struct {
	Config   core.RuntimeConfig
	MaxTicks uint64      // 0 runs until game over or cancellation
	Input    InputSource // nil means no input
	Realtime bool        // Pace ticks at Config.TickRate instead of running flat out

	// StopOnGameOver ends the run at game over instead of waiting for a
	// restart action from the input source.
	StopOnGameOver bool

	Views       bool // Attach the game's text view to every frame
	FrameBuffer int  // Capacity of the Frames channel; 0 disables it
	Logger      *log.Logger
}

// Result summarizes a finished run.
type Result struct {
	Ticks    uint64
	State    core.GameState
	Pieces   int // Pieces locked
	Restarts int
}

// Runner owns a game and steps it on a single goroutine.
type Runner struct {
	game   registry.Game
	opts   Options
	log    *log.Logger
	frames chan Frame
}

// NewRunner creates a runner for game.
func NewRunner(game registry.Game, opts Options) *Runner {
	if opts.Config.TickRate <= 0 {
		opts.Config.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Input == nil {
		opts.Input = idle{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Runner{
		game: game,
		opts: opts,
		log:  logger.With("game", game.ID()),
	}
	if opts.FrameBuffer > 0 {
		r.frames = make(chan Frame, opts.FrameBuffer)
	}
	return r
}

// Frames returns the frame channel, or nil when FrameBuffer is 0.
// The channel is closed when Run returns.
func (r *Runner) Frames() <-chan Frame {
	return r.frames
}

// Run resets the game and steps it until game over, MaxTicks or ctx is done.
// A cancelled context is reported as its error together with the partial result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.frames != nil {
		defer close(r.frames)
	}

	cfg := r.opts.Config
	r.game.Reset(cfg)
	r.log.Info("run started", "seed", cfg.Seed, "tick_rate", cfg.TickRate, "max_ticks", r.opts.MaxTicks)

	var ticker *time.Ticker
	if r.opts.Realtime {
		ticker = time.NewTicker(Interval(cfg.TickRate))
		defer ticker.Stop()
	}

	var res Result
	state := r.game.State()
	for r.opts.MaxTicks == 0 || res.Ticks < r.opts.MaxTicks {
		if err := ctx.Err(); err != nil {
			res.State = state
			r.log.Warn("run cancelled", "tick", res.Ticks, "err", err)
			return res, err
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				res.State = state
				r.log.Warn("run cancelled", "tick", res.Ticks, "err", ctx.Err())
				return res, ctx.Err()
			case <-ticker.C:
			}
		}

		res.Ticks++
		in := r.opts.Input.Frame(res.Ticks)

		// Check for restart
		if in.Has(core.ActionRestart) && state.GameOver {
			cfg.Seed++
			r.game.Reset(cfg)
			state = r.game.State()
			res.Restarts++
			r.log.Info("run restarted", "tick", res.Ticks, "seed", cfg.Seed)
			continue
		}

		step := r.game.Step(in)
		state = step.State
		res.Pieces += r.logEvents(res.Ticks, step.Events)

		if err := r.publish(ctx, res.Ticks, step); err != nil {
			res.State = state
			return res, err
		}
		if in.Has(core.ActionQuit) {
			break
		}
		if state.GameOver && r.opts.StopOnGameOver {
			break
		}
	}

	res.State = state
	r.log.Info("run finished", "ticks", res.Ticks, "score", state.Score, "lines", state.Lines, "pieces", res.Pieces, "game_over", state.GameOver)
	return res, nil
}

// logEvents reports events and returns the number of locked pieces.
func (r *Runner) logEvents(tick uint64, events []core.Event) int {
	locked := 0
	for _, e := range events {
		switch ev := e.(type) {
		case core.PieceLockedEvent:
			locked++
			r.log.Debug("piece locked", "tick", tick, "piece", ev.Piece, "rows", ev.Rows)
		case core.RowsClearedEvent:
			r.log.Debug("rows cleared", "tick", tick, "count", ev.Count, "rows", ev.Rows, "points", ev.Points)
		case core.LevelUpEvent:
			r.log.Debug("level up", "tick", tick, "level", ev.Level)
		case core.GameOverEvent:
			r.log.Info("game over", "tick", tick, "reason", ev.Reason)
		}
	}
	return locked
}

// publish hands a deep copy of the tick to the frame channel.
func (r *Runner) publish(ctx context.Context, tick uint64, step core.StepResult) error {
	if r.frames == nil {
		return nil
	}

	frame := Frame{
		Tick:   tick,
		State:  step.State,
		Events: cloneEvents(step.Events),
	}
	if r.opts.Views {
		frame.View = r.game.View()
	}

	select {
	case r.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cloneEvents copies events whose fields alias game memory.
func cloneEvents(events []core.Event) []core.Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]core.Event, len(events))
	for i, e := range events {
		switch ev := e.(type) {
		case core.PieceLockedEvent:
			ev.Rows = slices.Clone(ev.Rows)
			out[i] = ev
		case core.RowsClearedEvent:
			ev.Rows = slices.Clone(ev.Rows)
			out[i] = ev
		default:
			out[i] = e
		}
	}
	return out
}
