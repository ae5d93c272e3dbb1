package headless

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
)

// counterGame scores one point per tick and reports a two-row clear each tick.
type counterGame struct {
	resets int
	steps  int
	overAt int // Game over once steps reaches overAt; 0 never
	seed   int64
	rows   []int
}

func (g *counterGame) ID() string { return "counter" }

func (g *counterGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.seed = cfg.Seed
	g.rows = []int{1, 0}
}

func (g *counterGame) Step(in core.InputFrame) core.StepResult {
	if !g.State().GameOver {
		g.steps++
	}
	return core.StepResult{
		State:  g.State(),
		Events: []core.Event{core.RowsClearedEvent{Count: 2, Rows: g.rows}},
	}
}

func (g *counterGame) State() core.GameState {
	return core.GameState{Score: g.steps, GameOver: g.overAt > 0 && g.steps >= g.overAt}
}

func (g *counterGame) View() string { return fmt.Sprintf("step %d", g.steps) }

func TestRunMaxTicks(t *testing.T) {
	g := &counterGame{}
	r := NewRunner(g, Options{MaxTicks: 10})

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.Ticks != 10 || res.State.Score != 10 {
		t.Errorf("Result = %+v, want 10 ticks and score 10", res)
	}
	if g.resets != 1 {
		t.Errorf("resets = %d, want 1", g.resets)
	}
}

func TestRunStopsOnGameOver(t *testing.T) {
	g := &counterGame{overAt: 4}
	res, err := NewRunner(g, Options{MaxTicks: 100, StopOnGameOver: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.Ticks != 4 || !res.State.GameOver {
		t.Errorf("Result = %+v, want game over at tick 4", res)
	}
}

func TestRunRestart(t *testing.T) {
	g := &counterGame{overAt: 2}
	script, err := ParseScript([]byte("steps:\n  - tick: 3\n    actions: [restart]\n"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(g, Options{
		Config:   core.RuntimeConfig{TickRate: 60, Seed: 5},
		MaxTicks: 4,
		Input:    script,
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.Restarts != 1 || g.resets != 2 {
		t.Errorf("restarts = %d, resets = %d, want 1 and 2", res.Restarts, g.resets)
	}
	if g.seed != 6 {
		t.Errorf("restart seed = %d, want 6", g.seed)
	}
	if res.State.Score != 1 {
		t.Errorf("score after restart = %d, want 1", res.State.Score)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(&counterGame{}, Options{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if res.Ticks != 0 {
		t.Errorf("Ticks = %d, want 0", res.Ticks)
	}
}

func TestRunRealtimeCancelledByConsumer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 50ms between ticks leaves the consumer time to cancel before tick 4.
	r := NewRunner(&counterGame{}, Options{
		Config:      core.RuntimeConfig{TickRate: 20},
		Realtime:    true,
		FrameBuffer: 1,
	})
	go func() {
		for f := range r.Frames() {
			if f.Tick == 3 {
				cancel()
			}
		}
	}()

	res, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if res.Ticks != 3 {
		t.Errorf("Ticks = %d, want 3", res.Ticks)
	}
}

func TestFramesChannel(t *testing.T) {
	g := &counterGame{}
	r := NewRunner(g, Options{MaxTicks: 5, FrameBuffer: 8, Views: true})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run error = %v", err)
	}
	// The game mutates its slice after the run; frames must not see it.
	g.rows[0] = 99

	var ticks []uint64
	for f := range r.Frames() {
		ticks = append(ticks, f.Tick)
		if want := fmt.Sprintf("step %d", f.Tick); f.View != want {
			t.Errorf("tick %d view = %q, want %q", f.Tick, f.View, want)
		}
		ev, ok := f.Events[0].(core.RowsClearedEvent)
		if !ok || !slices.Equal(ev.Rows, []int{1, 0}) {
			t.Errorf("tick %d event = %+v", f.Tick, f.Events[0])
		}
	}
	if !slices.Equal(ticks, []uint64{1, 2, 3, 4, 5}) {
		t.Errorf("frame ticks = %v", ticks)
	}
}

func TestRecordedRunReplays(t *testing.T) {
	cfg := config.DefaultBlockfallConfig()
	rc := core.RuntimeConfig{TickRate: 60, Seed: 2024}

	play := func(src InputSource) (Result, string) {
		g, err := blockfall.NewWithConfig(blockfall.ModeClassic, cfg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := NewRunner(g, Options{
			Config:         rc,
			MaxTicks:       2000,
			Input:          src,
			StopOnGameOver: true,
		}).Run(context.Background())
		if err != nil {
			t.Fatalf("Run error = %v", err)
		}
		return res, g.View()
	}

	rec := NewRecorder(NewRandomSource(rc.Seed, 0.2))
	first, firstView := play(rec)
	second, secondView := play(rec.Script())

	if first != second {
		t.Errorf("replay result = %+v, recorded %+v", second, first)
	}
	if firstView != secondView {
		t.Errorf("replay view differs:\n%s\n---\n%s", secondView, firstView)
	}
	if first.Pieces == 0 {
		t.Error("random play locked no pieces")
	}
}
