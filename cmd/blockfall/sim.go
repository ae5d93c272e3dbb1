package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	bf "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/platform/headless"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagTicks       uint64
	flagScript      string
	flagRandomInput float64
	flagPolicy      string
	flagRecord      bool
	flagWatch       bool
	flagPrint       bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Run a headless simulation",
	Long: `Simulate a game mode (default "blockfall") until game over or --ticks.

Input comes from a YAML script (--script), from reproducible random play
(--random-input <density>), or from nowhere: pieces then just fall.

Script format:
  steps:
    - tick: 12
      actions: [left, rotate]
    - tick: 30
      actions: [hard_drop]

Actions: left, right, soft_drop, hard_drop, rotate, rotate_ccw, pause, quit

Examples:
  blockfall sim --print
  blockfall sim --random-input 0.2 --seed 7 --record
  blockfall sim blockfall_bag --ticks 3600 --watch
  blockfall sim --script ./moves.yaml --policy bag`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().Uint64Var(&flagTicks, "ticks", 0, "Stop after this many ticks (0 = until game over)")
	simCmd.Flags().StringVar(&flagScript, "script", "", "YAML input script")
	simCmd.Flags().Float64Var(&flagRandomInput, "random-input", 0, "Random play: fraction of ticks with an action (0 disables)")
	simCmd.Flags().StringVar(&flagPolicy, "policy", "", "Piece draw policy override: uniform, bag")
	simCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the journal")
	simCmd.Flags().BoolVar(&flagWatch, "watch", false, "Show the run in real time, q stops it (needs a terminal)")
	simCmd.Flags().BoolVar(&flagPrint, "print", false, "Print the final board")
}

func runSim(cmd *cobra.Command, args []string) {
	logger := newLogger()

	mode := string(blockfall.ModeClassic)
	if len(args) == 1 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		fail("unknown game mode %q\nRun 'blockfall list' to see available modes.", mode)
	}
	if flagScript != "" && flagRandomInput > 0 {
		fail("--script and --random-input are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	if flagPolicy != "" {
		cfg.Pieces.Policy = flagPolicy
	}

	game, err := newGame(mode, cfg)
	if err != nil {
		fail("%v", err)
	}

	// Use time-based seed if not specified
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var input headless.InputSource
	switch {
	case flagScript != "":
		script, err := headless.LoadScript(flagScript)
		if err != nil {
			fail("%v", err)
		}
		input = script
	case flagRandomInput > 0:
		input = headless.NewRandomSource(seed, flagRandomInput)
	}

	var rec *headless.Recorder
	if flagRecord {
		if input == nil {
			input = headless.NewScript()
		}
		rec = headless.NewRecorder(input)
		input = rec
	}

	opts := headless.Options{
		Config:         core.RuntimeConfig{TickRate: flagFPS, Seed: seed},
		MaxTicks:       flagTicks,
		Input:          input,
		StopOnGameOver: true,
		Logger:         logger,
	}
	if flagWatch {
		if err := checkTerminal(cfg.Board); err != nil {
			fail("%v", err)
		}
		opts.Realtime = true
		opts.Views = true
		opts.FrameBuffer = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := headless.NewRunner(game, opts)
	var res headless.Result
	if flagWatch {
		res, err = tui.Watch(ctx, runner, fmt.Sprintf("Blockfall - %s (seed %d)", mode, seed))
	} else {
		res, err = runner.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fail("%v", err)
	}

	// The watch view leaves the alternate screen on exit.
	if flagPrint || flagWatch {
		fmt.Println(game.View())
	}
	printSummary(mode, seed, res)

	if rec != nil {
		saved, err := recordRun(game, mode, seed, opts.Config.TickRate, rec.Script(), res)
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(helpStyle.Render(fmt.Sprintf("Recorded run %s. Verify with 'blockfall replay %s'.", saved.RunID, saved.RunID[:8])))
	}
}

// checkTerminal rejects --watch when stdout cannot show the whole board.
func checkTerminal(board config.BoardConfig) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("--watch needs a terminal on stdout")
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("cannot read terminal size: %w", err)
	}
	// Board plus the status line.
	if w < board.Columns || h < board.Rows+1 {
		return fmt.Errorf("terminal is %dx%d, board needs %dx%d", w, h, board.Columns, board.Rows+1)
	}
	return nil
}

func recordRun(game configurable, mode string, seed int64, tickRate int, script *headless.Script, res headless.Result) (storage.Run, error) {
	cfgYAML, err := config.EncodeBlockfall(game.Config())
	if err != nil {
		return storage.Run{}, err
	}
	inputs, err := script.Marshal()
	if err != nil {
		return storage.Run{}, err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return storage.Run{}, err
	}
	defer store.Close()

	return store.SaveRun(storage.Run{
		GameID:   mode,
		Seed:     seed,
		TickRate: tickRate,
		Config:   string(cfgYAML),
		Inputs:   string(inputs),
		Ticks:    int64(res.Ticks),
		Score:    res.State.Score,
		Lines:    res.State.Lines,
		Level:    res.State.Level,
		Pieces:   res.Pieces,
		GameOver: res.State.GameOver,
	})
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	valueStyle = lipgloss.NewStyle().Bold(true)
	overStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(bf.ColorRed.ANSI()))
)

func printSummary(mode string, seed int64, res headless.Result) {
	line := func(label string, value any) {
		fmt.Println(labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value)))
	}
	line("mode", mode)
	line("seed", seed)
	line("ticks", res.Ticks)
	line("pieces", res.Pieces)
	line("lines", res.State.Lines)
	line("level", res.State.Level)
	line("score", res.State.Score)
	if res.State.GameOver {
		fmt.Println(overStyle.Render("GAME OVER"))
	}
}
