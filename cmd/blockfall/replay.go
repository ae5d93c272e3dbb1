package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	bf "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/platform/headless"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a recorded run and verify the outcome",
	Long: `Loads a run from the journal, replays its seed, configuration and input
timeline, and checks that ticks, pieces, lines and score match the recording.
A unique prefix of the run ID is enough.

Examples:
  blockfall replay 3f2a9c1e
  blockfall replay 3f2a --print`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagPrint, "print", false, "Print the final board")
}

var (
	okStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(bf.ColorGreen.ANSI()))
	mismatchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(bf.ColorRed.ANSI()))
)

func runReplay(cmd *cobra.Command, args []string) {
	logger := newLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run journal: %v", err)
	}
	defer store.Close()

	run, err := store.FindRun(args[0])
	if err != nil {
		fail("%v", err)
	}
	if run == nil {
		fail("no run matches %q\nRun 'blockfall runs' to see recorded runs.", args[0])
	}

	res, view, err := replayRun(context.Background(), *run, logger)
	if err != nil {
		fail("%v", err)
	}

	if flagPrint {
		fmt.Println(view)
	}

	mismatches := compareRun(*run, res)
	if len(mismatches) == 0 {
		fmt.Println(okStyle.Render("OK") + fmt.Sprintf(" run %s replayed: %d ticks, %d pieces, %d lines, score %d",
			run.RunID, res.Ticks, res.Pieces, res.State.Lines, res.State.Score))
		return
	}

	fmt.Println(mismatchStyle.Render("MISMATCH") + " run " + run.RunID)
	for _, m := range mismatches {
		fmt.Println("  " + m)
	}
	os.Exit(1)
}

// replayRun re-simulates a recorded run and returns its result and final view.
func replayRun(ctx context.Context, run storage.Run, logger *log.Logger) (headless.Result, string, error) {
	cfg, err := config.DecodeBlockfall([]byte(run.Config))
	if err != nil {
		return headless.Result{}, "", fmt.Errorf("run %s: %w", run.RunID, err)
	}
	script, err := headless.ParseScript([]byte(run.Inputs))
	if err != nil {
		return headless.Result{}, "", fmt.Errorf("run %s: %w", run.RunID, err)
	}

	game, err := newGame(run.GameID, cfg)
	if err != nil {
		return headless.Result{}, "", fmt.Errorf("run %s: %w", run.RunID, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("replaying", "run", run.RunID, "seed", run.Seed, "inputs", script.Len())
	res, err := headless.NewRunner(game, headless.Options{
		Config:         core.RuntimeConfig{TickRate: run.TickRate, Seed: run.Seed},
		MaxTicks:       uint64(run.Ticks),
		Input:          script,
		StopOnGameOver: true,
		Logger:         logger,
	}).Run(ctx)
	if err != nil {
		return headless.Result{}, "", err
	}
	return res, game.View(), nil
}

// compareRun lists every recorded figure the replay did not reproduce.
func compareRun(run storage.Run, res headless.Result) []string {
	var out []string
	check := func(name string, recorded, replayed any) {
		if recorded != replayed {
			out = append(out, fmt.Sprintf("%s: recorded %v, replayed %v", name, recorded, replayed))
		}
	}
	check("ticks", run.Ticks, int64(res.Ticks))
	check("pieces", run.Pieces, res.Pieces)
	check("lines", run.Lines, res.State.Lines)
	check("level", run.Level, res.State.Level)
	check("score", run.Score, res.State.Score)
	check("game over", run.GameOver, res.State.GameOver)
	return out
}
