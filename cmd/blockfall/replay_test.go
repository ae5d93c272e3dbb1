package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/headless"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func TestRecordAndReplay(t *testing.T) {
	flagDBPath = filepath.Join(t.TempDir(), "runs.db")
	logger := log.New(io.Discard)

	cfg := config.DefaultBlockfallConfig()
	game, err := newGame(string(blockfall.ModeBag), cfg)
	if err != nil {
		t.Fatal(err)
	}

	const seed, tickRate = 77, 60
	rec := headless.NewRecorder(headless.NewRandomSource(seed, 0.25))
	res, err := headless.NewRunner(game, headless.Options{
		Config:         core.RuntimeConfig{TickRate: tickRate, Seed: seed},
		MaxTicks:       1500,
		Input:          rec,
		StopOnGameOver: true,
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	saved, err := recordRun(game, string(blockfall.ModeBag), seed, tickRate, rec.Script(), res)
	if err != nil {
		t.Fatalf("recordRun error = %v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	run, err := store.FindRun(saved.RunID[:8])
	if err != nil || run == nil {
		t.Fatalf("FindRun = %v, %v", run, err)
	}

	replayed, view, err := replayRun(context.Background(), *run, logger)
	if err != nil {
		t.Fatalf("replayRun error = %v", err)
	}
	if m := compareRun(*run, replayed); len(m) != 0 {
		t.Errorf("replay mismatches: %v", m)
	}
	if view != game.View() {
		t.Errorf("replayed board differs:\n%s\n---\n%s", view, game.View())
	}
}

func TestCompareRunReportsDifferences(t *testing.T) {
	run := storage.Run{Ticks: 100, Pieces: 5, Lines: 1, Level: 1, Score: 100}
	res := headless.Result{Ticks: 100, Pieces: 6, State: core.GameState{Lines: 1, Level: 1, Score: 200}}

	m := compareRun(run, res)
	if len(m) != 2 {
		t.Fatalf("compareRun = %v, want 2 mismatches", m)
	}
}
