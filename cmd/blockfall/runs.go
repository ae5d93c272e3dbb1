package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagRunsGame   string
	flagRunsLimit  int
	flagRunsTop    bool
	flagRunsStats  bool
	flagRunsDelete string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded runs",
	Long: `Lists runs saved with 'blockfall sim --record', newest first.

Examples:
  blockfall runs
  blockfall runs --game blockfall_bag --top
  blockfall runs --stats
  blockfall runs --stats --game blockfall
  blockfall runs --delete 3f2a`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&flagRunsGame, "game", "", "Only show runs of this game mode")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsTop, "top", false, "Order by score instead of date (needs --game)")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-mode statistics instead of runs")
	runsCmd.Flags().StringVar(&flagRunsDelete, "delete", "", "Delete the run with this ID (a unique prefix is enough)")
}

func runRuns(cmd *cobra.Command, args []string) {
	if flagRunsGame != "" && !registry.Exists(flagRunsGame) {
		fail("unknown game mode %q\nRun 'blockfall list' to see available modes.", flagRunsGame)
	}
	if flagRunsTop && flagRunsGame == "" {
		fail("--top needs --game")
	}

	// Open run journal
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run journal: %v", err)
	}
	defer store.Close()

	if flagRunsDelete != "" {
		run, err := deleteRun(store, flagRunsDelete)
		if err != nil {
			fail("%v", err)
		}
		fmt.Println(helpStyle.Render(fmt.Sprintf("Deleted run %s (%s, score %d).", run.RunID, run.GameID, run.Score)))
		return
	}

	if flagRunsStats {
		showStats(store, flagRunsGame)
		return
	}

	var runs []storage.Run
	if flagRunsTop {
		runs, err = store.TopRuns(flagRunsGame, flagRunsLimit)
	} else {
		runs, err = store.RecentRuns(flagRunsGame, flagRunsLimit)
	}
	if err != nil {
		fail("%v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'blockfall sim --record' to record the first one!")
		return
	}

	t := newTable("Run", "Mode", "Seed", "Ticks", "Pieces", "Lines", "Score", "Date")
	for _, r := range runs {
		t.Row(
			r.RunID[:8],
			r.GameID,
			fmt.Sprint(r.Seed),
			fmt.Sprint(r.Ticks),
			fmt.Sprint(r.Pieces),
			fmt.Sprint(r.Lines),
			fmt.Sprint(r.Score),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t)
	fmt.Println(helpStyle.Render("Run 'blockfall replay <run>' to verify a run."))
}

// deleteRun removes the single run whose ID starts with prefix.
func deleteRun(store *storage.Store, prefix string) (storage.Run, error) {
	run, err := store.FindRun(prefix)
	if err != nil {
		return storage.Run{}, err
	}
	if run == nil {
		return storage.Run{}, fmt.Errorf("no run matches %q", prefix)
	}
	if err := store.DeleteRun(run.RunID); err != nil {
		return storage.Run{}, err
	}
	return *run, nil
}

// loadStats returns statistics ordered by mode, only for gameID when set.
// Modes without runs are left out.
func loadStats(store *storage.Store, gameID string) ([]*storage.GameStats, error) {
	if gameID != "" {
		s, err := store.GetGameStats(gameID)
		if err != nil {
			return nil, err
		}
		if s.RunsCount == 0 {
			return nil, nil
		}
		return []*storage.GameStats{s}, nil
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		return nil, err
	}
	stats := make([]*storage.GameStats, 0, len(all))
	for _, s := range all {
		stats = append(stats, s)
	}
	slices.SortFunc(stats, func(a, b *storage.GameStats) int {
		return cmp.Compare(a.GameID, b.GameID)
	})
	return stats, nil
}

func showStats(store *storage.Store, gameID string) {
	stats, err := loadStats(store, gameID)
	if err != nil {
		fail("%v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	t := newTable("Mode", "Runs", "Best", "Avg", "Most lines", "Ticks", "Last played")
	for _, s := range stats {
		t.Row(
			s.GameID,
			fmt.Sprint(s.RunsCount),
			fmt.Sprint(s.HighScore),
			fmt.Sprintf("%.0f", s.AvgScore),
			fmt.Sprint(s.MostLines),
			fmt.Sprint(s.TotalTicks),
			s.LastPlayed.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t)
}
