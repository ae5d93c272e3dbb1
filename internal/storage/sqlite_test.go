package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveRun(t *testing.T) {
	store := openTestStore(t)

	in := Run{
		GameID:   "blockfall",
		Seed:     42,
		TickRate: 60,
		Config:   "board:\n  columns: 10\n",
		Inputs:   "steps:\n  - tick: 3\n    actions:\n      - left\n",
		Ticks:    1234,
		Score:    300,
		Lines:    3,
		Level:    1,
		Pieces:   17,
		GameOver: true,
	}
	saved, err := store.SaveRun(in)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if saved.RunID == "" || saved.ID == 0 {
		t.Fatalf("SaveRun() = %+v, want RunID and ID assigned", saved)
	}

	got, err := store.RunByID(saved.RunID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	got.CreatedAt = saved.CreatedAt
	if *got != saved {
		t.Errorf("RunByID() = %+v, want %+v", *got, saved)
	}

	missing, err := store.RunByID(NewRunID())
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestStoreSaveRunRejectsBadID(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(Run{RunID: "not-a-uuid", GameID: "blockfall"}); err == nil {
		t.Error("SaveRun() with invalid id should fail")
	}
}

func TestStoreFindRunPrefix(t *testing.T) {
	store := openTestStore(t)

	a, _ := store.SaveRun(Run{RunID: "11111111-0000-4000-8000-000000000001", GameID: "blockfall"})
	_, _ = store.SaveRun(Run{RunID: "11111111-0000-4000-8000-000000000002", GameID: "blockfall"})
	c, _ := store.SaveRun(Run{RunID: "22222222-0000-4000-8000-000000000003", GameID: "blockfall"})

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr error
	}{
		{name: "full id", prefix: a.RunID, want: a.RunID},
		{name: "unique prefix", prefix: "2222", want: c.RunID},
		{name: "longer prefix", prefix: "22222222-0000", want: c.RunID},
		{name: "ambiguous", prefix: "1111", wantErr: ErrAmbiguousRun},
		{name: "no match", prefix: "3333"},
		{name: "empty", prefix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FindRun(tt.prefix)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FindRun(%q) error = %v, want %v", tt.prefix, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindRun(%q) error = %v", tt.prefix, err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("FindRun(%q) = %s, want nil", tt.prefix, got.RunID)
				}
				return
			}
			if got == nil || got.RunID != tt.want {
				t.Errorf("FindRun(%q) = %v, want %s", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestStoreRecentAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveRun(Run{GameID: "blockfall", Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(Run{GameID: "blockfall_bag", Score: 500}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	recent, err := store.RecentRuns("blockfall", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(recent))
	}
	// Same-second inserts fall back to insertion order, newest first.
	if recent[0].Score != 200 || recent[2].Score != 100 {
		t.Errorf("RecentRuns order = %d, %d, %d", recent[0].Score, recent[1].Score, recent[2].Score)
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns(all) failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 runs across games, got %d", len(all))
	}

	top, err := store.TopRuns("blockfall", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 || top[0].Score != 200 || top[1].Score != 100 {
		t.Errorf("TopRuns() = %+v", top)
	}
}

func TestStoreDeleteRun(t *testing.T) {
	store := openTestStore(t)

	run, err := store.SaveRun(Run{GameID: "blockfall"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if err := store.DeleteRun(run.RunID); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}
	if got, _ := store.RunByID(run.RunID); got != nil {
		t.Error("run still present after DeleteRun()")
	}
	if err := store.DeleteRun(run.RunID); err != nil {
		t.Errorf("DeleteRun(missing) error = %v", err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("blockfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.RunsCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	for _, r := range []Run{
		{GameID: "blockfall", Score: 100, Lines: 1, Ticks: 500},
		{GameID: "blockfall", Score: 300, Lines: 3, Ticks: 700},
		{GameID: "blockfall_bag", Score: 50, Lines: 0, Ticks: 100},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	stats, err = store.GetGameStats("blockfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.RunsCount != 2 || stats.HighScore != 300 || stats.MostLines != 3 || stats.AvgScore != 200 || stats.TotalTicks != 1200 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["blockfall_bag"].HighScore != 50 {
		t.Errorf("GetAllGamesStats() = %v", all)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that nested directories are created
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
