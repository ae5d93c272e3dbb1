package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := DecodeBlockfall(GetDefaultYAML())
	if err != nil {
		t.Fatalf("DecodeBlockfall(embedded) error = %v", err)
	}
	if want := DefaultBlockfallConfig(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, want)
	}
}

func TestDecodeLayersOverDefaults(t *testing.T) {
	cfg, err := DecodeBlockfall([]byte("board:\n  columns: 6\npieces:\n  policy: bag\n"))
	if err != nil {
		t.Fatalf("DecodeBlockfall error = %v", err)
	}
	if cfg.Board.Columns != 6 {
		t.Errorf("Columns = %d, want 6", cfg.Board.Columns)
	}
	if cfg.Board.Rows != 20 {
		t.Errorf("Rows = %d, want default 20", cfg.Board.Rows)
	}
	if cfg.Pieces.Policy != "bag" {
		t.Errorf("Policy = %q, want bag", cfg.Pieces.Policy)
	}
	if cfg.Timing.LockDelayMs != 400 {
		t.Errorf("LockDelayMs = %d, want default 400", cfg.Timing.LockDelayMs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BlockfallConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*BlockfallConfig) {}},
		{
			name:    "tiny board",
			mutate:  func(c *BlockfallConfig) { c.Board.Columns = 2 },
			wantErr: "at least 4x4",
		},
		{
			name:    "game over row above board",
			mutate:  func(c *BlockfallConfig) { c.Board.GameOverRow = 20 },
			wantErr: "game_over_row",
		},
		{
			name:    "preset taller than board",
			mutate:  func(c *BlockfallConfig) { c.Board.Rows = 4; c.Board.Preset = make([]string, 5) },
			wantErr: "preset",
		},
		{
			name:    "zero fall interval",
			mutate:  func(c *BlockfallConfig) { c.Timing.FallIntervalMs = 0 },
			wantErr: "fall_interval_ms",
		},
		{
			name:    "negative lock delay",
			mutate:  func(c *BlockfallConfig) { c.Timing.LockDelayMs = -1 },
			wantErr: "lock_delay_ms",
		},
		{
			name: "template without cells",
			mutate: func(c *BlockfallConfig) {
				c.Pieces.Templates = []TemplateConfig{{Name: "X"}}
			},
			wantErr: "pieces.templates[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBlockfallConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadBlockfallSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default.
	cfg, err := LoadBlockfall("")
	if err != nil {
		t.Fatalf("LoadBlockfall error = %v", err)
	}
	if cfg.Board.Columns != 10 {
		t.Errorf("embedded Columns = %d, want 10", cfg.Board.Columns)
	}

	writeConfig(t, filepath.Join(work, "configs", "blockfall.yaml"), "board:\n  columns: 8\n")
	cfg, _ = LoadBlockfall("")
	if cfg.Board.Columns != 8 {
		t.Errorf("local Columns = %d, want 8", cfg.Board.Columns)
	}

	writeConfig(t, filepath.Join(home, ".blockfall", "configs", "blockfall.yaml"), "board:\n  columns: 7\n")
	cfg, _ = LoadBlockfall("")
	if cfg.Board.Columns != 7 {
		t.Errorf("user Columns = %d, want 7", cfg.Board.Columns)
	}

	custom := filepath.Join(work, "custom.yaml")
	writeConfig(t, custom, "board:\n  columns: 5\n")
	cfg, _ = LoadBlockfall(custom)
	if cfg.Board.Columns != 5 {
		t.Errorf("custom Columns = %d, want 5", cfg.Board.Columns)
	}
}

func TestLoadBlockfallCustomErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadBlockfall(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeConfig(t, bad, "board:\n  columns: 1\n")
	if _, err := LoadBlockfall(bad); err == nil {
		t.Error("invalid custom config should fail")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultBlockfallConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard InitialLevel = %v, want 0.7", cfg.Difficulty.InitialLevel)
	}
	if cfg.Timing.LockDelayMs != 250 {
		t.Errorf("hard LockDelayMs = %d, want 250", cfg.Timing.LockDelayMs)
	}

	cfg = DefaultBlockfallConfig()
	ApplyPreset(&cfg, DifficultyEasy)
	if cfg.Timing.LockDelayMs != 600 {
		t.Errorf("easy LockDelayMs = %d, want 600", cfg.Timing.LockDelayMs)
	}

	cfg = DefaultBlockfallConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
	for _, p := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, ""} {
		if IsFixedPreset(p) {
			t.Errorf("IsFixedPreset(%q) = true", p)
		}
	}
	if !IsFixedPreset(DifficultyFixed) {
		t.Error("IsFixedPreset(fixed) = false")
	}

	if _, err := ParsePreset("brutal"); err == nil {
		t.Error("ParsePreset(brutal) should fail")
	}
}

func TestDifficultyFallInterval(t *testing.T) {
	dm := NewDifficultyManager(DefaultBlockfallConfig().Difficulty)

	tests := []struct {
		lines int
		want  int
	}{
		{lines: 0, want: 300},
		{lines: 75, want: 100},
		{lines: 150, want: 60},
		{lines: 1000, want: 60},
	}
	for _, tt := range tests {
		if got := dm.FallInterval(300, 50, tt.lines, 0); got != tt.want {
			t.Errorf("FallInterval(lines=%d) = %d, want %d", tt.lines, got, tt.want)
		}
	}

	if got := dm.FallInterval(300, 80, 150, 0); got != 80 {
		t.Errorf("FallInterval with floor = %d, want 80", got)
	}

	dm.SetEnabled(false)
	if got := dm.FallInterval(300, 50, 150, 0); got != 300 {
		t.Errorf("disabled FallInterval = %d, want 300", got)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
