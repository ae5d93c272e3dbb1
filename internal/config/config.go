// Package config provides YAML-based game configuration loading and
// difficulty management for Blockfall.
package config

import (
	"errors"
	"fmt"
)

// BlockfallConfig contains all configuration for the Blockfall game.
type BlockfallConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Timing     TimingConfig     `yaml:"timing"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Pieces     PiecesConfig     `yaml:"pieces"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the playfield.
type BoardConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	// GameOverRow is the lowest row that ends the game when a locked piece
	// reaches it. Negative means the top row.
	GameOverRow int `yaml:"game_over_row"`
	// Preset optionally pre-fills the board, top row first ('#' filled).
	// Lines may be fewer than Rows; they fill the bottom of the board.
	Preset []string `yaml:"preset,omitempty"`
}

// TimingConfig defines tick cadence in milliseconds.
type TimingConfig struct {
	FallIntervalMs int `yaml:"fall_interval_ms"` // Gravity step at level 1
	MinFallMs      int `yaml:"min_fall_ms"`      // Fastest gravity step
	LockDelayMs    int `yaml:"lock_delay_ms"`    // Grace time after landing
	SoftDropFactor int `yaml:"soft_drop_factor"` // Gravity multiplier while soft dropping
}

// ScoringConfig defines points awarded.
type ScoringConfig struct {
	PointsPerLine  int `yaml:"points_per_line"`  // Flat per row, no multi-row bonus
	SoftDropPoints int `yaml:"soft_drop_points"` // Per row of soft drop
	HardDropPoints int `yaml:"hard_drop_points"` // Per row of hard drop
	LinesPerLevel  int `yaml:"lines_per_level"`
}

// PiecesConfig selects the catalog and draw policy.
type PiecesConfig struct {
	Policy    string           `yaml:"policy"` // "uniform" or "bag"
	Templates []TemplateConfig `yaml:"templates,omitempty"`
}

// TemplateConfig describes a custom piece shape.
type TemplateConfig struct {
	Name  string    `yaml:"name"`
	Color string    `yaml:"color"`
	Pivot []float64 `yaml:"pivot"` // [col, row], may be half-integers
	Cells [][2]int  `yaml:"cells"` // [col, row] offsets, row up
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "lines", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Lines/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Gravity speed-up added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *BlockfallConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Timing.LockDelayMs = max(cfg.Timing.LockDelayMs, 600)
	case DifficultyHard:
		cfg.Timing.LockDelayMs = min(cfg.Timing.LockDelayMs, 250)
	}
}

// Validate rejects settings the simulation cannot run with.
func (c BlockfallConfig) Validate() error {
	var errs []error
	if c.Board.Columns < 4 || c.Board.Rows < 4 {
		errs = append(errs, fmt.Errorf("board must be at least 4x4, got %dx%d", c.Board.Columns, c.Board.Rows))
	}
	if c.Board.GameOverRow >= c.Board.Rows {
		errs = append(errs, fmt.Errorf("game_over_row %d outside %d rows", c.Board.GameOverRow, c.Board.Rows))
	}
	if len(c.Board.Preset) > c.Board.Rows {
		errs = append(errs, fmt.Errorf("preset has %d lines for %d rows", len(c.Board.Preset), c.Board.Rows))
	}
	if c.Timing.FallIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("fall_interval_ms must be positive, got %d", c.Timing.FallIntervalMs))
	}
	if c.Timing.LockDelayMs < 0 {
		errs = append(errs, fmt.Errorf("lock_delay_ms must not be negative, got %d", c.Timing.LockDelayMs))
	}
	if c.Scoring.PointsPerLine < 0 {
		errs = append(errs, fmt.Errorf("points_per_line must not be negative, got %d", c.Scoring.PointsPerLine))
	}
	for i, tc := range c.Pieces.Templates {
		if tc.Name == "" || len(tc.Cells) == 0 {
			errs = append(errs, fmt.Errorf("pieces.templates[%d] needs a name and cells", i))
		}
		if len(tc.Pivot) != 0 && len(tc.Pivot) != 2 {
			errs = append(errs, fmt.Errorf("pieces.templates[%d] pivot must be [col, row]", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
