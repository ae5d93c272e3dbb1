package config

import "math"

// DifficultyManager calculates dynamic game parameters based on lines/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on lines/ticks.
func (d *DifficultyManager) Level(lines int, ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "lines":
		progress = float64(lines) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the current gravity speed multiplier based on difficulty level.
func (d *DifficultyManager) Speed(lines int, ticks uint64) float64 {
	level := d.Level(lines, ticks)
	// Speed increases from 1 to 1 + speedMultiplier
	return 1.0 + level*d.cfg.Scaling.SpeedMultiplier
}

// FallInterval returns the gravity step in milliseconds, never below minMs.
func (d *DifficultyManager) FallInterval(baseMs, minMs, lines int, ticks uint64) int {
	ms := int(math.Round(float64(baseMs) / d.Speed(lines, ticks)))
	if ms < minMs {
		ms = minMs
	}
	if ms < 1 {
		ms = 1
	}
	return ms
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
