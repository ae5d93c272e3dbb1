package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the default Blockfall configuration.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Board: BoardConfig{
			Columns:     10,
			Rows:        20,
			GameOverRow: -1,
		},
		Timing: TimingConfig{
			FallIntervalMs: 300,
			MinFallMs:      50,
			LockDelayMs:    400,
			SoftDropFactor: 10,
		},
		Scoring: ScoringConfig{
			PointsPerLine: 100,
			LinesPerLevel: 10,
		},
		Pieces: PiecesConfig{
			Policy: "uniform",
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "lines",
				MaxAt: 150,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 4.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBlockfallYAML
}
