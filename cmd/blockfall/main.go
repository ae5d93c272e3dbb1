// blockfall is a headless falling-block puzzle simulator.
//
// Usage:
//
//	blockfall list              - List game modes and the piece catalog
//	blockfall sim [mode]        - Run a simulation
//	blockfall replay <run-id>   - Re-simulate a recorded run and verify it
//	blockfall runs              - Show recorded runs
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.blockfall/runs.db)
//	--config <path>       - Custom game config YAML
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - headless falling-block puzzle simulator",
	Long: `Blockfall simulates the falling-block puzzle game without a UI.
Runs are deterministic for a seed and an input timeline, can be recorded
to a local journal and replayed later to verify the outcome.

Available commands:
  list     - Show game modes and the piece catalog
  sim      - Run a simulation
  replay   - Re-simulate a recorded run
  runs     - Show recorded runs

Examples:
  blockfall list
  blockfall sim --random-input 0.2 --print
  blockfall sim blockfall_bag --seed 42 --record
  blockfall sim --script ./moves.yaml --watch
  blockfall replay 3f2a`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q", flagLogLevel)
		}
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
		blockfall.SetConfigPath(flagConfig)
		blockfall.SetDifficultyPreset(flagDifficulty)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/runs.db", "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(runsCmd)
}

// newLogger builds the CLI logger at the --log-level threshold.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// loadConfig resolves the game configuration from --config and --difficulty.
func loadConfig() (config.BlockfallConfig, error) {
	cfg, err := config.LoadBlockfall(flagConfig)
	if err != nil {
		return config.BlockfallConfig{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.BlockfallConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

// configurable is a game that can be pinned to a configuration.
type configurable interface {
	registry.Game
	Configure(cfg config.BlockfallConfig) error
	Config() config.BlockfallConfig
}

// newGame creates a registered mode and pins it to cfg.
func newGame(mode string, cfg config.BlockfallConfig) (configurable, error) {
	g, err := registry.Create(mode)
	if err != nil {
		return nil, err
	}
	c, ok := g.(configurable)
	if !ok {
		return nil, fmt.Errorf("game mode %q cannot be configured", mode)
	}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
