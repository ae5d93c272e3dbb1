package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBlockfall loads Blockfall configuration.
// Search order: customPath -> ~/.blockfall/configs/blockfall.yaml -> ./configs/blockfall.yaml -> embedded default
//
// Files are layered over the defaults, so a file only needs the keys it changes.
func LoadBlockfall(customPath string) (BlockfallConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BlockfallConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := DecodeBlockfall(data)
		if err != nil {
			return BlockfallConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("blockfall.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := DecodeBlockfall(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "blockfall.yaml")); err == nil {
		if cfg, err := DecodeBlockfall(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := DecodeBlockfall(defaultBlockfallYAML)
	if err != nil {
		return DefaultBlockfallConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// DecodeBlockfall parses YAML over the default configuration and validates it.
func DecodeBlockfall(data []byte) (BlockfallConfig, error) {
	cfg := DefaultBlockfallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BlockfallConfig{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BlockfallConfig{}, err
	}
	return cfg, nil
}

// EncodeBlockfall renders the configuration as YAML.
func EncodeBlockfall(cfg BlockfallConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return data, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockfall", "configs", filename)
}
