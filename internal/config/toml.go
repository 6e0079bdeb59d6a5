// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/speedtype/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test     TestConfig     `toml:"test"`
	Passages PassagesConfig `toml:"passages"`
}

// TestConfig maps test-related settings.
type TestConfig struct {
	Tier         *string `toml:"tier"`
	PassagesFile *string `toml:"passages-file"`
	DBPath       *string `toml:"db"`
	LogPath      *string `toml:"log"`
	Debug        *bool   `toml:"debug"`
}

// PassagesConfig lists passages that replace the built-in ones per tier.
type PassagesConfig struct {
	Easy   []string `toml:"easy"`
	Medium []string `toml:"medium"`
	Hard   []string `toml:"hard"`
}

// Tiers returns the non-empty tiers.
func (p PassagesConfig) Tiers() map[model.Tier][]string {
	out := map[model.Tier][]string{}
	if len(p.Easy) > 0 {
		out[model.TierEasy] = p.Easy
	}
	if len(p.Medium) > 0 {
		out[model.TierMedium] = p.Medium
	}
	if len(p.Hard) > 0 {
		out[model.TierHard] = p.Hard
	}
	return out
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
