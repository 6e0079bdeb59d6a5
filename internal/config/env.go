package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment. Unset variables
// leave their field nil.
type EnvConfig struct {
	Tier         *string `env:"SPEEDTYPE_TIER"`
	PassagesFile *string `env:"SPEEDTYPE_PASSAGES"`
	DBPath       *string `env:"SPEEDTYPE_DB"`
	LogPath      *string `env:"SPEEDTYPE_LOG"`
	Debug        *bool   `env:"SPEEDTYPE_DEBUG"`
}

// LoadEnv parses EnvConfig from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Overlay returns file settings with every set environment value applied.
func (e EnvConfig) Overlay(file TestConfig) TestConfig {
	if e.Tier != nil {
		file.Tier = e.Tier
	}
	if e.PassagesFile != nil {
		file.PassagesFile = e.PassagesFile
	}
	if e.DBPath != nil {
		file.DBPath = e.DBPath
	}
	if e.LogPath != nil {
		file.LogPath = e.LogPath
	}
	if e.Debug != nil {
		file.Debug = e.Debug
	}
	return file
}
