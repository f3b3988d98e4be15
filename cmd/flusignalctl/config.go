package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the file-loadable subset of pipeline settings. Flags override
// whatever the config file provides.
type Config struct {
	TopK            int      `mapstructure:"top_k"`
	SmoothWindow    int      `mapstructure:"smooth_window"`
	AlignmentWindow int      `mapstructure:"alignment_window"`
	Detect          bool     `mapstructure:"detect"`
	Store           string   `mapstructure:"store"`
	DBPath          string   `mapstructure:"db_path"`
	GraphPath       string   `mapstructure:"graph"`
	KnownMutations  []string `mapstructure:"known_mutations"`
}

func defaultConfig() Config {
	return Config{
		TopK:         5,
		SmoothWindow: 3,
		DBPath:       "flusignal.db",
	}
}

// loadConfig reads a JSON/YAML/TOML config file when path is non-empty,
// otherwise returns defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("top_k", cfg.TopK)
	v.SetDefault("smooth_window", cfg.SmoothWindow)
	v.SetDefault("db_path", cfg.DBPath)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Store != "" {
		cfg.Store = strings.ToLower(cfg.Store)
	}
	return cfg, nil
}
