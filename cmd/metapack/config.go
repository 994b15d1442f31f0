package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// config is the resolved CLI configuration: defaults, then the TOML file,
// then flags.
type config struct {
	Format       string
	LogLevel     zerolog.Level
	MaxDepth     int
	MaxInputSize int
}

type fileConfig struct {
	Format       string `toml:"format"`
	LogLevel     string `toml:"log_level"`
	MaxDepth     int    `toml:"max_depth"`
	MaxInputSize int    `toml:"max_input_size"`
}

func defaultConfig() config {
	return config{
		Format:   formatJSON,
		LogLevel: zerolog.WarnLevel,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("format") {
		f, err := parseFormat(raw.Format)
		if err != nil {
			return config{}, err
		}
		cfg.Format = f
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return config{}, fmt.Errorf("invalid max_depth: %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("max_input_size") {
		if raw.MaxInputSize < 0 {
			return config{}, fmt.Errorf("invalid max_input_size: %d", raw.MaxInputSize)
		}
		cfg.MaxInputSize = raw.MaxInputSize
	}

	return cfg, nil
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}
