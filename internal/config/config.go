// Package config loads cargomate.toml, found by walking up from the working
// directory. All settings are optional; missing files yield defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"cargomate/internal/triage"
)

// Config is the decoded cargomate.toml.
type Config struct {
	Cargo CargoConfig `toml:"cargo"`
	UI    UIConfig    `toml:"ui"`
	Coach CoachConfig `toml:"coach"`
}

// CargoConfig selects the compiler binary.
type CargoConfig struct {
	Bin string `toml:"bin"`
}

// UIConfig sets the default interface mode (auto|on|off).
type UIConfig struct {
	Mode string `toml:"mode"`
}

// CoachConfig overrides the coaching tip trigger points.
type CoachConfig struct {
	SlowBuildSeconds int `toml:"slow_build_seconds"`
	ManyWarnings     int `toml:"many_warnings"`
	ManyErrors       int `toml:"many_errors"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cargo: CargoConfig{Bin: "cargo"},
		UI:    UIConfig{Mode: "auto"},
	}
}

// Load finds and decodes cargomate.toml starting at startDir. The second
// result reports whether a file was found; without one the defaults are
// returned with a nil error.
func Load(startDir string) (Config, bool, error) {
	cfg := Default()
	path, ok, err := find(startDir)
	if err != nil || !ok {
		return cfg, ok, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Cargo.Bin == "" {
		cfg.Cargo.Bin = "cargo"
	}
	if cfg.UI.Mode == "" {
		cfg.UI.Mode = "auto"
	}
	return cfg, true, nil
}

// Thresholds converts the coach settings, falling back to the shipped
// defaults for unset fields.
func (c Config) Thresholds() triage.CoachThresholds {
	t := triage.DefaultCoachThresholds()
	if c.Coach.SlowBuildSeconds > 0 {
		t.SlowBuild = time.Duration(c.Coach.SlowBuildSeconds) * time.Second
	}
	if c.Coach.ManyWarnings > 0 {
		t.ManyWarnings = c.Coach.ManyWarnings
	}
	if c.Coach.ManyErrors > 0 {
		t.ManyErrors = c.Coach.ManyErrors
	}
	return t
}

func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "cargomate.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
