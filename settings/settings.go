// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package settings persists default render parameters across runs.
// These are host-editable defaults only; per-engine construction options
// always win over them.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the persisted render defaults.
type Settings struct {
	// Samples is the default sample budget per pixel.
	Samples int `yaml:"samples"`

	// Bounces is the default maximum path depth.
	Bounces int `yaml:"bounces"`

	// Threads is the default renderer thread count; 0 lets the renderer
	// choose.
	Threads int `yaml:"threads"`

	// TileWidth and TileHeight are the default tile dimensions.
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`

	// ThrottleMS is the interactive loop sleep between sampling steps,
	// in milliseconds.
	ThrottleMS int `yaml:"throttle_ms"`

	// Gamma is the display gamma for bitmap targets.
	Gamma float64 `yaml:"gamma"`

	// PreferCPU forces the CPU device even when GPUs are present.
	PreferCPU bool `yaml:"prefer_cpu"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		Samples:    500,
		Bounces:    8,
		Threads:    0,
		TileWidth:  64,
		TileHeight: 64,
		ThrottleMS: 10,
		Gamma:      2.2,
	}
}

// Throttle returns the interactive loop sleep as a duration.
func (s Settings) Throttle() time.Duration {
	return time.Duration(s.ThrottleMS) * time.Millisecond
}

// Load reads settings from path. A missing or unparseable file yields
// Default() without error and without creating the file; a render default
// is never worth failing a render over.
func Load(path string) Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default()
	}
	return s.sanitized()
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: create dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	return nil
}

// sanitized clamps nonsense values back to defaults.
func (s Settings) sanitized() Settings {
	def := Default()
	if s.Samples <= 0 {
		s.Samples = def.Samples
	}
	if s.Bounces <= 0 {
		s.Bounces = def.Bounces
	}
	if s.Threads < 0 {
		s.Threads = 0
	}
	if s.TileWidth <= 0 || s.TileHeight <= 0 {
		s.TileWidth, s.TileHeight = def.TileWidth, def.TileHeight
	}
	if s.ThrottleMS < 0 {
		s.ThrottleMS = def.ThrottleMS
	}
	if s.Gamma <= 0 {
		s.Gamma = def.Gamma
	}
	return s
}
