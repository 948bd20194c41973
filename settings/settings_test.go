// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if got != Default() {
		t.Errorf("Load(missing) = %+v, want defaults", got)
	}
}

func TestLoadInvalidFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("{not yaml:::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); got != Default() {
		t.Errorf("Load(invalid) = %+v, want defaults", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "render.yaml")
	want := Settings{
		Samples:    1000,
		Bounces:    12,
		Threads:    4,
		TileWidth:  128,
		TileHeight: 128,
		ThrottleMS: 25,
		Gamma:      1.8,
		PreferCPU:  true,
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := Load(path)
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadSanitizesNonsense(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	body := "samples: -5\ntile_width: 0\ntile_height: 64\ngamma: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got := Load(path)
	def := Default()
	if got.Samples != def.Samples {
		t.Errorf("Samples = %d, want default %d", got.Samples, def.Samples)
	}
	if got.TileWidth != def.TileWidth {
		t.Errorf("TileWidth = %d, want default %d", got.TileWidth, def.TileWidth)
	}
	if got.Gamma != def.Gamma {
		t.Errorf("Gamma = %v, want default %v", got.Gamma, def.Gamma)
	}
}

func TestThrottleDuration(t *testing.T) {
	s := Settings{ThrottleMS: 25}
	if got := s.Throttle(); got != 25*time.Millisecond {
		t.Errorf("Throttle() = %v, want 25ms", got)
	}
}
