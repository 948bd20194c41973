// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"time"

	"github.com/gogpu/lux/device"
	"github.com/gogpu/lux/frame"
	"github.com/gogpu/lux/settings"
	"github.com/gogpu/lux/tracer"
)

// Option configures an Engine at construction.
type Option func(*config)

type config struct {
	factory     tracer.Factory
	target      frame.Target
	view        tracer.View
	hasView     bool
	samples     int
	tileW       int
	tileH       int
	threads     int
	throttle    time.Duration
	pref        device.Preference
	devices     []device.Device
	handle      device.Handle
	registry    *Registry
	shading     tracer.ShadingMode
	document    string
	interactive bool
}

func defaultConfig() config {
	return config{
		samples:  settings.Default().Samples,
		throttle: settings.Default().Throttle(),
		registry: DefaultRegistry(),
	}
}

// WithFactory sets the renderer factory that creates scenes and sessions.
// Required.
func WithFactory(f tracer.Factory) Option {
	return func(c *config) { c.factory = f }
}

// WithTarget sets the frame target tiles are assembled into. Required.
func WithTarget(t frame.Target) Option {
	return func(c *config) { c.target = t }
}

// WithView stages the camera view the session renders before the first
// upload.
func WithView(v tracer.View) Option {
	return func(c *config) { c.view, c.hasView = v, true }
}

// WithSamples sets the per-pixel sample budget. Use
// tracer.SamplesUnbounded for open-ended refinement.
func WithSamples(n int) Option {
	return func(c *config) { c.samples = n }
}

// WithTileSize sets the tile dimensions requested from the renderer.
// Zero lets the renderer choose.
func WithTileSize(w, h int) Option {
	return func(c *config) { c.tileW, c.tileH = w, h }
}

// WithThreads caps the renderer worker threads. Zero lets the renderer
// choose.
func WithThreads(n int) Option {
	return func(c *config) { c.threads = n }
}

// WithThrottle sets the minimum delay between progressive samples in
// interactive mode, trading refinement speed for host responsiveness.
func WithThrottle(d time.Duration) Option {
	return func(c *config) { c.throttle = d }
}

// WithDevicePreference biases device selection toward GPU or CPU.
func WithDevicePreference(p device.Preference) Option {
	return func(c *config) { c.pref = p }
}

// WithDevices supplies the candidate device list explicitly, bypassing
// probing. Mainly for tests and headless hosts.
func WithDevices(devs []device.Device) Option {
	return func(c *config) { c.devices = devs }
}

// WithHandle shares the host application's GPU device with the engine.
// The engine renders on the device behind h instead of probing adapters;
// it overrides WithDevices and WithDevicePreference.
func WithHandle(h device.Handle) Option {
	return func(c *config) { c.handle = h }
}

// WithRegistry places the engine in reg instead of the process default.
func WithRegistry(reg *Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithShading selects the shading fidelity for the session.
func WithShading(m tracer.ShadingMode) Option {
	return func(c *config) { c.shading = m }
}

// WithDocument names the host document the engine renders, for logging
// and status lines.
func WithDocument(name string) Option {
	return func(c *config) { c.document = name }
}

// Interactive switches the engine to the edit-restart policy: the change
// queue stays alive for the engine's lifetime and scene edits cancel and
// restart sampling. The default is modal: one upload, render to the
// budget, done.
func Interactive() Option {
	return func(c *config) { c.interactive = true }
}

// WithSettings applies persisted user settings: sample budget, thread
// cap, tile size, throttle, and device preference. Later options
// override individual fields.
func WithSettings(s settings.Settings) Option {
	return func(c *config) {
		c.samples = s.Samples
		c.threads = s.Threads
		c.tileW = s.TileWidth
		c.tileH = s.TileHeight
		c.throttle = s.Throttle()
		if s.PreferCPU {
			c.pref = device.PreferCPU
		}
	}
}
