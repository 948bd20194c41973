// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"math"
	"time"

	"github.com/gogpu/lux/device"
)

// SamplesUnbounded is the sentinel sample target meaning "refine forever".
// Engines report an indeterminate completion fraction (-1.0) for sessions
// created with this target.
const SamplesUnbounded = math.MaxInt32

// SessionID identifies a session within one renderer instance.
type SessionID uint32

// ShadingMode selects the shading fidelity of a session.
type ShadingMode uint8

const (
	// ShadeFull uses the complete material and light transport evaluation.
	ShadeFull ShadingMode = iota

	// ShadePreview uses simplified shading for fast viewport feedback.
	ShadePreview
)

// String returns the mode name.
func (m ShadingMode) String() string {
	switch m {
	case ShadeFull:
		return "full"
	case ShadePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// SessionParams configures a sampling session.
// All fields are externally supplied; lux imposes no policy of its own here.
type SessionParams struct {
	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Samples is the target sample count per pixel.
	// Use SamplesUnbounded for open-ended progressive refinement.
	Samples int

	// TileWidth and TileHeight are the tile dimensions the renderer should
	// deliver results in. Zero lets the renderer choose.
	TileWidth  int
	TileHeight int

	// Threads is the number of worker threads the renderer may use.
	// Zero lets the renderer choose.
	Threads int

	// Shading selects the shading fidelity.
	Shading ShadingMode
}

// Progress is a snapshot of a session's sampling progress. The renderer
// delivers one per progress tick on its callback goroutine.
type Progress struct {
	// Status is the renderer's coarse status line ("Rendering", "Syncing").
	Status string

	// Substatus carries detail below Status ("Path Tracing Tile 4/16").
	Substatus string

	// Samples is the accumulated sample count for the current session
	// generation. Non-decreasing between resets.
	Samples int

	// Elapsed is total wall time since the session (re)started.
	Elapsed time.Duration

	// RenderTime is time spent inside sampling kernels.
	RenderTime time.Duration

	// TileTime is time spent on the most recently finished tile.
	TileTime time.Duration
}

// Tile describes a completed rectangular region of the frame.
//
// Pixels is the renderer's full-frame RGBA float buffer at the moment the
// tile finished; the rectangle indexes into it. Sessions serialize their own
// tile callbacks, so no two tiles for the same region are in flight at once,
// but tile delivery still races with state transitions on other goroutines.
type Tile struct {
	// X, Y, W, H bound the tile in frame pixel coordinates.
	X, Y, W, H int

	// Depth is the accumulated sample depth of the region.
	Depth int

	// FrameW and FrameH are the full frame dimensions Pixels is laid out for.
	FrameW, FrameH int

	// Pixels is the full-frame RGBA float32 buffer, row-major,
	// len = FrameW*FrameH*4. Components may be negative for some AOVs.
	Pixels []float32
}

// Callbacks is the set of notifications a session delivers while sampling.
// Any nil member is simply not invoked. All callbacks run on renderer
// goroutines.
type Callbacks struct {
	// Update delivers a progress snapshot once per progress tick.
	Update func(id SessionID, p Progress)

	// TileWrite delivers a newly completed tile.
	TileWrite func(id SessionID, t Tile)

	// TileUpdate delivers a re-refined tile (same region, deeper samples).
	TileUpdate func(id SessionID, t Tile)

	// TestCancel is polled by the renderer between kernel launches.
	// Returning true asks the session to wind down cooperatively.
	TestCancel func(id SessionID) bool
}

// Session is an opaque handle to one in-progress sampling computation.
// A session owns device resources; exactly one exists per engine, created
// after the first successful upload and destroyed on stop or restart.
//
// Sessions are driven from a single goroutine. Cancel and SetPause are safe
// to call from other goroutines.
type Session interface {
	// Reset reconfigures the frame dimensions and sample target and clears
	// accumulated samples. Called before the first Sample and again after
	// every scene re-upload.
	Reset(width, height, samples int) error

	// Sample advances the computation by one progressive step.
	// It reports whether more work remains.
	Sample() (more bool, err error)

	// Cancel asks the session to stop sampling, carrying a human-readable
	// reason for diagnostics. Best-effort: one in-flight step may still
	// complete. Safe to call repeatedly.
	Cancel(reason string)

	// SetPause suspends or resumes sampling without destroying any state.
	// Idempotent.
	SetPause(paused bool)

	// SetSamples retargets the sample budget without clearing accumulated
	// work. Raising the budget lets an exhausted session continue; lowering
	// it below the accumulated count makes the next Sample report done.
	SetSamples(n int)

	// Destroy releases the session's device resources. The renderer must not
	// invoke callbacks after Destroy returns.
	Destroy() error
}

// Factory creates renderer-side scenes and sessions for a chosen device.
type Factory interface {
	// CreateScene builds an empty renderer-side scene on the device.
	// The returned SceneWriter is the handle the uploader pushes into.
	CreateScene(dev device.Device) (SceneWriter, error)

	// CreateSession starts a sampling computation over a previously created
	// scene. The callbacks are fixed for the session's lifetime.
	CreateSession(scene SceneWriter, params SessionParams, cb Callbacks) (Session, error)
}
