// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/lux/tracer"
)

// Assembler errors.
var (
	// ErrNilTarget is returned when an assembler is built without a target.
	ErrNilTarget = errors.New("frame: display target must not be nil")

	// ErrTileOutOfBounds is returned when a tile rectangle falls outside
	// the target frame.
	ErrTileOutOfBounds = errors.New("frame: tile out of bounds")
)

// Assembler writes rendered tiles into one display target.
//
// The target is fixed at construction: an engine renders either into a
// window channel or into a bitmap, never both and never switched
// mid-session. WriteTile is called from renderer callback goroutines; the
// stale flag is read from the host side, so both are kept atomic.
type Assembler struct {
	target Target

	tiles atomic.Uint64
	stale atomic.Bool
}

// NewAssembler creates an assembler writing into target.
func NewAssembler(target Target) (*Assembler, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	return &Assembler{target: target}, nil
}

// WriteTile validates the tile rectangle against the target and writes it.
// Tile payloads are assumed well-formed beyond the bounds check; corrupt
// pixel data is the renderer's problem, not the assembler's.
func (a *Assembler) WriteTile(t tracer.Tile) error {
	if t.W <= 0 || t.H <= 0 ||
		t.X < 0 || t.Y < 0 ||
		t.X+t.W > a.target.Width() || t.Y+t.H > a.target.Height() {
		return fmt.Errorf("%w: (%d,%d %dx%d) in %dx%d",
			ErrTileOutOfBounds, t.X, t.Y, t.W, t.H, a.target.Width(), a.target.Height())
	}
	if len(t.Pixels) < t.FrameW*t.FrameH*4 {
		return fmt.Errorf("frame: short pixel buffer: %d floats for %dx%d", len(t.Pixels), t.FrameW, t.FrameH)
	}
	if err := a.target.WriteTile(t); err != nil {
		return err
	}
	a.tiles.Add(1)
	a.stale.Store(false)
	return nil
}

// Flush makes all written tiles visible on the display side.
func (a *Assembler) Flush() error { return a.target.Flush() }

// Target returns the display target the assembler writes into.
func (a *Assembler) Target() Target { return a.target }

// TileCount returns the number of tiles written since creation.
func (a *Assembler) TileCount() uint64 { return a.tiles.Load() }

// MarkStale flags the currently displayed frame as out of date, e.g. after
// a sample-budget decrease. The flag clears on the next tile write.
func (a *Assembler) MarkStale() { a.stale.Store(true) }

// Stale reports whether the displayed frame is flagged out of date.
func (a *Assembler) Stale() bool { return a.stale.Load() }
