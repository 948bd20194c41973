// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/lux/tracer"
)

// Common target errors.
var (
	// ErrNilChannel is returned when a window target is built without a channel.
	ErrNilChannel = errors.New("frame: window channel must not be nil")

	// ErrInvalidDimensions is returned for non-positive target dimensions.
	ErrInvalidDimensions = errors.New("frame: invalid dimensions")
)

// Target is a display destination for assembled tiles.
//
// Targets may be CPU-backed (BitmapTarget) or host-window-backed
// (WindowTarget). WriteTile is only called from the engine's tile callback
// path, which the renderer serializes per region.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the displayed result.
	Format() gputypes.TextureFormat

	// WriteTile writes one finished tile into the target.
	WriteTile(t tracer.Tile) error

	// Flush makes all written tiles visible on the display side.
	Flush() error
}

// Channel is the host-side window channel a WindowTarget writes into.
// Implementations receive the renderer's native float buffer directly and
// must not retain the pixels slice past the call.
type Channel interface {
	// WriteRect displays the given frame rectangle. pixels is the full-frame
	// RGBA float buffer the rectangle indexes into.
	WriteRect(x, y, w, h, frameW, frameH int, pixels []float32) error
}

// WindowTarget displays tiles through a host window channel. This is the
// zero-copy path: the renderer's buffer goes to the channel untouched, and
// the host's display pipeline owns any color transform.
type WindowTarget struct {
	ch     Channel
	width  int
	height int
	format gputypes.TextureFormat
}

// NewWindowTarget creates a target writing into the given window channel.
func NewWindowTarget(ch Channel, width, height int) (*WindowTarget, error) {
	if ch == nil {
		return nil, ErrNilChannel
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &WindowTarget{
		ch:     ch,
		width:  width,
		height: height,
		format: gputypes.TextureFormatBGRA8Unorm,
	}, nil
}

// Width returns the target width in pixels.
func (t *WindowTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *WindowTarget) Height() int { return t.height }

// Format returns the window surface format.
func (t *WindowTarget) Format() gputypes.TextureFormat { return t.format }

// WriteTile forwards the tile rectangle and the renderer's buffer to the
// window channel unchanged.
func (t *WindowTarget) WriteTile(tl tracer.Tile) error {
	return t.ch.WriteRect(tl.X, tl.Y, tl.W, tl.H, tl.FrameW, tl.FrameH, tl.Pixels)
}

// Flush is a no-op; the window channel presents on its own schedule.
func (t *WindowTarget) Flush() error { return nil }

var _ Target = (*WindowTarget)(nil)
