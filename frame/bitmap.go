// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/lux/tracer"
)

// DefaultGamma is the display gamma applied when converting linear renderer
// output to 8-bit display color.
const DefaultGamma = 2.2

// BitmapOption configures a BitmapTarget.
type BitmapOption func(*BitmapTarget)

// WithGamma sets the display gamma. A gamma of 1 disables correction
// (linear workflow handled elsewhere).
func WithGamma(gamma float32) BitmapOption {
	return func(t *BitmapTarget) {
		if gamma > 0 {
			t.gamma = gamma
		}
	}
}

// WithTexture attaches a GPU texture the bitmap is uploaded to on Flush.
// The texture should implement gpucontext.TextureUpdater; anything else is
// ignored, keeping CPU-only use working unchanged.
func WithTexture(tex any) BitmapOption {
	return func(t *BitmapTarget) { t.texture = tex }
}

// BitmapTarget assembles tiles into a plain RGBA bitmap.
//
// Each float component is absolute-valued and clamped to [0,1] before the
// 8-bit conversion; the renderer may emit negative values for certain AOVs
// and the magnitude clamp is the accepted, if approximate, correction.
type BitmapTarget struct {
	img     *image.RGBA
	gamma   float32
	texture any
	dirty   bool
}

// NewBitmapTarget creates a CPU-backed bitmap target.
func NewBitmapTarget(width, height int, opts ...BitmapOption) (*BitmapTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	t := &BitmapTarget{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		gamma: DefaultGamma,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Width returns the target width in pixels.
func (t *BitmapTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the target height in pixels.
func (t *BitmapTarget) Height() int { return t.img.Bounds().Dy() }

// Format returns the bitmap pixel format (RGBA8).
func (t *BitmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// WriteTile converts the tile's float pixels to display color and writes
// them into the bitmap.
func (t *BitmapTarget) WriteTile(tl tracer.Tile) error {
	inv := float32(1)
	if t.gamma != 1 {
		inv = 1 / t.gamma
	}
	for y := tl.Y; y < tl.Y+tl.H; y++ {
		src := (y*tl.FrameW + tl.X) * 4
		dst := t.img.PixOffset(tl.X, y)
		for x := 0; x < tl.W; x++ {
			t.img.Pix[dst+0] = displayByte(tl.Pixels[src+0], inv)
			t.img.Pix[dst+1] = displayByte(tl.Pixels[src+1], inv)
			t.img.Pix[dst+2] = displayByte(tl.Pixels[src+2], inv)
			t.img.Pix[dst+3] = alphaByte(tl.Pixels[src+3])
			src += 4
			dst += 4
		}
	}
	t.dirty = true
	return nil
}

// displayByte maps one linear float component to 8-bit display color:
// magnitude, clamp to [0,1], gamma, quantize. Taking the magnitude of
// negative components (some AOVs emit them) is a visualization
// approximation, not tone mapping.
func displayByte(v, invGamma float32) uint8 {
	v = math32.Abs(v)
	if v > 1 {
		v = 1
	}
	if invGamma != 1 {
		v = math32.Pow(v, invGamma)
	}
	return uint8(v*255 + 0.5)
}

// alphaByte clamps alpha to [0,1] without gamma. Transparency passes
// through as-is; hosts that need an opaque frame composite on their side.
func alphaByte(v float32) uint8 {
	v = math32.Abs(v)
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

// Flush uploads the bitmap to the attached GPU texture, if any.
func (t *BitmapTarget) Flush() error {
	if !t.dirty || t.texture == nil {
		return nil
	}
	if updater, ok := t.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(t.img.Pix); err != nil {
			return fmt.Errorf("frame: texture update failed: %w", err)
		}
	}
	t.dirty = false
	return nil
}

// Image returns the underlying bitmap. The returned image shares memory
// with the target.
func (t *BitmapTarget) Image() *image.RGBA { return t.img }

// Snapshot returns a copy of the bitmap scaled to the given size.
// Useful for thumbnail previews while a render is still accumulating.
func (t *BitmapTarget) Snapshot(width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), t.img, t.img.Bounds(), draw.Src, nil)
	return out
}

var _ Target = (*BitmapTarget)(nil)
