// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame reassembles partially-rendered tiles into a displayable
// frame buffer.
//
// A render engine owns exactly one display target, chosen at construction
// and never switched mid-session:
//
//   - WindowTarget: a host window channel that consumes the renderer's
//     native float buffer directly (zero-copy)
//   - BitmapTarget: a plain RGBA bitmap; float components are
//     absolute-valued, clamped to [0,1] and gamma-corrected before the
//     8-bit conversion
//
// The absolute-value clamp matches what host viewports display for AOVs
// with negative components. It is an accepted visualization approximation,
// not a tone-mapping step.
package frame
