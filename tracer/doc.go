// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tracer defines the capability set lux consumes from a progressive
// path tracer. It contains no rendering code of its own.
//
// A renderer integrates with lux by implementing three things:
//
//   - Factory: creates renderer-side scenes and sampling sessions
//   - SceneWriter: keyed, idempotent upserts of meshes, lights, shaders,
//     cameras and environments
//   - Session: one in-progress sampling computation that can be reset,
//     stepped, paused, cancelled and destroyed
//
// Sessions report back through Callbacks registered at creation time.
// Callbacks run on the renderer's own goroutines; lux treats them as an
// uncontrolled execution context and the renderer must stop invoking them
// once Session.Destroy returns.
package tracer
