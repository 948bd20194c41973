// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lux keeps a progressive path-tracing render session synchronized
// with a live, mutable 3-D scene.
//
// The hard problem here is not rendering — that is delegated to an external
// renderer behind the capability interfaces in the tracer package — but
// orchestration: deciding when to keep sampling, when to halt and flush
// queued scene edits, when to re-upload and restart, and when to tear the
// session down, all without ever blocking the editing thread or corrupting
// in-flight render state.
//
// # Architecture
//
// Edits flow through a change queue into the renderer's scene:
//
//	edits -> changes.Queue -> upload.Uploader -> renderer scene
//	                                |
//	        Engine drives tracer.Session -> tiles -> frame.Assembler -> display
//
// An [Engine] owns one render session and one [RenderState]. Two policies
// drive it: the default modal policy renders a scene once to a fixed
// sample budget with no mid-flight interruptions, while the [Interactive]
// option selects an unbounded viewport loop that restarts sampling after
// every flushed edit. [RunModal] and [RunInteractive] wrap the common
// construction patterns.
//
// # Concurrency
//
// Three execution contexts touch an engine: the editing/UI side (queue
// appends and Stop/Pause/Resume requests), the engine's render worker
// goroutine (the sampling loop), and the renderer's callback goroutines
// (progress and tile delivery). State, the flush flag and the queue are the
// only shared mutable pieces; flush and drain happen as one atomic unit
// under a single lock, and every callback checks for the terminal state
// first, so callbacks racing a Stop degrade to no-ops.
package lux
