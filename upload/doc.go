// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package upload pushes drained change batches into a renderer-side scene.
//
// The uploader is pure translation: it walks a batch in order and turns each
// record into the matching tracer.SceneWriter call. Scheduling — when to
// drain, when to pause the session — belongs to the engine, not here.
//
// Re-pushing an entity whose payload has not changed is suppressed through a
// sharded per-entity digest store, keeping uploads idempotent from the
// renderer's perspective even when the editing side re-sends entire objects.
package upload
