// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package changes implements the ordered, coalescing log of scene mutations
// that keeps a running render session synchronized with a live scene.
//
// The editing side appends typed records (geometry, light, shader, view,
// environment) at any time; the render side drains them in batches. Records
// for the same entity coalesce within a drain window, so a drain never
// yields two records for one entity, and a record appended during a drain
// becomes visible on the next drain — nothing is lost or duplicated.
//
// Two flags drive the flush protocol and are deliberately distinct:
//
//   - the content flag (HasPendingChanges) answers "is anything queued"
//   - the flush flag (FlushDue) answers "is a drain due at all"
//
// FlushDue is readable without taking the queue lock; it is only written
// together with draining, so readers never observe a half-updated queue.
package changes
