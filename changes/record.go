// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package changes

import "github.com/gogpu/lux/tracer"

// Kind classifies a change record by entity kind.
type Kind uint8

const (
	KindGeometry Kind = iota
	KindLight
	KindShader
	KindView
	KindEnvironment

	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindLight:
		return "light"
	case KindShader:
		return "shader"
	case KindView:
		return "view"
	case KindEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

// Op is the operation a record carries.
type Op uint8

const (
	OpUpsert Op = iota
	OpDelete
)

// Record is one queued scene mutation. Exactly one payload pointer matching
// Kind is set for OpUpsert; all payloads are nil for OpDelete.
type Record struct {
	// Seq is the global append sequence number, assigned by the queue.
	Seq uint64

	Kind Kind
	Op   Op
	ID   tracer.EntityID

	Geometry    *tracer.Mesh
	Light       *tracer.Light
	Shader      *tracer.Shader
	View        *tracer.View
	Environment *tracer.Environment
}

// Batch is the result of one drain: the coalesced records accumulated since
// the previous drain, in first-touch order.
type Batch struct {
	Records []Record
}

// Len returns the number of records in the batch.
func (b Batch) Len() int { return len(b.Records) }

// HasSceneChanges reports whether the drained set contains anything
// render-relevant. An empty drain (flush signaled with nothing queued)
// must not force a session restart.
func (b Batch) HasSceneChanges() bool { return len(b.Records) > 0 }
