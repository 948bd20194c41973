// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package changes

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/lux/tracer"
)

// queueKey coalesces records: one live record per (kind, entity) pair
// between drains.
type queueKey struct {
	kind Kind
	id   tracer.EntityID
}

// Queue is the append-then-drain change log shared between the editing
// context and the render-driving context.
//
// Appends and drains are serialized by an internal mutex; the flush flag
// and content flag are atomics so the render loop can poll them from a
// progress callback without blocking the editing thread.
type Queue struct {
	mu      sync.Mutex
	records []Record
	index   map[queueKey]int
	seq     uint64
	closed  bool

	hasContent atomic.Bool
	flushDue   atomic.Bool

	ready     chan struct{}
	kindReady [kindCount]chan struct{}
}

// NewQueue creates an empty change queue.
func NewQueue() *Queue {
	q := &Queue{
		index: make(map[queueKey]int),
		ready: make(chan struct{}, 1),
	}
	for i := range q.kindReady {
		q.kindReady[i] = make(chan struct{}, 1)
	}
	return q
}

// Ready returns a coalescing signal channel that receives after any append.
// The host typically uses it to schedule a flush opportunity on its next
// tick. The channel is never closed.
func (q *Queue) Ready() <-chan struct{} { return q.ready }

// KindReady returns the coalescing per-kind signal channel for k.
func (q *Queue) KindReady(k Kind) <-chan struct{} { return q.kindReady[k] }

// HasPendingChanges reports whether any records are queued (the content
// flag). Distinct from FlushDue.
func (q *Queue) HasPendingChanges() bool { return q.hasContent.Load() }

// FlushDue reports whether a drain has been requested. Readable from any
// goroutine without taking the queue lock.
func (q *Queue) FlushDue() bool { return q.flushDue.Load() }

// RequestFlush marks a drain as due. Typically called by the host on a UI
// tick after a Ready signal.
func (q *Queue) RequestFlush() { q.flushDue.Store(true) }

// ClearFlush clears the flush flag. The engine calls this inside its flush
// critical section, after draining.
func (q *Queue) ClearFlush() { q.flushDue.Store(false) }

// Drain atomically removes and returns all records accumulated since the
// previous drain. Records appended while Drain runs land in the next drain.
// Draining a closed queue returns an empty batch.
func (q *Queue) Drain() Batch {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.records) == 0 {
		q.hasContent.Store(false)
		return Batch{}
	}
	out := q.records
	q.records = nil
	q.index = make(map[queueKey]int)
	q.hasContent.Store(false)
	return Batch{Records: out}
}

// Close disposes the queue: pending records are dropped and all further
// appends are ignored. Idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.records = nil
	q.index = nil
	q.hasContent.Store(false)
	q.flushDue.Store(false)
}

// Closed reports whether the queue has been disposed.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// push appends or coalesces a record. The latest operation for an entity
// wins; the record keeps its first-touch position so drains stay ordered.
func (q *Queue) push(r Record) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.seq++
	r.Seq = q.seq

	k := queueKey{kind: r.Kind, id: r.ID}
	if i, ok := q.index[k]; ok {
		q.records[i] = r
	} else {
		q.index[k] = len(q.records)
		q.records = append(q.records, r)
	}
	q.hasContent.Store(true)
	q.mu.Unlock()

	q.signal(q.ready)
	q.signal(q.kindReady[r.Kind])
}

// signal performs a non-blocking coalescing send.
func (q *Queue) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// UpsertGeometry queues a mesh create/update.
func (q *Queue) UpsertGeometry(id tracer.EntityID, m tracer.Mesh) {
	q.push(Record{Kind: KindGeometry, Op: OpUpsert, ID: id, Geometry: &m})
}

// DeleteGeometry queues a mesh removal.
func (q *Queue) DeleteGeometry(id tracer.EntityID) {
	q.push(Record{Kind: KindGeometry, Op: OpDelete, ID: id})
}

// UpsertLight queues a light create/update.
func (q *Queue) UpsertLight(id tracer.EntityID, l tracer.Light) {
	q.push(Record{Kind: KindLight, Op: OpUpsert, ID: id, Light: &l})
}

// DeleteLight queues a light removal.
func (q *Queue) DeleteLight(id tracer.EntityID) {
	q.push(Record{Kind: KindLight, Op: OpDelete, ID: id})
}

// UpsertShader queues a shader create/update.
func (q *Queue) UpsertShader(id tracer.EntityID, s tracer.Shader) {
	q.push(Record{Kind: KindShader, Op: OpUpsert, ID: id, Shader: &s})
}

// DeleteShader queues a shader removal.
func (q *Queue) DeleteShader(id tracer.EntityID) {
	q.push(Record{Kind: KindShader, Op: OpDelete, ID: id})
}

// SetView queues a view (camera + viewport) update, keyed by the view id.
func (q *Queue) SetView(v tracer.View) {
	q.push(Record{Kind: KindView, Op: OpUpsert, ID: v.ID, View: &v})
}

// DeleteView queues a view removal.
func (q *Queue) DeleteView(id tracer.EntityID) {
	q.push(Record{Kind: KindView, Op: OpDelete, ID: id})
}

// SetEnvironment queues an environment update, keyed by id.
func (q *Queue) SetEnvironment(id tracer.EntityID, e tracer.Environment) {
	q.push(Record{Kind: KindEnvironment, Op: OpUpsert, ID: id, Environment: &e})
}

// DeleteEnvironment queues an environment removal.
func (q *Queue) DeleteEnvironment(id tracer.EntityID) {
	q.push(Record{Kind: KindEnvironment, Op: OpDelete, ID: id})
}
