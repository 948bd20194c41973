// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"sync"
	"sync/atomic"
	"time"
)

// RenderState is the lifecycle state of a render engine. Every engine owns
// exactly one RenderState, and the documented transitions are the only
// legal way to move between behaviors.
type RenderState int32

const (
	// StateWaiting is the initial state: no sampling in flight, either
	// before the first upload or while paused.
	StateWaiting RenderState = iota

	// StateUploading marks the non-preemptible critical section in which a
	// drained change batch is pushed into the renderer scene.
	StateUploading

	// StateRendering means the sampling loop is advancing the session.
	StateRendering

	// StateStopped is terminal and irreversible; a new engine instance is
	// required to render again.
	StateStopped
)

// String returns the state name.
func (s RenderState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateUploading:
		return "uploading"
	case StateRendering:
		return "rendering"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// stateVar is a RenderState with lock-free reads and broadcast waiting.
//
// Readers deliberately tolerate stale values — every reader treats a stale
// state as "try again next tick" — so Load is a plain atomic read. Waiters
// get a broadcast channel instead of a sleep spin, which bounds wakeup
// latency without burning CPU.
type stateVar struct {
	v atomic.Int32

	mu      sync.Mutex
	changed chan struct{}
}

func newStateVar(initial RenderState) *stateVar {
	s := &stateVar{changed: make(chan struct{})}
	s.v.Store(int32(initial))
	return s
}

// Load returns the current state without locking.
func (s *stateVar) Load() RenderState { return RenderState(s.v.Load()) }

// Store transitions to next and wakes all waiters. Transitions into
// StateStopped are sticky: once terminal, later stores are ignored.
func (s *stateVar) Store(next RenderState) {
	s.mu.Lock()
	if RenderState(s.v.Load()) == StateStopped {
		s.mu.Unlock()
		return
	}
	s.v.Store(int32(next))
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// compareAndSwap transitions old -> next only if the state is still old,
// and reports whether it did. Used by the worker so it never clobbers a
// transition made from a callback mid-sample.
func (s *stateVar) compareAndSwap(old, next RenderState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if RenderState(s.v.Load()) != old || old == StateStopped {
		return false
	}
	s.v.Store(int32(next))
	close(s.changed)
	s.changed = make(chan struct{})
	return true
}

// wait blocks until pred holds for the current state or the timeout
// expires, and returns the last observed state. A timeout of 0 means wait
// indefinitely.
func (s *stateVar) wait(pred func(RenderState) bool, timeout time.Duration) RenderState {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	for {
		s.mu.Lock()
		cur := RenderState(s.v.Load())
		ch := s.changed
		s.mu.Unlock()

		if pred(cur) {
			return cur
		}
		select {
		case <-ch:
		case <-deadline:
			return cur
		}
	}
}
