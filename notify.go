// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"sync"
	"time"
)

// StatusUpdate is a human-readable progress report emitted while a
// session advances. Progress is in [0,1], or -1 when the sample budget is
// unbounded and completion cannot be estimated.
type StatusUpdate struct {
	Text     string
	Progress float32
	Samples  int
}

// PassInfo describes one completed sampling pass in an interactive
// session.
type PassInfo struct {
	View     string
	Pass     int
	Samples  int
	Duration time.Duration
}

// TileEvent reports that a tile of pixel data reached the frame target.
type TileEvent struct {
	X, Y, W, H int
	Samples    int
}

// feed is a fan-out channel hub. Subscribers receive on buffered
// channels; a slow subscriber drops its oldest pending event rather than
// stalling the render worker.
type feed[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	closed bool
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{subs: make(map[int]chan T)}
}

// subscribe returns a receive channel and a cancel func. After cancel
// returns the channel is closed and will never receive again.
func (f *feed[T]) subscribe() (<-chan T, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}
	f.nextID++
	id := f.nextID
	ch := make(chan T, 16)
	f.subs[id] = ch
	return ch, func() {
		f.mu.Lock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
		f.mu.Unlock()
	}
}

// publish delivers v to every subscriber without blocking. When a
// subscriber's buffer is full the oldest queued event is discarded so the
// latest one always lands.
func (f *feed[T]) publish(v T) {
	f.mu.Lock()
	for _, ch := range f.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
	f.mu.Unlock()
}

// close closes all subscriber channels and rejects future subscriptions.
func (f *feed[T]) close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		for id, ch := range f.subs {
			delete(f.subs, id)
			close(ch)
		}
	}
	f.mu.Unlock()
}
