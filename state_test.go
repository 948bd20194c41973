// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"testing"
	"time"
)

func TestRenderStateString(t *testing.T) {
	tests := []struct {
		state RenderState
		want  string
	}{
		{StateWaiting, "waiting"},
		{StateUploading, "uploading"},
		{StateRendering, "rendering"},
		{StateStopped, "stopped"},
		{RenderState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateVarStoreAndLoad(t *testing.T) {
	s := newStateVar(StateWaiting)
	if got := s.Load(); got != StateWaiting {
		t.Fatalf("initial state = %v, want %v", got, StateWaiting)
	}
	s.Store(StateRendering)
	if got := s.Load(); got != StateRendering {
		t.Errorf("state = %v, want %v", got, StateRendering)
	}
}

func TestStateVarStoppedIsSticky(t *testing.T) {
	s := newStateVar(StateRendering)
	s.Store(StateStopped)
	s.Store(StateRendering)
	if got := s.Load(); got != StateStopped {
		t.Errorf("state after store-past-stopped = %v, want %v", got, StateStopped)
	}
	if s.compareAndSwap(StateStopped, StateWaiting) {
		t.Error("compareAndSwap moved out of the terminal state")
	}
}

func TestStateVarCompareAndSwap(t *testing.T) {
	s := newStateVar(StateRendering)
	if !s.compareAndSwap(StateRendering, StateWaiting) {
		t.Fatal("compareAndSwap failed from matching state")
	}
	if s.compareAndSwap(StateRendering, StateUploading) {
		t.Error("compareAndSwap succeeded from stale state")
	}
	if got := s.Load(); got != StateWaiting {
		t.Errorf("state = %v, want %v", got, StateWaiting)
	}
}

func TestStateVarWaitWakesOnStore(t *testing.T) {
	s := newStateVar(StateWaiting)
	done := make(chan RenderState, 1)
	go func() {
		done <- s.wait(func(st RenderState) bool { return st == StateRendering }, 0)
	}()
	time.Sleep(5 * time.Millisecond)
	s.Store(StateRendering)
	select {
	case got := <-done:
		if got != StateRendering {
			t.Errorf("wait returned %v, want %v", got, StateRendering)
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not wake on store")
	}
}

func TestStateVarWaitTimesOut(t *testing.T) {
	s := newStateVar(StateWaiting)
	start := time.Now()
	got := s.wait(func(st RenderState) bool { return st == StateStopped }, 10*time.Millisecond)
	if got != StateWaiting {
		t.Errorf("wait returned %v, want %v", got, StateWaiting)
	}
	if time.Since(start) > time.Second {
		t.Error("wait timeout overshot")
	}
}

func TestStateVarWaitImmediate(t *testing.T) {
	s := newStateVar(StateRendering)
	got := s.wait(func(st RenderState) bool { return st == StateRendering }, 0)
	if got != StateRendering {
		t.Errorf("wait returned %v, want %v", got, StateRendering)
	}
}
