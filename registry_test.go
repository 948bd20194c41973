// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import "testing"

func TestRegistryAssignsMonotonicIDs(t *testing.T) {
	r := NewRegistry()
	a := r.register(&Engine{})
	b := r.register(&Engine{})
	if b <= a {
		t.Errorf("ids not monotonic: %d then %d", a, b)
	}
	r.unregister(a)
	c := r.register(&Engine{})
	if c <= b {
		t.Errorf("id reused after unregister: %d then %d", b, c)
	}
}

func TestRegistryLiveOrderedByID(t *testing.T) {
	r := NewRegistry()
	e1, e2, e3 := &Engine{}, &Engine{}, &Engine{}
	r.register(e1)
	id2 := r.register(e2)
	r.register(e3)
	r.unregister(id2)

	live := r.Live()
	if len(live) != 2 {
		t.Fatalf("len(Live()) = %d, want 2", len(live))
	}
	if live[0] != e1 || live[1] != e3 {
		t.Error("Live() not ordered by registration")
	}
}

func TestRegistryStopAll(t *testing.T) {
	r := NewRegistry()
	f := newFakeFactory()
	e, err := New(
		WithFactory(f),
		WithTarget(nullTarget{w: 2, h: 2}),
		WithDevices(cpuOnly()),
		WithThrottle(0),
		WithRegistry(r),
		Interactive(),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "rendering", func() bool { return e.Samples() > 0 })

	r.StopAll()
	if got := e.State(); got != StateStopped {
		t.Errorf("state after StopAll = %v, want %v", got, StateStopped)
	}
	if got := len(r.Live()); got != 0 {
		t.Errorf("registry still holds %d engines", got)
	}
}

func TestDefaultRegistryIsShared(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry not a singleton")
	}
}
