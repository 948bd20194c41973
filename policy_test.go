// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"testing"

	"github.com/gogpu/lux/changes"
	"github.com/gogpu/lux/tracer"
)

func TestRunModalRendersStagedScene(t *testing.T) {
	f := newFakeFactory()
	err := RunModal(func(q *changes.Queue) {
		q.UpsertGeometry(1, tracer.Mesh{Vertices: []float32{0, 0, 0}})
	},
		WithFactory(f),
		WithTarget(nullTarget{w: 2, h: 2}),
		WithDevices(cpuOnly()),
		WithThrottle(0),
		WithSamples(3),
		WithRegistry(NewRegistry()),
	)
	if err != nil {
		t.Fatalf("RunModal: %v", err)
	}
	if got := f.scene.upsertCount(1); got != 1 {
		t.Errorf("staged mesh uploaded %d times, want 1", got)
	}
	if got := f.sessionHandle().destroyCount(); got != 1 {
		t.Errorf("session destroyed %d times, want 1", got)
	}
}

func TestRunInteractiveStartsRendering(t *testing.T) {
	f := newFakeFactory()
	e, err := RunInteractive(
		WithFactory(f),
		WithTarget(nullTarget{w: 2, h: 2}),
		WithDevices(cpuOnly()),
		WithThrottle(0),
		WithSamples(tracer.SamplesUnbounded),
		WithRegistry(NewRegistry()),
	)
	if err != nil {
		t.Fatalf("RunInteractive: %v", err)
	}
	defer e.Stop()
	waitFor(t, "refinement", func() bool { return e.Samples() > 0 })
	if e.State() != StateRendering {
		t.Errorf("state = %v, want %v", e.State(), StateRendering)
	}
}
