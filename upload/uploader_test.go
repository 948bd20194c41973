// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/lux/changes"
	"github.com/gogpu/lux/tracer"
)

// fakeWriter records scene writer calls in order.
type fakeWriter struct {
	calls   []string
	failOn  string
	freed   bool
	meshes  map[tracer.EntityID]tracer.Mesh
	cameras map[tracer.EntityID]tracer.Camera
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		meshes:  make(map[tracer.EntityID]tracer.Mesh),
		cameras: make(map[tracer.EntityID]tracer.Camera),
	}
}

func (w *fakeWriter) record(call string) error {
	w.calls = append(w.calls, call)
	if w.failOn != "" && call == w.failOn {
		return errors.New("writer failure")
	}
	return nil
}

func (w *fakeWriter) UpsertMesh(id tracer.EntityID, m tracer.Mesh) error {
	w.meshes[id] = m
	return w.record(fmt.Sprintf("mesh+%d", id))
}
func (w *fakeWriter) DeleteMesh(id tracer.EntityID) error {
	delete(w.meshes, id)
	return w.record(fmt.Sprintf("mesh-%d", id))
}
func (w *fakeWriter) UpsertLight(id tracer.EntityID, l tracer.Light) error {
	return w.record(fmt.Sprintf("light+%d", id))
}
func (w *fakeWriter) DeleteLight(id tracer.EntityID) error {
	return w.record(fmt.Sprintf("light-%d", id))
}
func (w *fakeWriter) UpsertShader(id tracer.EntityID, s tracer.Shader) error {
	return w.record(fmt.Sprintf("shader+%d", id))
}
func (w *fakeWriter) DeleteShader(id tracer.EntityID) error {
	return w.record(fmt.Sprintf("shader-%d", id))
}
func (w *fakeWriter) UpsertCamera(id tracer.EntityID, c tracer.Camera) error {
	w.cameras[id] = c
	return w.record(fmt.Sprintf("camera+%d", id))
}
func (w *fakeWriter) DeleteCamera(id tracer.EntityID) error {
	return w.record(fmt.Sprintf("camera-%d", id))
}
func (w *fakeWriter) UpsertEnvironment(id tracer.EntityID, e tracer.Environment) error {
	return w.record(fmt.Sprintf("env+%d", id))
}
func (w *fakeWriter) DeleteEnvironment(id tracer.EntityID) error {
	return w.record(fmt.Sprintf("env-%d", id))
}
func (w *fakeWriter) Free() { w.freed = true }

var _ tracer.SceneWriter = (*fakeWriter)(nil)

func batchOf(records ...changes.Record) changes.Batch {
	return changes.Batch{Records: records}
}

func TestApplyPushesInOrder(t *testing.T) {
	w := newFakeWriter()
	u := New(w)

	q := changes.NewQueue()
	q.UpsertGeometry(1, tracer.Mesh{Vertices: []float32{0, 0, 0}})
	q.UpsertLight(2, tracer.Light{Intensity: 5})
	q.SetView(tracer.View{ID: 3, Width: 800, Height: 600})

	st, err := u.Apply(q.Drain())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if st.Applied != 3 || st.Skipped != 0 {
		t.Errorf("stats = %+v, want 3 applied, 0 skipped", st)
	}

	want := []string{"mesh+1", "light+2", "camera+3"}
	if len(w.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", w.calls, want)
	}
	for i := range want {
		if w.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, w.calls[i], want[i])
		}
	}
}

func TestApplySkipsUnchangedUpsert(t *testing.T) {
	w := newFakeWriter()
	u := New(w)
	mesh := tracer.Mesh{Vertices: []float32{1, 2, 3}, Faces: []uint32{0, 1, 2}}

	rec := changes.Record{Kind: changes.KindGeometry, Op: changes.OpUpsert, ID: 9, Geometry: &mesh}

	if _, err := u.Apply(batchOf(rec)); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	st, err := u.Apply(batchOf(rec))
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if st.Applied != 0 || st.Skipped != 1 {
		t.Errorf("stats = %+v, want unchanged re-push skipped", st)
	}
	if len(w.calls) != 1 {
		t.Errorf("writer saw %d calls, want 1 (idempotent upsert)", len(w.calls))
	}
}

func TestApplyPushesChangedPayload(t *testing.T) {
	w := newFakeWriter()
	u := New(w)

	m1 := tracer.Mesh{Vertices: []float32{1, 2, 3}}
	m2 := tracer.Mesh{Vertices: []float32{1, 2, 4}}
	r1 := changes.Record{Kind: changes.KindGeometry, Op: changes.OpUpsert, ID: 9, Geometry: &m1}
	r2 := changes.Record{Kind: changes.KindGeometry, Op: changes.OpUpsert, ID: 9, Geometry: &m2}

	if _, err := u.Apply(batchOf(r1)); err != nil {
		t.Fatal(err)
	}
	st, err := u.Apply(batchOf(r2))
	if err != nil {
		t.Fatal(err)
	}
	if st.Applied != 1 {
		t.Errorf("changed payload not re-pushed: stats = %+v", st)
	}
}

func TestApplyDeleteForgetsDigest(t *testing.T) {
	w := newFakeWriter()
	u := New(w)
	mesh := tracer.Mesh{Vertices: []float32{1}}

	up := changes.Record{Kind: changes.KindGeometry, Op: changes.OpUpsert, ID: 4, Geometry: &mesh}
	del := changes.Record{Kind: changes.KindGeometry, Op: changes.OpDelete, ID: 4}

	if _, err := u.Apply(batchOf(up, del)); err != nil {
		t.Fatal(err)
	}
	// Re-creating the same entity after a delete must push again.
	st, err := u.Apply(batchOf(up))
	if err != nil {
		t.Fatal(err)
	}
	if st.Applied != 1 {
		t.Errorf("re-create after delete skipped: stats = %+v", st)
	}
}

func TestApplyStopsOnWriterError(t *testing.T) {
	w := newFakeWriter()
	w.failOn = "light+2"
	u := New(w)

	recs := []changes.Record{
		{Kind: changes.KindGeometry, Op: changes.OpUpsert, ID: 1, Geometry: &tracer.Mesh{}},
		{Kind: changes.KindLight, Op: changes.OpUpsert, ID: 2, Light: &tracer.Light{}},
		{Kind: changes.KindShader, Op: changes.OpUpsert, ID: 3, Shader: &tracer.Shader{}},
	}
	st, err := u.Apply(batchOf(recs...))
	if err == nil {
		t.Fatal("Apply() error = nil, want writer failure")
	}
	if st.Applied != 1 {
		t.Errorf("stats = %+v, want 1 applied before failure", st)
	}
	if len(w.calls) != 2 {
		t.Errorf("writer saw %d calls, want 2 (stop on first error)", len(w.calls))
	}
}

func TestDigestDistinguishesPayloads(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
	}{
		{
			name: "mesh vertices",
			a:    digestMesh(&tracer.Mesh{Vertices: []float32{1, 2, 3}}),
			b:    digestMesh(&tracer.Mesh{Vertices: []float32{1, 2, 3.5}}),
		},
		{
			name: "mesh shader binding",
			a:    digestMesh(&tracer.Mesh{Shader: 1}),
			b:    digestMesh(&tracer.Mesh{Shader: 2}),
		},
		{
			name: "light intensity",
			a:    digestLight(&tracer.Light{Intensity: 1}),
			b:    digestLight(&tracer.Light{Intensity: 2}),
		},
		{
			name: "shader graph",
			a:    digestShader(&tracer.Shader{Name: "a", Graph: []byte{1}}),
			b:    digestShader(&tracer.Shader{Name: "a", Graph: []byte{2}}),
		},
		{
			name: "view size",
			a:    digestView(&tracer.View{Width: 640, Height: 480}),
			b:    digestView(&tracer.View{Width: 641, Height: 480}),
		},
		{
			name: "environment strength",
			a:    digestEnvironment(&tracer.Environment{Strength: 1}),
			b:    digestEnvironment(&tracer.Environment{Strength: 0.5}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("digests collide: %x", tt.a)
			}
		})
	}
}

func TestDigestStableAcrossCalls(t *testing.T) {
	m := tracer.Mesh{Vertices: []float32{1, 2, 3}, Faces: []uint32{0, 1, 2}, Shader: 7}
	if digestMesh(&m) != digestMesh(&m) {
		t.Error("digestMesh not deterministic")
	}
}
