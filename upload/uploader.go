// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"fmt"
	"time"

	"github.com/gogpu/lux/changes"
	"github.com/gogpu/lux/internal/logging"
	"github.com/gogpu/lux/tracer"
)

// Stats summarizes one Apply call.
type Stats struct {
	// Applied is the number of records that reached the scene writer.
	Applied int

	// Skipped is the number of upserts suppressed as unchanged.
	Skipped int

	// Duration is the wall time the apply took.
	Duration time.Duration
}

// Uploader translates drained change batches into scene writer calls.
//
// Apply is only ever called from the engine's upload critical section, so
// the uploader needs no locking of its own beyond the digest shards.
type Uploader struct {
	w       tracer.SceneWriter
	digests *digestStore
}

// New creates an uploader writing into w.
func New(w tracer.SceneWriter) *Uploader {
	return &Uploader{w: w, digests: newDigestStore()}
}

// Apply pushes a drained batch into the scene, in batch order. Unchanged
// upserts are skipped. On the first write error Apply stops and returns it;
// the engine converts upload errors into a terminal status, they are never
// propagated across goroutines.
func (u *Uploader) Apply(b changes.Batch) (Stats, error) {
	start := time.Now()
	var st Stats
	for i := range b.Records {
		applied, err := u.apply(&b.Records[i])
		if err != nil {
			st.Duration = time.Since(start)
			return st, err
		}
		if applied {
			st.Applied++
		} else {
			st.Skipped++
		}
	}
	st.Duration = time.Since(start)
	logging.Logger().Debug("upload: batch applied",
		"records", b.Len(), "applied", st.Applied, "skipped", st.Skipped, "took", st.Duration)
	return st, nil
}

func (u *Uploader) apply(r *changes.Record) (bool, error) {
	k := digestKey{kind: r.Kind, id: r.ID}

	if r.Op == changes.OpDelete {
		u.digests.forget(k)
		if err := u.delete(r); err != nil {
			return false, fmt.Errorf("upload: delete %v %d: %w", r.Kind, r.ID, err)
		}
		return true, nil
	}

	digest, err := u.digest(r)
	if err != nil {
		return false, err
	}
	if u.digests.unchanged(k, digest) {
		return false, nil
	}
	if err := u.upsert(r); err != nil {
		return false, fmt.Errorf("upload: upsert %v %d: %w", r.Kind, r.ID, err)
	}
	u.digests.remember(k, digest)
	return true, nil
}

func (u *Uploader) digest(r *changes.Record) (uint64, error) {
	switch r.Kind {
	case changes.KindGeometry:
		return digestMesh(r.Geometry), nil
	case changes.KindLight:
		return digestLight(r.Light), nil
	case changes.KindShader:
		return digestShader(r.Shader), nil
	case changes.KindView:
		return digestView(r.View), nil
	case changes.KindEnvironment:
		return digestEnvironment(r.Environment), nil
	default:
		return 0, fmt.Errorf("upload: unknown change kind %d", r.Kind)
	}
}

func (u *Uploader) upsert(r *changes.Record) error {
	switch r.Kind {
	case changes.KindGeometry:
		return u.w.UpsertMesh(r.ID, *r.Geometry)
	case changes.KindLight:
		return u.w.UpsertLight(r.ID, *r.Light)
	case changes.KindShader:
		return u.w.UpsertShader(r.ID, *r.Shader)
	case changes.KindView:
		return u.w.UpsertCamera(r.ID, r.View.Camera)
	case changes.KindEnvironment:
		return u.w.UpsertEnvironment(r.ID, *r.Environment)
	default:
		return fmt.Errorf("upload: unknown change kind %d", r.Kind)
	}
}

func (u *Uploader) delete(r *changes.Record) error {
	switch r.Kind {
	case changes.KindGeometry:
		return u.w.DeleteMesh(r.ID)
	case changes.KindLight:
		return u.w.DeleteLight(r.ID)
	case changes.KindShader:
		return u.w.DeleteShader(r.ID)
	case changes.KindView:
		return u.w.DeleteCamera(r.ID)
	case changes.KindEnvironment:
		return u.w.DeleteEnvironment(r.ID)
	default:
		return fmt.Errorf("upload: unknown change kind %d", r.Kind)
	}
}

// DigestStats returns how many upserts were skipped as unchanged versus
// pushed since the uploader was created.
func (u *Uploader) DigestStats() (skipped, pushed uint64) {
	return u.digests.Stats()
}
