// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/lux/changes"
	"github.com/gogpu/lux/tracer"
)

// shardCount is the number of digest shards. Must be a power of 2 so shard
// selection is a single mask.
const shardCount = 16

const shardMask = shardCount - 1

// digestKey identifies one entity's digest slot.
type digestKey struct {
	kind changes.Kind
	id   tracer.EntityID
}

// digestStore remembers the payload digest last pushed per entity so
// unchanged re-pushes can be skipped. Sharded to keep contention low when
// the editing side floods the queue.
type digestStore struct {
	shards [shardCount]digestShard

	hits   atomic.Uint64
	misses atomic.Uint64
}

type digestShard struct {
	mu sync.RWMutex
	m  map[digestKey]uint64
}

func newDigestStore() *digestStore {
	s := &digestStore{}
	for i := range s.shards {
		s.shards[i].m = make(map[digestKey]uint64)
	}
	return s
}

func (s *digestStore) shard(k digestKey) *digestShard {
	h := uint64(k.id) ^ uint64(k.kind)<<56
	return &s.shards[h&shardMask]
}

// unchanged reports whether the entity's last pushed digest equals digest.
func (s *digestStore) unchanged(k digestKey, digest uint64) bool {
	sh := s.shard(k)
	sh.mu.RLock()
	prev, ok := sh.m[k]
	sh.mu.RUnlock()
	if ok && prev == digest {
		s.hits.Add(1)
		return true
	}
	s.misses.Add(1)
	return false
}

// remember records the digest pushed for an entity.
func (s *digestStore) remember(k digestKey, digest uint64) {
	sh := s.shard(k)
	sh.mu.Lock()
	sh.m[k] = digest
	sh.mu.Unlock()
}

// forget drops an entity's digest, after a delete.
func (s *digestStore) forget(k digestKey) {
	sh := s.shard(k)
	sh.mu.Lock()
	delete(sh.m, k)
	sh.mu.Unlock()
}

// Stats returns the skip/push counters.
func (s *digestStore) Stats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// digester is a tiny FNV-1a accumulator for payload hashing.
type digester struct {
	buf [8]byte
	h   interface {
		Write([]byte) (int, error)
		Sum64() uint64
	}
}

func newDigester() *digester {
	return &digester{h: fnv.New64a()}
}

func (d *digester) u32(v uint32) {
	binary.LittleEndian.PutUint32(d.buf[:4], v)
	_, _ = d.h.Write(d.buf[:4]) // fnv.Write never returns an error
}

func (d *digester) u64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:8], v)
	_, _ = d.h.Write(d.buf[:8])
}

func (d *digester) f32(v float32) { d.u32(math.Float32bits(v)) }

func (d *digester) f32s(vs []float32) {
	d.u32(uint32(len(vs)))
	for _, v := range vs {
		d.f32(v)
	}
}

func (d *digester) u32s(vs []uint32) {
	d.u32(uint32(len(vs)))
	for _, v := range vs {
		d.u32(v)
	}
}

func (d *digester) str(s string) {
	d.u32(uint32(len(s)))
	_, _ = d.h.Write([]byte(s))
}

func (d *digester) bytes(b []byte) {
	d.u32(uint32(len(b)))
	_, _ = d.h.Write(b)
}

func (d *digester) sum() uint64 { return d.h.Sum64() }

func digestMesh(m *tracer.Mesh) uint64 {
	d := newDigester()
	d.f32s(m.Vertices)
	d.f32s(m.Normals)
	d.f32s(m.UVs)
	d.u32s(m.Faces)
	d.u64(uint64(m.Shader))
	return d.sum()
}

func digestLight(l *tracer.Light) uint64 {
	d := newDigester()
	d.u32(uint32(l.Kind))
	for _, v := range l.Position {
		d.f32(v)
	}
	for _, v := range l.Direction {
		d.f32(v)
	}
	for _, v := range l.Color {
		d.f32(v)
	}
	d.f32(l.Intensity)
	d.f32(l.Size)
	return d.sum()
}

func digestShader(s *tracer.Shader) uint64 {
	d := newDigester()
	d.str(s.Name)
	d.bytes(s.Graph)
	return d.sum()
}

func digestCamera(c *tracer.Camera) uint64 {
	d := newDigester()
	for _, v := range c.Transform {
		d.f32(v)
	}
	d.f32(c.FOV)
	d.f32(c.NearClip)
	d.f32(c.FarClip)
	return d.sum()
}

func digestView(v *tracer.View) uint64 {
	d := newDigester()
	d.u64(digestCamera(&v.Camera))
	d.u32(uint32(v.Width))
	d.u32(uint32(v.Height))
	return d.sum()
}

func digestEnvironment(e *tracer.Environment) uint64 {
	d := newDigester()
	for _, v := range e.Color {
		d.f32(v)
	}
	d.f32(e.Strength)
	return d.sum()
}
