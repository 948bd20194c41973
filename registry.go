// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"sort"
	"sync"
)

// Registry tracks the engines created by one host application. It hands
// out monotonically increasing engine IDs and keeps a live set so hosts
// can stop everything on shutdown. A Registry is safe for concurrent use.
//
// Registries are plain values injected through WithRegistry; two hosts in
// the same process never observe each other's engines.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	engines map[uint64]*Engine
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[uint64]*Engine)}
}

// register assigns the next ID to e and records it as live.
func (r *Registry) register(e *Engine) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.engines[id] = e
	return id
}

// unregister removes the engine with the given ID from the live set.
func (r *Registry) unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, id)
}

// Live returns the live engines ordered by ID.
func (r *Registry) Live() []*Engine {
	r.mu.Lock()
	ids := make([]uint64, 0, len(r.engines))
	for id := range r.engines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Engine, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.engines[id])
	}
	r.mu.Unlock()
	return out
}

// StopAll stops every live engine and blocks until each worker has
// exited.
func (r *Registry) StopAll() {
	for _, e := range r.Live() {
		e.Stop()
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when an engine
// is built without WithRegistry.
func DefaultRegistry() *Registry { return defaultRegistry }
