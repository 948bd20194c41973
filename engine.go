// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/lux/changes"
	"github.com/gogpu/lux/device"
	"github.com/gogpu/lux/frame"
	"github.com/gogpu/lux/tracer"
	"github.com/gogpu/lux/upload"
)

var (
	// ErrMissingFactory is returned by New when no renderer factory is
	// configured.
	ErrMissingFactory = errors.New("lux: engine requires a renderer factory")

	// ErrMissingTarget is returned by New when no frame target is
	// configured.
	ErrMissingTarget = errors.New("lux: engine requires a frame target")

	// ErrAlreadyStarted is returned by Start when the engine worker is
	// already running or has already run.
	ErrAlreadyStarted = errors.New("lux: engine already started")
)

// Engine keeps one progressive render session synchronized with a live
// scene. It owns the state machine, the change queue, the session handle,
// and the frame assembler; a single worker goroutine drives the session
// while host threads append edits and renderer callbacks feed results
// back in.
//
// Engines are single-use. After Stop returns the engine is terminal;
// rendering again means building a new one.
type Engine struct {
	cfg config
	id  uint64

	state *stateVar
	queue *changes.Queue
	asm   *frame.Assembler

	// flushMu serializes the drain-and-transition critical section and
	// guards the staged batch handed to the worker.
	flushMu sync.Mutex
	pending changes.Batch

	sessionMu sync.Mutex
	session   tracer.Session

	// scene is touched only by the worker goroutine.
	scene tracer.SceneWriter

	budget     atomic.Int64
	samples    atomic.Int64
	generation atomic.Uint64

	started       atomic.Bool
	stopRequested atomic.Bool
	paused        atomic.Bool

	status *feed[StatusUpdate]
	passes *feed[PassInfo]
	tiles  *feed[TileEvent]
	starts *feed[struct{}]

	wg         sync.WaitGroup
	finishOnce sync.Once

	errMu sync.Mutex
	err   error

	statsMu sync.Mutex
	uploads upload.Stats
}

// New builds an engine from the given options. WithFactory and WithTarget
// are required; everything else has defaults. The engine is registered
// but idle until Start.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.factory == nil {
		return nil, ErrMissingFactory
	}
	if cfg.target == nil {
		return nil, ErrMissingTarget
	}
	asm, err := frame.NewAssembler(cfg.target)
	if err != nil {
		return nil, err
	}
	if cfg.samples <= 0 {
		cfg.samples = tracer.SamplesUnbounded
	}

	e := &Engine{
		cfg:    cfg,
		state:  newStateVar(StateWaiting),
		queue:  changes.NewQueue(),
		asm:    asm,
		status: newFeed[StatusUpdate](),
		passes: newFeed[PassInfo](),
		tiles:  newFeed[TileEvent](),
		starts: newFeed[struct{}](),
	}
	e.budget.Store(int64(cfg.samples))
	e.id = cfg.registry.register(e)
	return e, nil
}

// ID returns the registry-assigned engine ID.
func (e *Engine) ID() uint64 { return e.id }

// State returns the current lifecycle state.
func (e *Engine) State() RenderState { return e.state.Load() }

// Queue returns the change queue hosts append scene edits to. In modal
// mode the queue is disposed after the one-shot upload and later appends
// are ignored.
func (e *Engine) Queue() *changes.Queue { return e.queue }

// Samples returns the accumulated sample count of the current session
// generation.
func (e *Engine) Samples() int { return int(e.samples.Load()) }

// Generation returns the session generation counter, bumped on every
// scene re-upload.
func (e *Engine) Generation() uint64 { return e.generation.Load() }

// Status subscribes to progress updates. The cancel func must be called
// to release the subscription.
func (e *Engine) Status() (<-chan StatusUpdate, func()) { return e.status.subscribe() }

// Passes subscribes to per-pass completion events.
func (e *Engine) Passes() (<-chan PassInfo, func()) { return e.passes.subscribe() }

// Tiles subscribes to tile delivery events.
func (e *Engine) Tiles() (<-chan TileEvent, func()) { return e.tiles.subscribe() }

// Started subscribes to render-started events, one per session
// generation (initial start and every restart after a scene re-upload).
func (e *Engine) Started() (<-chan struct{}, func()) { return e.starts.subscribe() }

// startGeneration begins a fresh session generation: sample count zeroed,
// generation bumped, render-started announced.
func (e *Engine) startGeneration() {
	e.samples.Store(0)
	e.generation.Add(1)
	e.starts.publish(struct{}{})
}

// Start launches the worker goroutine. It returns ErrAlreadyStarted on a
// second call.
func (e *Engine) Start() error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	if e.state.Load() == StateStopped {
		return ErrAlreadyStarted
	}
	e.wg.Add(1)
	go e.run()
	return nil
}

func (e *Engine) run() {
	defer e.wg.Done()
	defer e.finish()
	// The initial view is just the first staged change; it rides the same
	// drain as the host's pre-start edits.
	if e.cfg.hasView {
		e.queue.SetView(e.cfg.view)
	}
	if e.cfg.interactive {
		e.runInteractive()
	} else {
		e.runModal()
	}
}

// finish tears the engine down exactly once: terminal state, session and
// scene released, queue disposed, feeds closed, registry entry cleared.
func (e *Engine) finish() {
	e.finishOnce.Do(func() {
		e.state.Store(StateStopped)
		e.sessionMu.Lock()
		if e.session != nil {
			if err := e.session.Destroy(); err != nil {
				Logger().Warn("session destroy failed", "engine", e.id, "err", err)
			}
			e.session = nil
		}
		e.sessionMu.Unlock()
		if e.scene != nil {
			e.scene.Free()
			e.scene = nil
		}
		e.queue.Close()
		e.status.close()
		e.passes.close()
		e.tiles.close()
		e.starts.close()
		e.cfg.registry.unregister(e.id)
	})
}

// Stop requests termination and blocks until the worker has exited and
// all resources are released. Uploads are not preemptible: Stop waits for
// an in-flight upload to finish before marking the engine terminal. Safe
// to call more than once and from any goroutine except renderer
// callbacks.
func (e *Engine) Stop() {
	if e.state.Load() == StateStopped {
		e.wg.Wait()
		return
	}
	e.stopRequested.Store(true)
	e.sessionMu.Lock()
	if e.session != nil {
		e.session.Cancel("engine stop")
	}
	e.sessionMu.Unlock()

	if !e.started.Load() {
		e.finish()
		return
	}
	e.state.wait(func(s RenderState) bool { return s != StateUploading }, 0)
	e.state.Store(StateStopped)
	e.wg.Wait()
}

// Wait blocks until the worker exits and returns the first error it hit,
// if any.
func (e *Engine) Wait() error {
	e.wg.Wait()
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// Err returns the first worker error without blocking.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// setErr records the first worker error and surfaces it as a terminal
// status update. Failures never cross the worker boundary as panics.
func (e *Engine) setErr(err error) {
	e.errMu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.errMu.Unlock()
	Logger().Error("render worker failed", "engine", e.id, "err", err)
	e.status.publish(StatusUpdate{
		Text:     "render failed: " + err.Error(),
		Progress: 1,
		Samples:  int(e.samples.Load()),
	})
}

// Pause suspends sampling without losing accumulated work. Idempotent.
func (e *Engine) Pause() {
	if !e.paused.CompareAndSwap(false, true) {
		return
	}
	e.sessionMu.Lock()
	if e.session != nil {
		e.session.SetPause(true)
	}
	e.sessionMu.Unlock()
	e.state.compareAndSwap(StateRendering, StateWaiting)
}

// Resume continues a paused engine. Idempotent.
func (e *Engine) Resume() {
	if !e.paused.CompareAndSwap(true, false) {
		return
	}
	e.sessionMu.Lock()
	if e.session != nil {
		e.session.SetPause(false)
	}
	e.sessionMu.Unlock()
	e.state.compareAndSwap(StateWaiting, StateRendering)
}

// ChangeSampleBudget retargets the per-pixel sample budget on a live
// engine without restarting the session. Raising the budget past the
// accumulated count resumes an exhausted session; lowering it below the
// accumulated count marks the frame stale, since it now holds more
// refinement than requested.
func (e *Engine) ChangeSampleBudget(n int) {
	if n <= 0 {
		n = tracer.SamplesUnbounded
	}
	e.budget.Store(int64(n))
	e.sessionMu.Lock()
	if e.session != nil {
		e.session.SetSamples(n)
	}
	e.sessionMu.Unlock()

	cur := int(e.samples.Load())
	if n != tracer.SamplesUnbounded && n < cur {
		e.asm.MarkStale()
	}
	if (n == tracer.SamplesUnbounded || n > cur) && !e.paused.Load() {
		e.state.compareAndSwap(StateWaiting, StateRendering)
	}
}

// CheckFlushQueue drains the change queue if a flush is due and
// transitions to uploading when the drain produced real changes. It is a
// no-op outside the rendering state, so it is safe to call from renderer
// progress callbacks, host UI ticks, or anywhere else.
//
// The flush flag is always cleared before the critical section ends, even
// when the drain came up empty, so a content-free flush request cannot
// wedge the queue.
func (e *Engine) CheckFlushQueue() {
	if e.state.Load() != StateRendering || !e.queue.FlushDue() {
		return
	}
	e.flushMu.Lock()
	defer e.flushMu.Unlock()
	defer e.queue.ClearFlush()

	// Re-check under the lock: a concurrent flush may have won the race.
	if e.state.Load() != StateRendering || !e.queue.FlushDue() {
		return
	}
	b := e.queue.Drain()
	if !b.HasSceneChanges() {
		return
	}
	e.pending.Records = append(e.pending.Records, b.Records...)
	e.state.Store(StateUploading)
	if e.cfg.interactive {
		e.sessionMu.Lock()
		if e.session != nil {
			e.session.Cancel("scene edit")
		}
		e.sessionMu.Unlock()
	}
}

// takePending hands the staged batch to the worker.
func (e *Engine) takePending() changes.Batch {
	e.flushMu.Lock()
	b := e.pending
	e.pending = changes.Batch{}
	e.flushMu.Unlock()
	return b
}

// selectDevice resolves the render device: a shared host handle wins,
// then the configured candidates, then probing.
func (e *Engine) selectDevice() (device.Device, error) {
	if e.cfg.handle != nil {
		return device.FromHandle(e.cfg.handle), nil
	}
	devs := e.cfg.devices
	if devs == nil {
		devs = device.Available()
	}
	return device.Select(devs, e.cfg.pref)
}

func (e *Engine) sessionParams() tracer.SessionParams {
	return tracer.SessionParams{
		Width:      e.asm.Target().Width(),
		Height:     e.asm.Target().Height(),
		Samples:    int(e.budget.Load()),
		TileWidth:  e.cfg.tileW,
		TileHeight: e.cfg.tileH,
		Threads:    e.cfg.threads,
		Shading:    e.cfg.shading,
	}
}

func (e *Engine) callbacks() tracer.Callbacks {
	return tracer.Callbacks{
		Update:     e.onProgress,
		TileWrite:  e.onTile,
		TileUpdate: e.onTile,
		TestCancel: e.onTestCancel,
	}
}

func (e *Engine) setSession(s tracer.Session) {
	e.sessionMu.Lock()
	e.session = s
	e.sessionMu.Unlock()
}

// onProgress runs on a renderer goroutine once per progress tick.
func (e *Engine) onProgress(_ tracer.SessionID, p tracer.Progress) {
	if e.state.Load() == StateStopped {
		return
	}
	// Sample counts never go backwards within a generation; a reset
	// zeroes them through the worker, not through stale callbacks.
	if cur := e.samples.Load(); int64(p.Samples) > cur {
		e.samples.Store(int64(p.Samples))
	}
	budget := int(e.budget.Load())
	e.status.publish(StatusUpdate{
		Text:     formatStatus(p, budget),
		Progress: completionFraction(p.Samples, budget),
		Samples:  p.Samples,
	})
	e.CheckFlushQueue()
}

// onTile runs on a renderer goroutine when a tile lands.
func (e *Engine) onTile(_ tracer.SessionID, t tracer.Tile) {
	if e.state.Load() == StateStopped {
		return
	}
	if err := e.asm.WriteTile(t); err != nil {
		Logger().Warn("tile rejected", "engine", e.id, "err", err,
			slog.Group("tile", "x", t.X, "y", t.Y, "w", t.W, "h", t.H))
		return
	}
	e.tiles.publish(TileEvent{X: t.X, Y: t.Y, W: t.W, H: t.H, Samples: t.Depth})
}

// onTestCancel is polled by the renderer between kernel launches. A
// pending stop or upload winds the session down cooperatively.
func (e *Engine) onTestCancel(tracer.SessionID) bool {
	if e.stopRequested.Load() {
		return true
	}
	s := e.state.Load()
	return s == StateStopped || s == StateUploading
}

// upload drains b into the scene and accumulates upload totals.
func (e *Engine) upload(up *upload.Uploader, b changes.Batch) error {
	stats, err := up.Apply(b)
	if err != nil {
		return fmt.Errorf("scene upload: %w", err)
	}
	e.statsMu.Lock()
	e.uploads.Applied += stats.Applied
	e.uploads.Skipped += stats.Skipped
	e.uploads.Duration += stats.Duration
	e.statsMu.Unlock()
	Logger().Debug("scene upload complete", "engine", e.id,
		"applied", stats.Applied, "skipped", stats.Skipped, "took", stats.Duration)
	return nil
}

// UploadStats returns the accumulated upload totals across all scene
// uploads this engine has performed.
func (e *Engine) UploadStats() upload.Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.uploads
}
