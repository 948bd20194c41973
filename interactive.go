// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"fmt"
	"time"

	"github.com/gogpu/lux/upload"
)

// runInteractive is the edit-restart policy: the change queue stays alive
// for the engine's lifetime, and every flushed scene edit cancels the
// current pass, re-uploads the delta, and restarts sampling from zero.
func (e *Engine) runInteractive() {
	dev, err := e.selectDevice()
	if err != nil {
		e.setErr(err)
		return
	}
	Logger().Info("render started", "engine", e.id, "mode", "interactive",
		"device", dev.Name, "document", e.cfg.document)

	scene, err := e.cfg.factory.CreateScene(dev)
	if err != nil {
		e.setErr(fmt.Errorf("create scene: %w", err))
		return
	}
	e.scene = scene
	up := upload.New(scene)

	e.state.Store(StateUploading)
	first := e.queue.Drain()
	e.queue.ClearFlush()
	if err := e.upload(up, first); err != nil {
		e.setErr(err)
		return
	}
	if e.stopRequested.Load() {
		return
	}

	sess, err := e.cfg.factory.CreateSession(scene, e.sessionParams(), e.callbacks())
	if err != nil {
		e.setErr(fmt.Errorf("create session: %w", err))
		return
	}
	e.setSession(sess)

	w, h := e.asm.Target().Width(), e.asm.Target().Height()
	if err := sess.Reset(w, h, int(e.budget.Load())); err != nil {
		e.setErr(fmt.Errorf("session reset: %w", err))
		return
	}
	e.startGeneration()
	e.resumeOrWait()
	e.status.publish(StatusUpdate{Text: "rendering", Progress: 0})

	pass := 0
	passStart := time.Now()
	for {
		switch e.state.Load() {
		case StateStopped:
			return

		case StateUploading:
			if err := e.upload(up, e.takePending()); err != nil {
				e.setErr(err)
				return
			}
			if err := sess.Reset(w, h, int(e.budget.Load())); err != nil {
				e.setErr(fmt.Errorf("session reset: %w", err))
				return
			}
			e.startGeneration()
			pass = 0
			passStart = time.Now()
			e.resumeOrWait()

		case StateWaiting:
			// Park, but wake periodically: a flush requested while parked
			// has no progress callback to pick it up, so the worker
			// re-enters rendering itself and flushes from there.
			e.state.wait(func(s RenderState) bool { return s != StateWaiting }, 100*time.Millisecond)
			if !e.paused.Load() && e.queue.FlushDue() {
				e.state.compareAndSwap(StateWaiting, StateRendering)
				e.CheckFlushQueue()
			}

		case StateRendering:
			more, err := sess.Sample()
			if err != nil {
				e.setErr(fmt.Errorf("sample: %w", err))
				return
			}
			pass++
			e.passes.publish(PassInfo{
				View:     e.cfg.document,
				Pass:     pass,
				Samples:  int(e.samples.Load()),
				Duration: time.Since(passStart),
			})
			if !more {
				// Budget reached. Park until an edit or a bigger budget
				// arrives; compareAndSwap keeps a flush that landed during
				// the final sample from being overwritten.
				if err := e.asm.Flush(); err != nil {
					e.setErr(fmt.Errorf("frame flush: %w", err))
					return
				}
				e.state.compareAndSwap(StateRendering, StateWaiting)
			} else if e.cfg.throttle > 0 {
				time.Sleep(e.cfg.throttle)
			}
		}
	}
}

// resumeOrWait leaves the upload critical section into the right
// follow-on state. The stop path waits for exactly this transition.
func (e *Engine) resumeOrWait() {
	if e.paused.Load() {
		e.state.Store(StateWaiting)
	} else {
		e.state.Store(StateRendering)
	}
}
