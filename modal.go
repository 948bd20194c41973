// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"fmt"
	"time"

	"github.com/gogpu/lux/upload"
)

// runModal is the one-shot policy: drain whatever the host staged before
// Start, dispose the queue, then render the scene to its sample budget
// and finish. Edits made after Start are ignored.
func (e *Engine) runModal() {
	dev, err := e.selectDevice()
	if err != nil {
		e.setErr(err)
		return
	}
	Logger().Info("render started", "engine", e.id, "mode", "modal",
		"device", dev.Name, "document", e.cfg.document)

	scene, err := e.cfg.factory.CreateScene(dev)
	if err != nil {
		e.setErr(fmt.Errorf("create scene: %w", err))
		return
	}
	e.scene = scene

	e.state.Store(StateUploading)
	batch := e.queue.Drain()
	e.queue.Close()
	if err := e.upload(upload.New(scene), batch); err != nil {
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

	budget := int(e.budget.Load())
	if err := sess.Reset(e.asm.Target().Width(), e.asm.Target().Height(), budget); err != nil {
		e.setErr(fmt.Errorf("session reset: %w", err))
		return
	}
	e.startGeneration()
	e.state.Store(StateRendering)
	e.status.publish(StatusUpdate{Text: "rendering", Progress: 0})

	start := time.Now()
	passes := 0
loop:
	for !e.stopRequested.Load() {
		switch e.state.Load() {
		case StateRendering:
		case StateWaiting:
			// Paused: park until Resume or Stop moves the state on.
			e.state.wait(func(s RenderState) bool { return s != StateWaiting }, 0)
			continue
		default:
			break loop
		}
		more, err := sess.Sample()
		if err != nil {
			e.setErr(fmt.Errorf("sample: %w", err))
			return
		}
		passes++
		if !more {
			break
		}
		if e.cfg.throttle > 0 {
			time.Sleep(e.cfg.throttle)
		}
	}

	if err := e.asm.Flush(); err != nil {
		e.setErr(fmt.Errorf("frame flush: %w", err))
		return
	}
	took := time.Since(start)
	Logger().Info("render finished", "engine", e.id,
		"passes", passes, "samples", e.samples.Load(), "took", took)
	e.status.publish(StatusUpdate{
		Text:     fmt.Sprintf("finished %d passes in %s", passes, formatElapsed(took)),
		Progress: 1,
		Samples:  int(e.samples.Load()),
	})
}
