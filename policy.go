// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import "github.com/gogpu/lux/changes"

// RunModal builds a modal engine, lets stage append the scene to the
// change queue, renders to the sample budget, and blocks until the render
// finishes or fails. The engine is torn down before RunModal returns.
func RunModal(stage func(q *changes.Queue), opts ...Option) error {
	e, err := New(opts...)
	if err != nil {
		return err
	}
	defer e.Stop()
	if stage != nil {
		stage(e.Queue())
	}
	if err := e.Start(); err != nil {
		return err
	}
	return e.Wait()
}

// RunInteractive builds and starts an engine with the edit-restart
// policy. The caller owns the returned engine and must Stop it.
func RunInteractive(opts ...Option) (*Engine, error) {
	e, err := New(append(opts, Interactive())...)
	if err != nil {
		return nil, err
	}
	if err := e.Start(); err != nil {
		e.Stop()
		return nil, err
	}
	return e, nil
}
