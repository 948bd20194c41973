// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package device

// probeAdapters reports no GPU adapters in nogpu builds.
func probeAdapters() []Device { return nil }
