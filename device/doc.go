// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device enumerates and selects compute devices for path tracing.
//
// Two integration paths exist, mirroring the rest of the gogpu stack:
//
//   - Host-provided: the host application already owns a GPU device and
//     hands lux a [Handle] (a gpucontext.DeviceProvider). This is the
//     preferred path; lux never creates a device the host could share.
//   - Standalone: when no host device exists, Available probes adapters
//     through gogpu/wgpu's HAL and Select picks one by preference
//     (discrete > integrated > CPU fallback).
//
// The CPU device is always available and is the terminal fallback.
package device
