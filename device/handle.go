// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Handle provides GPU device access from the host application.
//
// The host (e.g. a gogpu window) implements Handle and passes it to lux,
// letting the renderer share the host's device instead of opening its own.
// Handle is an alias for gpucontext.DeviceProvider so any provider from the
// gpucontext ecosystem plugs in directly.
type Handle = gpucontext.DeviceProvider

// NullHandle is a Handle with no device behind it. Used for CPU-only
// rendering where no GPU is available.
type NullHandle struct{}

// Device returns nil for the null handle.
func (NullHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null handle.
func (NullHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null handle.
func (NullHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null handle.
func (NullHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter, since there is none.
func (NullHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var _ Handle = NullHandle{}

// FromHandle describes the device behind a host-provided Handle, bypassing
// adapter probing entirely. Handles without a live device (NullHandle, or a
// software adapter) map to the CPU device.
func FromHandle(h Handle) Device {
	if h == nil || h.Device() == nil {
		return cpuDevice(0)
	}
	info := h.AdapterInfo()
	name := info.Name
	if name == "" {
		name = "Host device"
	}
	switch info.Type {
	case gpucontext.AdapterTypeDiscrete:
		return Device{Name: name, Type: gputypes.DeviceTypeDiscreteGPU}
	case gpucontext.AdapterTypeIntegrated:
		return Device{Name: name, Type: gputypes.DeviceTypeIntegratedGPU}
	case gpucontext.AdapterTypeSoftware:
		return Device{Name: name, CPU: true}
	default:
		return Device{Name: name, Type: gputypes.DeviceTypeOther}
	}
}
