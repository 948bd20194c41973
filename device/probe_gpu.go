// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/lux/internal/logging"
)

// probeAdapters enumerates GPU adapters through gogpu/wgpu's HAL.
// Failures are not errors: a machine without a usable GPU stack simply
// renders on the CPU device.
func probeAdapters() []Device {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		logging.Logger().Debug("device: vulkan backend not available")
		return nil
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		logging.Logger().Debug("device: create instance failed", "error", err)
		return nil
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	devs := make([]Device, 0, len(adapters))
	for i := range adapters {
		info := adapters[i].Info
		devs = append(devs, Device{
			ID:   i,
			Name: info.Name,
			Type: info.DeviceType,
		})
	}
	logging.Logger().Debug("device: probed adapters", "count", len(devs))
	return devs
}

// Open opens a standalone HAL device for d and returns an owned handle.
// Only GPU devices can be opened; the CPU device needs no handle.
//
// The returned OpenedDevice must be destroyed by the caller once the
// renderer is done with it.
func Open(d Device) (*OpenedDevice, error) {
	if d.CPU {
		return nil, fmt.Errorf("device: cannot open CPU device %q", d.Name)
	}
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("device: vulkan backend not available: %w", ErrNoDevice)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("device: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if d.ID < 0 || d.ID >= len(adapters) {
		instance.Destroy()
		return nil, fmt.Errorf("device: adapter %d (%s) no longer present: %w", d.ID, d.Name, ErrNoDevice)
	}

	openDev, err := adapters[d.ID].Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("device: open %s: %w", d.Name, err)
	}

	logging.Logger().Info("device: opened", "adapter", d.Name)
	return &OpenedDevice{
		Desc:     d,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		instance: instance,
	}, nil
}

// OpenedDevice is a standalone HAL device owned by lux.
type OpenedDevice struct {
	Desc   Device
	Device hal.Device
	Queue  hal.Queue

	instance hal.Instance
}

// Destroy releases the device and its instance. Idempotent.
func (o *OpenedDevice) Destroy() {
	if o.Device != nil {
		o.Device.Destroy()
		o.Device = nil
	}
	if o.instance != nil {
		o.instance.Destroy()
		o.instance = nil
	}
	o.Queue = nil
}
