// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrNoDevice is returned when selection cannot satisfy the preference and
// the CPU fallback has been excluded.
var ErrNoDevice = errors.New("device: no usable compute device")

// Device describes one compute device usable for path tracing.
type Device struct {
	// ID is the device's position in the enumeration order.
	ID int

	// Name is the human-readable device name ("NVIDIA GeForce RTX 3080",
	// "CPU").
	Name string

	// CPU is true for the host-processor fallback device.
	CPU bool

	// Type is the adapter type reported by the GPU stack.
	// Only meaningful when CPU is false.
	Type gputypes.DeviceType
}

// String returns a human-readable description of the device.
func (d Device) String() string {
	if d.CPU {
		return fmt.Sprintf("%s (cpu)", d.Name)
	}
	return fmt.Sprintf("%s (%v)", d.Name, d.Type)
}

// Preference controls device selection order.
type Preference uint8

const (
	// PreferGPU selects a discrete GPU first, then an integrated GPU,
	// then the CPU fallback.
	PreferGPU Preference = iota

	// PreferCPU selects the CPU device regardless of available GPUs.
	PreferCPU
)

// cpuDevice is the always-available fallback.
func cpuDevice(id int) Device {
	return Device{ID: id, Name: "CPU", CPU: true}
}

// Available returns all usable devices. The CPU device is always last, so
// enumeration order doubles as preference order for GPU-first selection.
func Available() []Device {
	devs := probeAdapters()
	devs = append(devs, cpuDevice(len(devs)))
	return devs
}

// Select picks a device from devs by preference. An empty devs slice
// behaves as if only the CPU device existed.
func Select(devs []Device, pref Preference) (Device, error) {
	if len(devs) == 0 {
		devs = []Device{cpuDevice(0)}
	}
	if pref == PreferCPU {
		for _, d := range devs {
			if d.CPU {
				return d, nil
			}
		}
		return Device{}, ErrNoDevice
	}

	// GPU-first: discrete beats integrated beats everything else.
	best := -1
	bestRank := rankNone
	for i, d := range devs {
		r := rank(d)
		if r < bestRank {
			best = i
			bestRank = r
		}
	}
	if best < 0 {
		return Device{}, ErrNoDevice
	}
	return devs[best], nil
}

const (
	rankDiscrete = iota
	rankIntegrated
	rankOtherGPU
	rankCPU
	rankNone
)

func rank(d Device) int {
	if d.CPU {
		return rankCPU
	}
	switch d.Type {
	case gputypes.DeviceTypeDiscreteGPU:
		return rankDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return rankIntegrated
	default:
		return rankOtherGPU
	}
}
