// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestSelectPrefersDiscreteGPU(t *testing.T) {
	devs := []Device{
		{ID: 0, Name: "Intel Iris Xe", Type: gputypes.DeviceTypeIntegratedGPU},
		{ID: 1, Name: "NVIDIA RTX 4070", Type: gputypes.DeviceTypeDiscreteGPU},
		{ID: 2, Name: "CPU", CPU: true},
	}

	got, err := Select(devs, PreferGPU)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Name != "NVIDIA RTX 4070" {
		t.Errorf("Select() = %q, want discrete GPU", got.Name)
	}
}

func TestSelectFallsBackToIntegrated(t *testing.T) {
	devs := []Device{
		{ID: 0, Name: "Intel Iris Xe", Type: gputypes.DeviceTypeIntegratedGPU},
		{ID: 1, Name: "CPU", CPU: true},
	}

	got, err := Select(devs, PreferGPU)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Name != "Intel Iris Xe" {
		t.Errorf("Select() = %q, want integrated GPU", got.Name)
	}
}

func TestSelectCPUOnly(t *testing.T) {
	got, err := Select(nil, PreferGPU)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !got.CPU {
		t.Errorf("Select() = %v, want CPU fallback", got)
	}
}

func TestSelectPreferCPU(t *testing.T) {
	devs := []Device{
		{ID: 0, Name: "NVIDIA RTX 4070", Type: gputypes.DeviceTypeDiscreteGPU},
		{ID: 1, Name: "CPU", CPU: true},
	}

	got, err := Select(devs, PreferCPU)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !got.CPU {
		t.Errorf("Select() = %v, want CPU device", got)
	}
}

func TestSelectPreferCPUMissing(t *testing.T) {
	devs := []Device{
		{ID: 0, Name: "NVIDIA RTX 4070", Type: gputypes.DeviceTypeDiscreteGPU},
	}

	_, err := Select(devs, PreferCPU)
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("Select() error = %v, want ErrNoDevice", err)
	}
}

func TestAvailableAlwaysHasCPU(t *testing.T) {
	devs := Available()
	if len(devs) == 0 {
		t.Fatal("Available() returned no devices")
	}
	last := devs[len(devs)-1]
	if !last.CPU {
		t.Errorf("Available() last device = %v, want CPU fallback", last)
	}
}

func TestNullHandle(t *testing.T) {
	var h Handle = NullHandle{}

	if h.Device() != nil {
		t.Error("NullHandle.Device() should return nil")
	}
	if h.Queue() != nil {
		t.Error("NullHandle.Queue() should return nil")
	}
	if h.Adapter() != nil {
		t.Error("NullHandle.Adapter() should return nil")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("NullHandle.SurfaceFormat() should return Undefined")
	}
	if got := h.AdapterInfo(); got.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("NullHandle.AdapterInfo().Type = %v, want Unknown", got.Type)
	}
}

// hostHandle is a minimal live provider for FromHandle tests.
type hostHandle struct {
	NullHandle
	info gpucontext.AdapterInfo
}

func (hostHandle) Device() gpucontext.Device             { return hostDevice{} }
func (h hostHandle) AdapterInfo() gpucontext.AdapterInfo { return h.info }

type hostDevice struct{}

func TestFromHandle(t *testing.T) {
	tests := []struct {
		name    string
		handle  Handle
		wantCPU bool
		want    gputypes.DeviceType
	}{
		{"nil handle", nil, true, 0},
		{"null handle", NullHandle{}, true, 0},
		{"discrete", hostHandle{info: gpucontext.AdapterInfo{Name: "RTX", Type: gpucontext.AdapterTypeDiscrete}}, false, gputypes.DeviceTypeDiscreteGPU},
		{"integrated", hostHandle{info: gpucontext.AdapterInfo{Name: "Iris", Type: gpucontext.AdapterTypeIntegrated}}, false, gputypes.DeviceTypeIntegratedGPU},
		{"software", hostHandle{info: gpucontext.AdapterInfo{Name: "llvmpipe", Type: gpucontext.AdapterTypeSoftware}}, true, 0},
		{"unknown", hostHandle{info: gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}}, false, gputypes.DeviceTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromHandle(tt.handle)
			if got.CPU != tt.wantCPU {
				t.Errorf("FromHandle().CPU = %v, want %v", got.CPU, tt.wantCPU)
			}
			if !got.CPU && got.Type != tt.want {
				t.Errorf("FromHandle().Type = %v, want %v", got.Type, tt.want)
			}
		})
	}
}

func TestDeviceString(t *testing.T) {
	d := Device{Name: "CPU", CPU: true}
	if got := d.String(); got != "CPU (cpu)" {
		t.Errorf("String() = %q, want %q", got, "CPU (cpu)")
	}
}
