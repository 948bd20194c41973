// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"testing"
	"time"

	"github.com/gogpu/lux/tracer"
)

func TestCompletionFraction(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		budget  int
		want    float32
	}{
		{"zero of ten", 0, 10, 0},
		{"half", 5, 10, 0.5},
		{"done", 10, 10, 1},
		{"over", 12, 10, 1},
		{"rounding edge snaps to one", 9999, 10000, 1},
		{"just below edge", 9998, 10000, 0.9998},
		{"unbounded", 100, tracer.SamplesUnbounded, -1},
		{"zero budget", 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completionFraction(tt.samples, tt.budget); got != tt.want {
				t.Errorf("completionFraction(%d, %d) = %v, want %v", tt.samples, tt.budget, got, tt.want)
			}
		})
	}
}

func TestCompletionFractionNeverShowsAlmostDone(t *testing.T) {
	// Large budgets must not leave the bar stuck below 1 on the final
	// sample through float truncation.
	for _, budget := range []int{3, 7, 1000, 1 << 20} {
		if got := completionFraction(budget, budget); got != 1 {
			t.Errorf("completionFraction(%d, %d) = %v, want exactly 1", budget, budget, got)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00.00"},
		{1500 * time.Millisecond, "00:01.50"},
		{90 * time.Second, "01:30.00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03.00"},
		{-time.Second, "00:00.00"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatStatus(t *testing.T) {
	p := tracer.Progress{Status: "Rendering", Substatus: "tile 4/16", Samples: 32, Elapsed: 90 * time.Second}
	got := formatStatus(p, 128)
	want := "Rendering | sample 32/128 | tile 4/16 | 01:30.00"
	if got != want {
		t.Errorf("formatStatus = %q, want %q", got, want)
	}
}

func TestFormatStatusUnbounded(t *testing.T) {
	p := tracer.Progress{Samples: 7}
	got := formatStatus(p, tracer.SamplesUnbounded)
	want := "sample 7"
	if got != want {
		t.Errorf("formatStatus = %q, want %q", got, want)
	}
}
