// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lux

import (
	"fmt"
	"time"

	"github.com/gogpu/lux/tracer"
)

// completionFraction maps the current sample count onto [0,1]. Budgets of
// tracer.SamplesUnbounded yield -1 to signal an indeterminate bar. Values
// within rounding distance of done are snapped to exactly 1 so a UI never
// shows 99% on the final sample.
func completionFraction(samples, budget int) float32 {
	if budget == tracer.SamplesUnbounded || budget <= 0 {
		return -1
	}
	f := float32(samples) / float32(budget)
	if f >= 0.9999 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// formatElapsed renders a duration as H:MM:SS.ss, dropping the hour field
// when zero.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := d.Seconds()
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", h, m, s)
	}
	return fmt.Sprintf("%02d:%05.2f", m, s)
}

// formatStatus builds the status line shown next to the progress bar.
func formatStatus(p tracer.Progress, budget int) string {
	var sampleText string
	if budget == tracer.SamplesUnbounded {
		sampleText = fmt.Sprintf("sample %d", p.Samples)
	} else {
		sampleText = fmt.Sprintf("sample %d/%d", p.Samples, budget)
	}
	text := sampleText
	if p.Status != "" {
		text = p.Status + " | " + text
	}
	if p.Substatus != "" {
		text += " | " + p.Substatus
	}
	if p.Elapsed > 0 {
		text += " | " + formatElapsed(p.Elapsed)
	}
	return text
}
