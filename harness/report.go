// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"go.chromium.org/berry/timing"
)

// Status is the outcome of a measurement.
type Status int

const (
	// StatusPassed means the measured function completed without error.
	StatusPassed Status = iota
	// StatusFailed means the measured function returned an error or panicked.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Kind distinguishes timed measurements from throughput runs.
type Kind int

const (
	// KindMeasurement is reported by Test, TestSkip and Bench.
	KindMeasurement Kind = iota
	// KindPerf is reported by Perf.
	KindPerf
)

// Report describes a finished run.
type Report struct {
	Kind   Kind
	Title  string
	Status Status
	// Runtime is the humanized elapsed time. Empty for KindPerf.
	Runtime string
	// Elapsed is the elapsed time in nanoseconds. Zero for KindPerf.
	Elapsed int64
	// Count is the number of completed iterations. Zero for KindMeasurement.
	Count int64
	// Duration is the requested Perf duration. Zero for KindMeasurement.
	Duration time.Duration
	// Err is set when Status is StatusFailed.
	Err error
}

// Reporter receives finished reports.
type Reporter interface {
	Report(r *Report)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r *Report)

// Report calls f(r).
func (f ReporterFunc) Report(r *Report) { f(r) }

// ConsoleReporter writes one or two human-readable lines per report.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleReporter returns a ConsoleReporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Report writes r to the underlying writer.
func (c *ConsoleReporter) Report(r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch r.Kind {
	case KindPerf:
		if r.Status == StatusPassed {
			fmt.Fprintf(c.w, "⏱ %s ran %s times within %s\n",
				r.Title, humanize.Comma(r.Count), timing.Humanize(r.Duration.Nanoseconds()))
			return
		}
		fmt.Fprintf(c.w, "⏱ %s failed after %s iterations.\n", r.Title, humanize.Comma(r.Count))
	default:
		if r.Status == StatusPassed {
			fmt.Fprintf(c.w, " ⏱ Messurement of %s took %s\n", r.Title, r.Runtime)
			return
		}
		fmt.Fprintf(c.w, " ⏱ Messurement of %s failed after %s\n", r.Title, r.Runtime)
	}
	fmt.Fprintf(c.w, "Error: %v\n", r.Err)
}
