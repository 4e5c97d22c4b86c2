// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package timing measures and records elapsed time.
//
// A Timer is a reusable stopwatch: Stop may be called any number of times and
// each call reports the time elapsed since the Timer was created.
//
//	tm := timing.Time()
//	doWork()
//	fmt.Println("took", tm.Stop()) // e.g. "took 12ms"
//
// A Log collects nested named stages, e.g. one per step of a pipeline.
package timing

import (
	"go.chromium.org/berry/internal/clock"
)

// Timer is a single start/stop measurement.
type Timer struct {
	src   clock.Source
	start clock.Reading
}

// Time starts a new Timer on the process-wide default clock.
func Time() *Timer {
	return TimeWith(clock.Default)
}

// TimeWith starts a new Timer reading from src.
func TimeWith(src clock.Source) *Timer {
	return &Timer{src: src, start: src.Now()}
}

// Elapsed returns the nanoseconds elapsed since t was started.
func (t *Timer) Elapsed() int64 {
	return t.src.Since(t.start)
}

// Stop returns the time elapsed since t was started as a humanized duration.
// It does not reset t; calling it again measures from the same start.
func (t *Timer) Stop() string {
	return Humanize(t.Elapsed())
}
