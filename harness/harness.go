// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package harness provides simple timed runners for ad-hoc measurements.
//
// Test and TestSkip time a single call, Bench times a fixed number of loops
// and Perf counts how many calls complete within a duration. Every run ends
// with a Report delivered to the Harness's Reporter.
package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	cfclock "code.cloudfoundry.org/clock"

	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/clock"
	"go.chromium.org/berry/timing"
)

const (
	// DefaultLoops is the number of loops Bench runs when given zero.
	DefaultLoops = 1000
	// DefaultDuration is the duration Perf runs for when given zero.
	DefaultDuration = time.Second
)

// Harness runs measurements and reports them.
type Harness struct {
	src  clock.Source
	wall cfclock.Clock
	rep  Reporter
}

// Option customizes a Harness.
type Option func(h *Harness)

// WithClock makes the Harness time measurements with src.
func WithClock(src clock.Source) Option {
	return func(h *Harness) { h.src = src }
}

// WithWallClock makes Perf read deadlines from c.
func WithWallClock(c cfclock.Clock) Option {
	return func(h *Harness) { h.wall = c }
}

// New returns a Harness delivering reports to rep.
func New(rep Reporter, opts ...Option) *Harness {
	h := &Harness{src: clock.Default, wall: cfclock.NewClock(), rep: rep}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TestSkip times a synchronous call of fn.
func (h *Harness) TestSkip(title string, fn func() error) *Report {
	tm := timing.TimeWith(h.src)
	err := call(fn)
	return h.finish(title, tm, err)
}

// Test times fn until it calls done. fn may call done from any goroutine;
// only the first call counts. The returned Promise fulfills with the *Report
// once done is called, or once fn panics.
func (h *Harness) Test(title string, fn func(done func(err error))) *deferred.Promise {
	p := deferred.NewPromise()
	tm := timing.TimeWith(h.src)
	var once sync.Once
	done := func(err error) {
		once.Do(func() { p.Resolve(h.finish(title, tm, err)) })
	}
	if err := call(func() error {
		fn(done)
		return nil
	}); err != nil {
		done(err)
	}
	return p
}

// Bench times loops synchronous calls of fn. A non-positive loops means
// DefaultLoops. The run stops at the first failing call.
func (h *Harness) Bench(title string, loops int, fn func() error) *Report {
	if loops <= 0 {
		loops = DefaultLoops
	}
	return h.TestSkip(fmt.Sprintf("%s benchmark with %d loops", title, loops), func() error {
		for i := 0; i < loops; i++ {
			if err := fn(); err != nil {
				return errors.Wrapf(err, "loop %d", i)
			}
		}
		return nil
	})
}

// Perf calls fn repeatedly until d has elapsed and reports the number of
// calls. A non-positive d means DefaultDuration. fn always runs at least once.
// The run fails at the first failing call, or when ctx is done.
func (h *Harness) Perf(ctx context.Context, title string, d time.Duration, fn func() error) *Report {
	if d <= 0 {
		d = DefaultDuration
	}
	r := &Report{Kind: KindPerf, Title: title, Duration: d, Status: StatusPassed}
	start := h.wall.Now()
	for {
		if err := call(fn); err != nil {
			r.Status, r.Err = StatusFailed, err
			break
		}
		r.Count++
		if h.wall.Since(start) >= d {
			break
		}
		if err := ctx.Err(); err != nil {
			r.Status, r.Err = StatusFailed, err
			break
		}
	}
	h.rep.Report(r)
	return r
}

func (h *Harness) finish(title string, tm *timing.Timer, err error) *Report {
	ns := tm.Elapsed()
	r := &Report{
		Kind:    KindMeasurement,
		Title:   title,
		Status:  StatusPassed,
		Runtime: timing.Humanize(ns),
		Elapsed: ns,
	}
	if err != nil {
		r.Status, r.Err = StatusFailed, err
	}
	h.rep.Report(r)
	return r
}

// call calls fn, converting a panic into an error.
func call(fn func() error) (err error) {
	defer func() {
		if val := recover(); val != nil {
			err = errors.Errorf("panic: %v", val)
		}
	}()
	return fn()
}
