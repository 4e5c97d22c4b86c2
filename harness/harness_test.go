// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harness_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"go.chromium.org/berry/harness"
	"go.chromium.org/berry/internal/clock"
)

// collector is a harness.Reporter keeping every report it receives.
type collector struct {
	reports []*harness.Report
}

func (c *collector) Report(r *harness.Report) { c.reports = append(c.reports, r) }

func newHarness(opts ...harness.Option) (*harness.Harness, *collector) {
	col := &collector{}
	opts = append([]harness.Option{harness.WithClock(clock.NewFake(1000))}, opts...)
	return harness.New(col, opts...), col
}

var ignoreErr = cmpopts.IgnoreFields(harness.Report{}, "Err")

func TestTestSkip(t *testing.T) {
	h, col := newHarness()
	got := h.TestSkip("noop", func() error { return nil })
	want := &harness.Report{
		Kind:    harness.KindMeasurement,
		Title:   "noop",
		Status:  harness.StatusPassed,
		Runtime: "1µs",
		Elapsed: 1000,
	}
	if diff := cmp.Diff(got, want, ignoreErr); diff != "" {
		t.Error("Report mismatch (-got +want):\n", diff)
	}
	if len(col.reports) != 1 || col.reports[0] != got {
		t.Errorf("Reporter got %v; want the returned report only", col.reports)
	}
}

func TestTestSkipFailure(t *testing.T) {
	h, _ := newHarness()
	reason := errors.New("broken")
	got := h.TestSkip("broken", func() error { return reason })
	if got.Status != harness.StatusFailed || got.Err != reason {
		t.Errorf("TestSkip() = {%v, %v}; want {failed, %v}", got.Status, got.Err, reason)
	}
	if got.Runtime != "1µs" {
		t.Errorf("Runtime = %q; want %q", got.Runtime, "1µs")
	}
}

func TestTestSkipPanic(t *testing.T) {
	h, _ := newHarness()
	got := h.TestSkip("panic", func() error { panic("oops") })
	if got.Status != harness.StatusFailed || got.Err == nil || !strings.Contains(got.Err.Error(), "oops") {
		t.Errorf("TestSkip() = {%v, %v}; want a failure mentioning the panic", got.Status, got.Err)
	}
}

func TestTestAsync(t *testing.T) {
	h, col := newHarness()
	p := h.Test("async", func(done func(error)) {
		go func() {
			done(nil)
			done(errors.New("ignored"))
		}()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	v, err := p.Await(ctx)
	if err != nil {
		t.Fatal("Await failed: ", err)
	}
	r := v.(*harness.Report)
	if r.Status != harness.StatusPassed || r.Runtime != "1µs" {
		t.Errorf("Test() = {%v, %q}; want {passed, 1µs}", r.Status, r.Runtime)
	}
	if len(col.reports) != 1 {
		t.Errorf("Got %d reports; want 1", len(col.reports))
	}
}

func TestTestPanic(t *testing.T) {
	h, _ := newHarness()
	p := h.Test("panic", func(func(error)) { panic("oops") })
	if !p.Settled() {
		t.Fatal("Test did not settle after a panic")
	}
	v, _ := p.Await(context.Background())
	if r := v.(*harness.Report); r.Status != harness.StatusFailed {
		t.Errorf("Status = %v; want %v", r.Status, harness.StatusFailed)
	}
}

func TestBench(t *testing.T) {
	h, _ := newHarness()
	n := 0
	got := h.Bench("count", 0, func() error {
		n++
		return nil
	})
	if n != harness.DefaultLoops {
		t.Errorf("fn called %d times; want %d", n, harness.DefaultLoops)
	}
	if want := "count benchmark with 1000 loops"; got.Title != want {
		t.Errorf("Title = %q; want %q", got.Title, want)
	}
}

func TestBenchStopsOnError(t *testing.T) {
	h, _ := newHarness()
	reason := errors.New("third")
	n := 0
	got := h.Bench("fail", 5, func() error {
		n++
		if n == 3 {
			return reason
		}
		return nil
	})
	if n != 3 {
		t.Errorf("fn called %d times; want 3", n)
	}
	if !errors.Is(got.Err, reason) {
		t.Errorf("Err = %v; want %v", got.Err, reason)
	}
}

func TestPerf(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Unix(0, 0))
	h, _ := newHarness(harness.WithWallClock(fc))
	got := h.Perf(context.Background(), "tick", 0, func() error {
		fc.Increment(100 * time.Millisecond)
		return nil
	})
	want := &harness.Report{
		Kind:     harness.KindPerf,
		Title:    "tick",
		Status:   harness.StatusPassed,
		Count:    10,
		Duration: time.Second,
	}
	if diff := cmp.Diff(got, want, ignoreErr); diff != "" {
		t.Error("Report mismatch (-got +want):\n", diff)
	}
}

func TestPerfCanceled(t *testing.T) {
	fc := fakeclock.NewFakeClock(time.Unix(0, 0))
	h, _ := newHarness(harness.WithWallClock(fc))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := h.Perf(ctx, "stuck", time.Second, func() error { return nil })
	if got.Count != 1 || !errors.Is(got.Err, context.Canceled) {
		t.Errorf("Perf() = {%d, %v}; want {1, %v}", got.Count, got.Err, context.Canceled)
	}
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := harness.NewConsoleReporter(&buf)
	rep.Report(&harness.Report{Title: "a", Runtime: "3ms"})
	rep.Report(&harness.Report{Title: "b", Runtime: "1s", Status: harness.StatusFailed, Err: errors.New("bad")})
	rep.Report(&harness.Report{Kind: harness.KindPerf, Title: "c", Count: 123456, Duration: 500 * time.Millisecond})
	rep.Report(&harness.Report{Kind: harness.KindPerf, Title: "d", Count: 7, Status: harness.StatusFailed, Err: errors.New("worse")})

	want := strings.Join([]string{
		" ⏱ Messurement of a took 3ms",
		" ⏱ Messurement of b failed after 1s",
		"Error: bad",
		"⏱ c ran 123,456 times within 500ms",
		"⏱ d failed after 7 iterations.",
		"Error: worse",
		"",
	}, "\n")
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Error("Output mismatch (-got +want):\n", diff)
	}
}
