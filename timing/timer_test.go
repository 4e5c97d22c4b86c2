// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"testing"

	"go.chromium.org/berry/internal/clock"
)

func TestTimerStop(t *testing.T) {
	fc := clock.NewFake(0)
	tm := TimeWith(fc)

	fc.Advance(1500)
	if got, want := tm.Stop(), "2µs"; got != want {
		t.Errorf("Stop() = %q; want %q", got, want)
	}
}

func TestTimerStopRepeated(t *testing.T) {
	// Stop does not reset the timer; every call measures from the original start.
	fc := clock.NewFake(0)
	tm := TimeWith(fc)

	fc.Advance(500)
	if got, want := tm.Stop(), "500ns"; got != want {
		t.Errorf("First Stop() = %q; want %q", got, want)
	}
	fc.Advance(2000000)
	if got, want := tm.Stop(), "2ms"; got != want {
		t.Errorf("Second Stop() = %q; want %q", got, want)
	}
	if got, want := tm.Elapsed(), int64(2000500); got != want {
		t.Errorf("Elapsed() = %d; want %d", got, want)
	}
}

func TestTimeDefault(t *testing.T) {
	tm := Time()
	if ns := tm.Elapsed(); ns < 0 {
		t.Errorf("Elapsed() = %d; want non-negative", ns)
	}
}
