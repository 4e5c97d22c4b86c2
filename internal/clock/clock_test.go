// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clock

import (
	"errors"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
)

func TestNanos(t *testing.T) {
	for _, tc := range []struct {
		sec, nsec, want int64
	}{
		{0, 0, 0},
		{0, 999, 999},
		{1, 0, 1000000000},
		{2, 500, 2000000500},
	} {
		if got := Nanos(tc.sec, tc.nsec); got != tc.want {
			t.Errorf("Nanos(%d, %d) = %d; want %d", tc.sec, tc.nsec, got, tc.want)
		}
	}
}

func TestPairDiffBorrow(t *testing.T) {
	start := Reading{sec: 10, nsec: 900000000}
	end := Reading{sec: 12, nsec: 100000000}
	sec, nsec := pairDiff(end, start)
	if sec != 1 || nsec != 200000000 {
		t.Errorf("pairDiff = (%d, %d); want (1, 200000000)", sec, nsec)
	}
	if got, want := Nanos(sec, nsec), int64(1200000000); got != want {
		t.Errorf("Nanos(pairDiff) = %d; want %d", got, want)
	}
}

func TestWall(t *testing.T) {
	fclk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w := NewWall(fclk)

	start := w.Now()
	fclk.Increment(1500 * time.Microsecond)
	if got, want := w.Since(start), int64(1500000); got != want {
		t.Errorf("Since() = %d; want %d", got, want)
	}

	// Sub-millisecond precision survives the float representation.
	start = w.Now()
	fclk.Increment(750 * time.Nanosecond)
	if got, want := w.Since(start), int64(750); got != want {
		t.Errorf("Since() = %d; want %d", got, want)
	}
}

func TestHighResMonotonic(t *testing.T) {
	h, err := NewHighRes()
	if errors.Is(err, ErrUnavailable) {
		t.Skip("High-resolution clock unavailable: ", err)
	} else if err != nil {
		t.Fatal("NewHighRes failed: ", err)
	}
	start := h.Now()
	time.Sleep(time.Millisecond)
	if got := h.Since(start); got < int64(time.Millisecond) {
		t.Errorf("Since() = %d after sleeping 1ms; want >= %d", got, time.Millisecond)
	}
}

func TestCPU(t *testing.T) {
	var user float64
	var fail bool
	c, err := newCPU(func() (float64, float64, error) {
		if fail {
			return 0, 0, errors.New("accounting failed")
		}
		return user, 0.5, nil
	})
	if err != nil {
		t.Fatal("newCPU failed: ", err)
	}

	start := c.Now()
	user = 0.002
	if got, want := c.Since(start), int64(2000000); got != want {
		t.Errorf("Since() = %d; want %d", got, want)
	}

	// A failed read repeats the previous reading.
	start = c.Now()
	fail = true
	if got := c.Since(start); got != 0 {
		t.Errorf("Since() after failed read = %d; want 0", got)
	}
}

func TestNewCPUUnavailable(t *testing.T) {
	_, err := newCPU(func() (float64, float64, error) {
		return 0, 0, errors.New("no procfs")
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("newCPU() = %v; want ErrUnavailable", err)
	}
}

func TestFake(t *testing.T) {
	f := NewFake(250)
	start := f.Now()
	if got := f.Since(start); got != 250 {
		t.Errorf("Since() = %d; want 250", got)
	}
	f.Advance(2e9)
	start = f.Now()
	f.Advance(1e9)
	if got, want := f.Since(start), int64(1e9+250); got != want {
		t.Errorf("Since() = %d; want %d", got, want)
	}
}

func TestSelect(t *testing.T) {
	for _, name := range []string{"", "auto", "wall"} {
		s, err := Select(name)
		if err != nil {
			t.Errorf("Select(%q) failed: %v", name, err)
			continue
		}
		if s == nil {
			t.Errorf("Select(%q) returned nil", name)
		}
	}
	if _, err := Select("sundial"); err == nil {
		t.Error(`Select("sundial") succeeded; want error`)
	}
	if Default == nil {
		t.Error("Default is nil")
	}
}
