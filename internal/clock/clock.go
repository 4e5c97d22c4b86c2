// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clock provides the monotonic time sources used to measure elapsed
// time of profiled calls.
//
// Two kinds of backends exist. A high-resolution backend returns readings as
// (seconds, nanoseconds) pairs that are combined into a single nanosecond
// count on subtraction. Coarser backends return floating-point millisecond
// readings whose differences are scaled to nanoseconds. Callers only ever see
// nanoseconds and must not assume which backend is active.
package clock

import (
	"math"

	"go.chromium.org/berry/errors"
)

// ErrUnavailable is returned when a requested clock backend cannot be used on
// this platform.
var ErrUnavailable = errors.New("clock unavailable")

// Reading is an opaque point in time produced by a Source. Readings are only
// meaningful to the Source that produced them.
type Reading struct {
	sec  int64   // whole seconds, used by pair-based sources
	nsec int64   // sub-second nanoseconds, used by pair-based sources
	ms   float64 // milliseconds, used by float-based sources
}

// Source produces monotonic readings and computes elapsed nanoseconds.
type Source interface {
	// Name returns a short identifier of the backend, e.g. "highres".
	Name() string
	// Now returns the current reading.
	Now() Reading
	// Since returns the number of nanoseconds elapsed since start.
	Since(start Reading) int64
}

// Nanos combines a (seconds, nanoseconds) pair into a single nanosecond count.
func Nanos(sec, nsec int64) int64 {
	return sec*1e9 + nsec
}

// pairDiff subtracts two (seconds, nanoseconds) readings, borrowing a second
// when the nanosecond component underflows. The result's nanosecond component
// is always in [0, 1e9).
func pairDiff(end, start Reading) (sec, nsec int64) {
	sec = end.sec - start.sec
	nsec = end.nsec - start.nsec
	if nsec < 0 {
		sec--
		nsec += 1e9
	}
	return sec, nsec
}

// msDiff converts the difference of two millisecond readings to nanoseconds.
func msDiff(end, start Reading) int64 {
	return int64(math.Round((end.ms - start.ms) * 1e6))
}

// Default is the process-wide Source chosen once at startup: the
// high-resolution backend when the platform supports it, the wall-clock
// backend otherwise.
var Default Source = mustAuto()

func mustAuto() Source {
	if s, err := NewHighRes(); err == nil {
		return s
	}
	return NewWall(nil)
}

// Select returns the Source named by name. Recognized names are "auto",
// "highres", "wall" and "cpu". An empty name is the same as "auto".
func Select(name string) (Source, error) {
	switch name {
	case "", "auto":
		return mustAuto(), nil
	case "highres":
		return NewHighRes()
	case "wall":
		return NewWall(nil), nil
	case "cpu":
		return NewCPU()
	default:
		return nil, errors.Errorf("unknown clock %q", name)
	}
}
