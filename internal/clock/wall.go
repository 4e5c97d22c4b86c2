// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clock

import (
	"time"

	"code.cloudfoundry.org/clock"
)

// Wall is the fallback backend. Its readings are floating-point milliseconds
// since the source was created.
type Wall struct {
	clk    clock.Clock
	origin time.Time
}

// NewWall returns a Wall source reading from clk. If clk is nil, the real
// clock is used.
func NewWall(clk clock.Clock) *Wall {
	if clk == nil {
		clk = clock.NewClock()
	}
	return &Wall{clk: clk, origin: clk.Now()}
}

// Name returns "wall".
func (*Wall) Name() string { return "wall" }

// Now returns the milliseconds elapsed since w was created.
func (w *Wall) Now() Reading {
	return Reading{ms: float64(w.clk.Since(w.origin)) / float64(time.Millisecond)}
}

// Since returns the nanoseconds elapsed since start.
func (w *Wall) Since(start Reading) int64 {
	return msDiff(w.Now(), start)
}
