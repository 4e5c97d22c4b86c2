// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clock

import "sync"

// Fake is a pair-based Source for tests. Each call to Now advances the clock
// by Step nanoseconds after reading it, so consecutive measurements have
// predictable lengths.
type Fake struct {
	mu   sync.Mutex
	now  int64
	Step int64
}

// NewFake returns a Fake starting at zero that advances by step nanoseconds
// on every reading.
func NewFake(step int64) *Fake {
	return &Fake{Step: step}
}

// Name returns "fake".
func (*Fake) Name() string { return "fake" }

// Advance moves the clock forward by ns nanoseconds.
func (f *Fake) Advance(ns int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += ns
}

// Now returns the current fake time and advances it by Step.
func (f *Fake) Now() Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := Reading{sec: f.now / 1e9, nsec: f.now % 1e9}
	f.now += f.Step
	return r
}

// Since returns the nanoseconds elapsed since start.
func (f *Fake) Since(start Reading) int64 {
	return Nanos(pairDiff(f.Now(), start))
}
