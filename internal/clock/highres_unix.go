// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build linux || darwin || freebsd

package clock

import (
	"golang.org/x/sys/unix"

	"go.chromium.org/berry/errors"
)

// HighRes reads CLOCK_MONOTONIC. Its readings are (seconds, nanoseconds)
// pairs.
type HighRes struct {
	clockID int32
}

// NewHighRes returns a HighRes source, or ErrUnavailable if the monotonic
// clock cannot be read.
func NewHighRes() (*HighRes, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return &HighRes{clockID: unix.CLOCK_MONOTONIC}, nil
}

// Name returns "highres".
func (*HighRes) Name() string { return "highres" }

// Now returns the current monotonic time.
func (h *HighRes) Now() Reading {
	var ts unix.Timespec
	// The clock was successfully read in NewHighRes, and CLOCK_MONOTONIC does
	// not become unreadable afterwards.
	unix.ClockGettime(h.clockID, &ts)
	return Reading{sec: int64(ts.Sec), nsec: int64(ts.Nsec)}
}

// Since returns the nanoseconds elapsed since start.
func (h *HighRes) Since(start Reading) int64 {
	return Nanos(pairDiff(h.Now(), start))
}
