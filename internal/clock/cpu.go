// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package clock

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"go.chromium.org/berry/errors"
)

// timesFunc returns user and system CPU seconds consumed by a process.
type timesFunc func() (user, system float64, err error)

// CPU measures CPU time consumed by the current process rather than elapsed
// real time. Readings are floating-point milliseconds. The resolution depends
// on the kernel's accounting and is usually much coarser than HighRes.
type CPU struct {
	times timesFunc

	mu   sync.Mutex
	last float64 // last successful reading in ms
}

// NewCPU returns a CPU source for the current process.
func NewCPU() (*CPU, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return newCPU(func() (float64, float64, error) {
		t, err := p.Times()
		if err != nil {
			return 0, 0, err
		}
		return t.User, t.System, nil
	})
}

func newCPU(times timesFunc) (*CPU, error) {
	if _, _, err := times(); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return &CPU{times: times}, nil
}

// Name returns "cpu".
func (*CPU) Name() string { return "cpu" }

// Now returns the CPU milliseconds consumed so far. If the process accounting
// cannot be read, the previous reading is repeated.
func (c *CPU) Now() Reading {
	c.mu.Lock()
	defer c.mu.Unlock()
	if user, system, err := c.times(); err == nil {
		c.last = (user + system) * 1e3
	}
	return Reading{ms: c.last}
}

// Since returns the CPU nanoseconds consumed since start.
func (c *CPU) Since(start Reading) int64 {
	return msDiff(c.Now(), start)
}
