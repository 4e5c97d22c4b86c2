// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !(linux || darwin || freebsd)

package clock

// HighRes is unavailable on this platform.
type HighRes struct{}

// NewHighRes always returns ErrUnavailable on this platform.
func NewHighRes() (*HighRes, error) {
	return nil, ErrUnavailable
}

// Name returns "highres".
func (*HighRes) Name() string { return "highres" }

// Now is never called since NewHighRes fails.
func (*HighRes) Now() Reading { return Reading{} }

// Since is never called since NewHighRes fails.
func (*HighRes) Since(start Reading) int64 { return 0 }
