// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import "testing"

func TestHumanize(t *testing.T) {
	for _, tc := range []struct {
		ns   int64
		want string
	}{
		{0, "0ns"},
		{1, "1ns"},
		{999, "999ns"},
		{1000, "1µs"},
		{1499, "1µs"},
		{1500, "2µs"},
		{999499, "999µs"},
		{999999, "1000µs"},
		{1000000, "1ms"},
		{2500000, "3ms"},
		{999999999, "1000ms"},
		{1000000000, "1s"},
		{1499999999, "1s"},
		{1500000000, "2s"},
		{3600000000000, "3600s"},
	} {
		if got := Humanize(tc.ns); got != tc.want {
			t.Errorf("Humanize(%d) = %q; want %q", tc.ns, got, tc.want)
		}
	}
}
