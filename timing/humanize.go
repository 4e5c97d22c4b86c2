// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"math"
	"strconv"
)

// Humanize formats a duration given in nanoseconds with a unit picked by
// magnitude:
//
//	ns < 1e3  -> "<ns>ns"
//	ns < 1e6  -> "<round(ns/1e3)>µs"
//	ns < 1e9  -> "<round(ns/1e6)>ms"
//	otherwise -> "<round(ns/1e9)>s"
//
// Rounding is half away from zero. The unit is chosen before rounding, so
// 999999ns is reported as "1000µs" rather than "1ms".
func Humanize(ns int64) string {
	switch {
	case ns < 1e3:
		return strconv.FormatInt(ns, 10) + "ns"
	case ns < 1e6:
		return scaled(ns, 1e3) + "µs"
	case ns < 1e9:
		return scaled(ns, 1e6) + "ms"
	default:
		return scaled(ns, 1e9) + "s"
	}
}

func scaled(ns int64, div float64) string {
	return strconv.FormatInt(int64(math.Round(float64(ns)/div)), 10)
}
