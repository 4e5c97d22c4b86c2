// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiler

// defaultSession is the process-wide session used by the package-level
// functions. It is created at startup and never reset by this package.
var defaultSession = NewSession()

// Default returns the process-wide Session.
func Default() *Session {
	return defaultSession
}

// Profile profiles a call in the process-wide Session. See Session.Profile.
func Profile(fn interface{}, args ...interface{}) (interface{}, error) {
	return defaultSession.Profile(fn, args...)
}

// LastProfiling returns the most recent record of the process-wide Session,
// or nil if nothing has been profiled yet.
func LastProfiling() *Record {
	return defaultSession.Last()
}
