// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiler

import (
	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/timing"
)

// ObservedThenable wraps a Thenable returned by a profiled call. Every Then
// and Catch is recorded in the call's Record and forwarded unchanged to the
// wrapped Thenable, whose result is returned as is.
//
// Profile returns an ObservedThenable in place of Thenables that do not
// implement deferred.Subscriber, since subscribing to those would consume
// the only result they can deliver.
type ObservedThenable struct {
	inner deferred.Thenable
	rec   *Record
	timer *timing.Timer
}

var _ deferred.Thenable = (*ObservedThenable)(nil)

// Then records the call and forwards it to the wrapped Thenable.
func (o *ObservedThenable) Then(onFulfilled deferred.OnFulfilled, onRejected deferred.OnRejected) deferred.Thenable {
	o.rec.addPromiseCall(PromiseCall{
		Method:   "then",
		Args:     []interface{}{onFulfilled, onRejected},
		CallTime: o.timer.Stop(),
	})
	return o.inner.Then(onFulfilled, onRejected)
}

// Catch records the call and forwards it to the wrapped Thenable.
func (o *ObservedThenable) Catch(onRejected deferred.OnRejected) deferred.Thenable {
	o.rec.addPromiseCall(PromiseCall{
		Method:   "catch",
		Args:     []interface{}{onRejected},
		CallTime: o.timer.Stop(),
	})
	return o.inner.Catch(onRejected)
}

// Unwrap returns the wrapped Thenable.
func (o *ObservedThenable) Unwrap() deferred.Thenable {
	return o.inner
}
