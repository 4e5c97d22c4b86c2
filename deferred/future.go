// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deferred

import (
	"sync/atomic"
)

type result struct {
	v   interface{}
	err error
}

// Future is a Thenable backed by a channel. Its result can be received only
// once: the first call to Then or Catch consumes it, and any later call
// returns a Thenable rejected with ErrConsumed.
type Future struct {
	ch       chan result
	consumed int32
	settled  int32
}

var _ Thenable = (*Future)(nil)

// NewFuture returns a pending Future and a function settling it. Only the
// first call to settle has an effect.
func NewFuture() (f *Future, settle func(v interface{}, err error)) {
	f = &Future{ch: make(chan result, 1)}
	return f, func(v interface{}, err error) {
		if atomic.CompareAndSwapInt32(&f.settled, 0, 1) {
			f.ch <- result{v, err}
		}
	}
}

// Async runs fn on a new goroutine and returns a Future settled with its
// results.
func Async(fn func() (interface{}, error)) *Future {
	f, settle := NewFuture()
	go func() {
		settle(fn())
	}()
	return f
}

// Then consumes f and returns a Promise settled with the results of the
// matching continuation.
func (f *Future) Then(onFulfilled OnFulfilled, onRejected OnRejected) Thenable {
	if !atomic.CompareAndSwapInt32(&f.consumed, 0, 1) {
		return Rejected(ErrConsumed)
	}
	next := NewPromise()
	go func() {
		r := <-f.ch
		settle(next, r.v, r.err, onFulfilled, onRejected)
	}()
	return next
}

// Catch is shorthand for Then(nil, onRejected).
func (f *Future) Catch(onRejected OnRejected) Thenable {
	return f.Then(nil, onRejected)
}
