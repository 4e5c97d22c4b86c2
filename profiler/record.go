// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package profiler

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Values of Record.Type.
const (
	TypeSync     = "sync-function"
	TypeCallback = "callback-function"
)

// anonymousName is recorded when the runtime cannot name a profiled function.
const anonymousName = "anonymous function"

// CallShape is the calling convention of a profiled call.
type CallShape int

const (
	// ShapeSync is a call whose result is available when it returns.
	ShapeSync CallShape = iota
	// ShapeCallback is a call whose last argument is a function delivering
	// results, possibly several times and possibly later.
	ShapeCallback
	// ShapePromise is a call returning a deferred.Thenable.
	ShapePromise
)

func (s CallShape) String() string {
	switch s {
	case ShapeSync:
		return "sync"
	case ShapeCallback:
		return "callback"
	case ShapePromise:
		return "promise"
	default:
		return "unknown"
	}
}

// PromiseCall records an observed event on a Thenable returned by a profiled
// call.
type PromiseCall struct {
	// Method is "then" or "catch".
	Method string
	// Args holds the settled value or reason for intermediate observations,
	// and the continuations passed by the caller otherwise.
	Args []interface{}
	// CallTime is the humanized time since the profiled call started.
	CallTime string
	// Intermediate is true for observations made by the profiler itself
	// rather than by a caller's Then or Catch.
	Intermediate bool
}

// CallbackCall records one invocation of the callback of a callback-style
// call.
type CallbackCall struct {
	// CallTime is the humanized time since the profiled call started.
	CallTime string
	// CallArgs holds the arguments the callback was invoked with.
	CallArgs []interface{}
}

// Record is the profiling record of a single call.
//
// All fields are set before the record is appended to a Session's history
// and must not be modified afterwards. Callback and promise observations may
// still arrive after that; read them with CallbackCalls and PromiseCalls.
type Record struct {
	// Type is TypeSync or TypeCallback.
	Type string
	// Shape is the classified calling convention.
	Shape CallShape
	// Name is the name of the profiled function.
	Name string
	// Args holds the arguments passed, excluding the callback of a
	// callback-style call.
	Args []interface{}
	// CallTime is the humanized time until the initial call returned or
	// panicked.
	CallTime string
	// ReturnValue is the value produced by the initial call: nil for no
	// results, the value itself for one result, and a []interface{} for
	// several. A trailing error result is not part of ReturnValue.
	ReturnValue interface{}
	// ThrownError is the non-nil error returned by the call, or the value it
	// panicked with. It is nil if the call succeeded.
	ThrownError interface{}
	// Panicked is true if ThrownError is a panic value.
	Panicked bool

	mu            sync.Mutex
	promiseCalls  []PromiseCall
	callbackCalls []CallbackCall
}

// PromiseCalls returns a copy of the promise observations so far. ok is false
// if the call did not return a Thenable.
func (r *Record) PromiseCalls() (calls []PromiseCall, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Shape != ShapePromise {
		return nil, false
	}
	return slices.Clone(r.promiseCalls), true
}

// CallbackCalls returns a copy of the callback invocations so far. ok is
// false if the call was not callback-style.
func (r *Record) CallbackCalls() (calls []CallbackCall, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Shape != ShapeCallback {
		return nil, false
	}
	return slices.Clone(r.callbackCalls), true
}

func (r *Record) addPromiseCall(c PromiseCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promiseCalls = append(r.promiseCalls, c)
}

func (r *Record) addCallbackCall(c CallbackCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbackCalls = append(r.callbackCalls, c)
}
