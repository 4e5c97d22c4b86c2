// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package deferred provides values representing results that become available
// later.
//
// A Thenable settles exactly once, either with a value or with an error.
// Consumers register continuations with Then and Catch; each call returns a
// new Thenable settling with the continuation's result.
//
// Two implementations are provided. Promise accepts any number of independent
// subscribers and is safe for concurrent use. Future is backed by a channel
// and can be consumed only once.
package deferred

import (
	"reflect"

	"go.chromium.org/berry/errors"
)

// ErrConsumed is the rejection reason of a continuation registered on a
// single-consumer Thenable that has already been consumed.
var ErrConsumed = errors.New("deferred value already consumed")

// OnFulfilled is a continuation receiving the value of a fulfilled Thenable.
// Its results settle the Thenable returned by Then. Returning a Thenable as the
// value makes the returned Thenable adopt its eventual state.
type OnFulfilled func(v interface{}) (interface{}, error)

// OnRejected is a continuation receiving the reason of a rejected Thenable.
// Returning a nil error recovers from the rejection.
type OnRejected func(err error) (interface{}, error)

// Thenable is a value that settles exactly once with a value or an error.
type Thenable interface {
	// Then registers continuations run after the Thenable settles. Either may
	// be nil, in which case the value or error passes through unchanged.
	Then(onFulfilled OnFulfilled, onRejected OnRejected) Thenable
	// Catch is shorthand for Then(nil, onRejected).
	Catch(onRejected OnRejected) Thenable
}

// Subscriber is implemented by Thenables that accept any number of
// independent observers. Subscribing does not affect the value or error seen
// by other subscribers or by continuations registered with Then and Catch.
type Subscriber interface {
	Thenable
	// Subscribe calls f once the Thenable settles. If it has already settled,
	// f is called before Subscribe returns.
	Subscribe(f func(v interface{}, err error))
}

// AsThenable returns v as a Thenable. A nil pointer of a Thenable type, e.g. a
// nil *Promise, is not usable as one and is reported as a plain value.
func AsThenable(v interface{}) (Thenable, bool) {
	t, ok := v.(Thenable)
	if !ok {
		return nil, false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, false
	}
	return t, true
}

// settle runs the continuation matching (v, err) and settles p with its
// results.
func settle(p *Promise, v interface{}, err error, onFulfilled OnFulfilled, onRejected OnRejected) {
	switch {
	case err == nil && onFulfilled == nil:
		p.Resolve(v)
	case err == nil:
		p.settleWith(onFulfilled(v))
	case onRejected == nil:
		p.Reject(err)
	default:
		p.settleWith(onRejected(err))
	}
}
