// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deferred

import (
	"context"
	"sync"

	"go.chromium.org/berry/errors"
)

// Promise is a Thenable accepting any number of subscribers.
//
// A Promise is settled by calling Resolve or Reject. Only the first call has
// an effect. Continuations registered before settlement run on the goroutine
// that settles the Promise; those registered afterwards run on the goroutine
// registering them, before Then, Catch or Subscribe returns.
type Promise struct {
	mu      sync.Mutex
	settled bool
	value   interface{}
	err     error
	subs    []func(v interface{}, err error)
	done    chan struct{}
}

var _ Subscriber = (*Promise)(nil)

// NewPromise returns a pending Promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolved returns a Promise fulfilled with v.
func Resolved(v interface{}) *Promise {
	p := NewPromise()
	p.Resolve(v)
	return p
}

// Rejected returns a Promise rejected with err.
func Rejected(err error) *Promise {
	p := NewPromise()
	p.Reject(err)
	return p
}

// Go runs f on a new goroutine and returns a Promise settled with its
// results.
func Go(f func() (interface{}, error)) *Promise {
	p := NewPromise()
	go func() {
		p.settleWith(f())
	}()
	return p
}

// Resolve fulfills p with v. If v is itself a Thenable, p instead adopts its
// eventual state. A nil *Promise or other nil Thenable pointer fulfills p as
// a plain value.
func (p *Promise) Resolve(v interface{}) {
	if t, ok := AsThenable(v); ok {
		if t == Thenable(p) {
			p.finish(nil, errors.New("promise resolved with itself"))
			return
		}
		t.Then(func(v interface{}) (interface{}, error) {
			p.Resolve(v)
			return nil, nil
		}, func(err error) (interface{}, error) {
			p.Reject(err)
			return nil, nil
		})
		return
	}
	p.finish(v, nil)
}

// Reject rejects p with err. A nil err is replaced by a generic error so that
// a rejected Promise always carries a reason.
func (p *Promise) Reject(err error) {
	if err == nil {
		err = errors.New("promise rejected with nil error")
	}
	p.finish(nil, err)
}

func (p *Promise) settleWith(v interface{}, err error) {
	if err != nil {
		p.Reject(err)
		return
	}
	p.Resolve(v)
}

func (p *Promise) finish(v interface{}, err error) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.value, p.err = v, err
	subs := p.subs
	p.subs = nil
	close(p.done)
	p.mu.Unlock()

	for _, f := range subs {
		f(v, err)
	}
}

// Subscribe calls f once p settles.
func (p *Promise) Subscribe(f func(v interface{}, err error)) {
	p.mu.Lock()
	if !p.settled {
		p.subs = append(p.subs, f)
		p.mu.Unlock()
		return
	}
	v, err := p.value, p.err
	p.mu.Unlock()
	f(v, err)
}

// Then registers continuations and returns a Promise settled with their
// results.
func (p *Promise) Then(onFulfilled OnFulfilled, onRejected OnRejected) Thenable {
	next := NewPromise()
	p.Subscribe(func(v interface{}, err error) {
		settle(next, v, err, onFulfilled, onRejected)
	})
	return next
}

// Catch is shorthand for Then(nil, onRejected).
func (p *Promise) Catch(onRejected OnRejected) Thenable {
	return p.Then(nil, onRejected)
}

// Done returns a channel that is closed once p settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether p has settled.
func (p *Promise) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// Await blocks until p settles or ctx is done, and returns the value or
// rejection reason of p. If ctx is done first, ctx.Err() is returned.
func (p *Promise) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}
