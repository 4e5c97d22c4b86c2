// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package profiler measures calls to arbitrary functions and keeps a history
// of profiling records.
//
// Profile accepts any function and its arguments. The calling convention is
// detected from the arguments and results:
//
//   - If the last argument is a function, the call is callback-style. The
//     callback is replaced by a wrapper recording every invocation before
//     forwarding it.
//   - If the call returns a deferred.Thenable, its settlement is observed
//     without altering the value or error seen by the caller.
//   - Otherwise the call is synchronous.
//
// A function fails either by returning a non-nil error as its last result or
// by panicking. Both are recorded; returned errors are passed back to the
// caller unchanged and panics are re-raised with the same value.
package profiler

import (
	"reflect"
	"sync"

	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/errors/stack"
	"go.chromium.org/berry/internal/clock"
	"go.chromium.org/berry/timing"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Session holds a profiling history. Records are appended in call order and
// never removed except by Reset.
type Session struct {
	src     clock.Source
	metrics *Metrics

	mu      sync.Mutex
	history []*Record
}

// Option configures a Session.
type Option func(s *Session)

// WithClock makes a Session measure calls with src instead of the default
// clock.
func WithClock(src clock.Source) Option {
	return func(s *Session) { s.src = src }
}

// WithMetrics makes a Session update m for every profiled call.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession returns a Session with an empty history.
func NewSession(opts ...Option) *Session {
	s := &Session{src: clock.Default}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Last returns the most recently appended record, or nil if the history is
// empty.
func (s *Session) Last() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil
	}
	return s.history[len(s.history)-1]
}

// Records returns the history in call order.
func (s *Session) Records() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Record(nil), s.history...)
}

// Reset empties the history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) add(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, r)
}

// Profile calls fn with args, appends a Record describing the call to the
// history and returns what fn returned.
//
// The returned value follows Record.ReturnValue, except that a Thenable not
// implementing deferred.Subscriber is returned wrapped in an
// *ObservedThenable. The returned error is the error fn returned, if any.
// If fn panics, Profile panics with the same value after recording the call.
//
// An error is returned without profiling anything if fn is not a function or
// args do not match its parameters.
func (s *Session) Profile(fn interface{}, args ...interface{}) (interface{}, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, errors.Errorf("cannot profile non-function %T", fn)
	}
	ft := fv.Type()

	rec := &Record{
		Shape: classify(args),
		Name:  funcName(fv),
	}

	var timer *timing.Timer
	in, err := convertArgs(ft, args)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot profile %s", rec.Name)
	}

	switch rec.Shape {
	case ShapeCallback:
		rec.Type = TypeCallback
		rec.Args = append([]interface{}(nil), args[:len(args)-1]...)
		cb := in[len(in)-1]
		in[len(in)-1] = reflect.MakeFunc(cb.Type(), func(cbIn []reflect.Value) []reflect.Value {
			callTime := timer.Stop()
			rec.addCallbackCall(CallbackCall{CallTime: callTime, CallArgs: interfaces(cbIn, cb.Type().IsVariadic())})
			s.metrics.callback()
			if cb.Type().IsVariadic() {
				return cb.CallSlice(cbIn)
			}
			return cb.Call(cbIn)
		})
	default:
		rec.Type = TypeSync
		rec.Args = append([]interface{}(nil), args...)
	}

	timer = timing.TimeWith(s.src)
	out, panicVal, panicked := call(fv, in)
	rec.CallTime = timer.Stop()

	ret := interface{}(nil)
	if panicked {
		rec.ThrownError = panicVal
		rec.Panicked = true
	} else {
		var retErr error
		rec.ReturnValue, retErr = splitResults(ft, out)
		if retErr != nil {
			rec.ThrownError = retErr
		}
		ret = rec.ReturnValue
		if rec.Shape == ShapeSync {
			ret = s.observe(rec, timer)
		}
	}

	s.add(rec)
	s.metrics.record(rec)

	if panicked {
		panic(panicVal)
	}
	if rec.ThrownError != nil {
		return ret, rec.ThrownError.(error)
	}
	return ret, nil
}

// observe attaches to a Thenable returned by a synchronous-looking call and
// returns the value to hand back to the caller. Exactly one strategy is used:
// a Subscriber gets a one-shot observer and is returned as is; any other
// Thenable is wrapped so the caller's own Then and Catch are recorded.
func (s *Session) observe(rec *Record, timer *timing.Timer) interface{} {
	th, ok := rec.ReturnValue.(deferred.Thenable)
	if !ok || isNil(rec.ReturnValue) {
		return rec.ReturnValue
	}
	rec.Shape = ShapePromise

	if sub, ok := th.(deferred.Subscriber); ok {
		sub.Subscribe(func(v interface{}, err error) {
			pc := PromiseCall{
				Method:       "then",
				Args:         []interface{}{v},
				Intermediate: true,
			}
			if err != nil {
				pc.Method = "catch"
				pc.Args = []interface{}{err}
			}
			pc.CallTime = timer.Stop()
			rec.addPromiseCall(pc)
			s.metrics.promise()
		})
		return th
	}
	return &ObservedThenable{inner: th, rec: rec, timer: timer}
}

// classify determines the calling convention from the arguments of a call.
// Calls that turn out to return a Thenable are reclassified by observe.
func classify(args []interface{}) CallShape {
	if len(args) == 0 {
		return ShapeSync
	}
	last := args[len(args)-1]
	if last != nil && reflect.TypeOf(last).Kind() == reflect.Func && !reflect.ValueOf(last).IsNil() {
		return ShapeCallback
	}
	return ShapeSync
}

// call invokes fn, converting a panic into a returned value.
func call(fn reflect.Value, in []reflect.Value) (out []reflect.Value, panicVal interface{}, panicked bool) {
	panicked = true
	defer func() {
		if panicked {
			panicVal = recover()
		}
	}()
	out = fn.Call(in)
	panicked = false
	return out, nil, false
}

// funcName returns a short name of fn, e.g. "strings.ToUpper".
func funcName(fn reflect.Value) string {
	if name := stack.ShortFuncName(fn.Pointer()); name != "" {
		return name
	}
	return anonymousName
}

// convertArgs converts args to values suitable to call a function of type ft.
func convertArgs(ft reflect.Type, args []interface{}) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, errors.Errorf("got %d args; want at least %d", len(args), n-1)
		}
	} else if len(args) != n {
		return nil, errors.Errorf("got %d args; want %d", len(args), n)
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		if a == nil {
			if !nillable(pt) {
				return nil, errors.Errorf("arg %d: nil is not a valid %v", i, pt)
			}
			in[i] = reflect.Zero(pt)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(pt) {
			return nil, errors.Errorf("arg %d: %v is not assignable to %v", i, v.Type(), pt)
		}
		in[i] = v
	}
	return in, nil
}

// splitResults separates a trailing error result from the other results.
func splitResults(ft reflect.Type, out []reflect.Value) (interface{}, error) {
	var err error
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		return interfaces(out, false), err
	}
}

// interfaces converts reflected values to interface values. If variadic is
// true, the last value is a slice whose elements are flattened into the result.
func interfaces(vs []reflect.Value, variadic bool) []interface{} {
	res := make([]interface{}, 0, len(vs))
	for i, v := range vs {
		if variadic && i == len(vs)-1 {
			for j := 0; j < v.Len(); j++ {
				res = append(res, v.Index(j).Interface())
			}
			continue
		}
		res = append(res, v.Interface())
	}
	return res
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func isNil(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return nillable(rv.Type()) && rv.IsNil()
}
