// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package steps runs pipelines of named, registered steps.
//
// Steps are registered with Define and run in sequence with Run. Each step
// receives the step context returned by the previous one. A step may return a
// deferred.Thenable; the pipeline then continues once it fulfills, on the
// goroutine that fulfilled it.
//
//	steps.MustDefine("load", load)
//	steps.MustDefine("parse", parse)
//	v, err := steps.Run(ctx, []string{"load", "parse"}, nil).Await(ctx)
package steps

import (
	"context"
	"fmt"
	"sync"

	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/logging"
	"go.chromium.org/berry/timing"
)

// RejectionError is reported when the deferred result of a step is rejected.
// It matches ErrStepRejected and unwraps to the rejection reason.
type RejectionError struct {
	// Step is the name of the rejected step.
	Step string
	// Reason is the rejection reason.
	Reason error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("step %q rejected: %v", e.Step, e.Reason)
}

// Unwrap returns the rejection reason.
func (e *RejectionError) Unwrap() error { return e.Reason }

// Is reports whether target is ErrStepRejected.
func (e *RejectionError) Is(target error) bool { return target == ErrStepRejected }

// Runner runs step sequences against a Registry.
type Runner struct {
	reg *Registry
}

// NewRunner returns a Runner looking up steps in reg.
func NewRunner(reg *Registry) *Runner {
	return &Runner{reg: reg}
}

// Run executes the steps named by names in order, starting with initial as
// the step context. A nil initial is replaced by an empty
// map[string]interface{}.
//
// The returned Promise fulfills with the context returned by the last step,
// or rejects on the first failure: an undefined step name, a step returning
// an error or panicking, or a step whose deferred result is rejected. No step
// runs after a failure. Steps never run concurrently, and a step starts only
// after the result of the previous one is available.
func (r *Runner) Run(ctx context.Context, names []string, initial interface{}) *deferred.Promise {
	if initial == nil {
		initial = make(map[string]interface{})
	}
	st := &runState{
		ctx:    ctx,
		reg:    r.reg,
		names:  append([]string(nil), names...),
		cur:    initial,
		result: deferred.NewPromise(),
	}
	st.advance()
	return st.result
}

// runState is the state of one Run call: the remaining step names and the
// current step context.
type runState struct {
	ctx    context.Context
	reg    *Registry
	names  []string
	cur    interface{}
	result *deferred.Promise
}

// advance runs steps until the pipeline finishes, fails or waits for a
// deferred result. Steps completing synchronously are handled by the loop
// rather than by recursion, so the stack does not grow with the number of
// steps.
func (s *runState) advance() {
	for {
		if len(s.names) == 0 {
			s.result.Resolve(s.cur)
			return
		}
		name := s.names[0]
		s.names = s.names[1:]

		f, err := s.reg.Lookup(name)
		if err != nil {
			logging.Info(s.ctx, "Pipeline aborted: ", err)
			s.result.Reject(err)
			return
		}

		ctx, stage := timing.Start(s.ctx, name)
		ctx = logging.WithPrefix(ctx, "["+name+"] ")
		logging.Debug(ctx, "Starting step")

		out, err := callStep(ctx, f, s.cur)
		if err != nil {
			stage.End()
			logging.Info(ctx, "Step failed: ", err)
			s.result.Reject(errors.Wrapf(err, "step %q failed", name))
			return
		}

		th, ok := deferred.AsThenable(out)
		if !ok {
			stage.End()
			s.cur = out
			continue
		}

		if !s.await(ctx, name, stage, th) {
			return
		}
	}
}

// await registers continuations on th. It returns true if th fulfilled
// before Then returned, in which case the caller continues the loop;
// otherwise the fulfillment continuation resumes the pipeline later.
func (s *runState) await(ctx context.Context, name string, stage *timing.Stage, th deferred.Thenable) bool {
	var mu sync.Mutex
	waiting := true // true while await has not returned
	resumed := false

	th.Then(func(v interface{}) (interface{}, error) {
		stage.End()
		mu.Lock()
		s.cur = v
		if waiting {
			resumed = true
			mu.Unlock()
			return nil, nil
		}
		mu.Unlock()
		s.advance()
		return nil, nil
	}, func(reason error) (interface{}, error) {
		stage.End()
		logging.Info(ctx, "Step rejected: ", reason)
		s.result.Reject(&RejectionError{Step: name, Reason: reason})
		return nil, nil
	})

	mu.Lock()
	defer mu.Unlock()
	waiting = false
	return resumed
}

// callStep calls f, converting a panic into an error.
func callStep(ctx context.Context, f Func, sc interface{}) (out interface{}, err error) {
	defer func() {
		if val := recover(); val != nil {
			err = errors.Errorf("panic: %v", val)
		}
	}()
	return f(ctx, sc)
}
