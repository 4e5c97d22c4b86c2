// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps

import (
	"context"
	"sync"

	"go.chromium.org/berry/errors"
)

var (
	// ErrDuplicateDefinition is wrapped by errors returned by Define for a
	// name that is already registered.
	ErrDuplicateDefinition = errors.New("duplicate definition")
	// ErrUndefinedStep is wrapped by errors reported for a step name that was
	// never registered.
	ErrUndefinedStep = errors.New("undefined step")
	// ErrStepRejected matches errors reported when a step's deferred result
	// was rejected.
	ErrStepRejected = errors.New("step rejected")
)

// Func is a step. It receives the step context produced by the previous step
// and returns the step context for the next one. The returned value may be a
// deferred.Thenable, in which case the next step runs after it fulfills.
//
// ctx carries the logger and timing log of the run. It is not canceled when
// the run fails.
type Func func(ctx context.Context, sc interface{}) (interface{}, error)

// Registry maps step names to functions. A name can be registered at most once
// and is never removed.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Func
	names []string // in registration order
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Func)}
}

// Define registers f under name. It fails if name is already registered, in
// which case the existing definition is kept.
func (r *Registry) Define(name string, f Func) error {
	if f == nil {
		return errors.Errorf("step %q has nil function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[name]; ok {
		return errors.Wrapf(ErrDuplicateDefinition, "method %q already defined", name)
	}
	r.defs[name] = f
	r.names = append(r.names, name)
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.defs[name]
	if !ok {
		return nil, errors.Wrapf(ErrUndefinedStep, "no function defined with name %q", name)
	}
	return f, nil
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}
