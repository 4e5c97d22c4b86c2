// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps

import (
	"context"

	"go.chromium.org/berry/deferred"
)

// defaultRegistry holds steps registered with the package-level functions for
// the lifetime of the process.
var defaultRegistry = NewRegistry()

// Define registers f under name in the process-wide registry.
func Define(name string, f Func) error {
	return defaultRegistry.Define(name, f)
}

// MustDefine is similar to Define but panics on failure. It is meant to be
// called from init functions.
func MustDefine(name string, f Func) {
	if err := Define(name, f); err != nil {
		panic(err)
	}
}

// Lookup returns the step registered under name in the process-wide registry.
func Lookup(name string) (Func, error) {
	return defaultRegistry.Lookup(name)
}

// Run runs names against the process-wide registry. See Runner.Run.
func Run(ctx context.Context, names []string, initial interface{}) *deferred.Promise {
	return NewRunner(defaultRegistry).Run(ctx, names, initial)
}
