// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package steps_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/berry/steps"
)

func constStep(v interface{}) steps.Func {
	return func(context.Context, interface{}) (interface{}, error) { return v, nil }
}

func TestDefineDuplicate(t *testing.T) {
	reg := steps.NewRegistry()
	if err := reg.Define("a", constStep("f")); err != nil {
		t.Fatal("First Define failed: ", err)
	}
	err := reg.Define("a", constStep("g"))
	if !errors.Is(err, steps.ErrDuplicateDefinition) {
		t.Errorf("Second Define() = %v; want %v", err, steps.ErrDuplicateDefinition)
	}

	f, err := reg.Lookup("a")
	if err != nil {
		t.Fatal("Lookup failed: ", err)
	}
	if v, _ := f(context.Background(), nil); v != "f" {
		t.Errorf("Registered step returned %v; want the first definition's f", v)
	}
}

func TestDefineNil(t *testing.T) {
	if err := steps.NewRegistry().Define("a", nil); err == nil {
		t.Error("Define with nil function succeeded")
	}
}

func TestLookupUndefined(t *testing.T) {
	_, err := steps.NewRegistry().Lookup("missing")
	if !errors.Is(err, steps.ErrUndefinedStep) {
		t.Errorf("Lookup() = %v; want %v", err, steps.ErrUndefinedStep)
	}
}

func TestNames(t *testing.T) {
	reg := steps.NewRegistry()
	for _, n := range []string{"c", "a", "b"} {
		if err := reg.Define(n, constStep(n)); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff(reg.Names(), []string{"c", "a", "b"}); diff != "" {
		t.Error("Names mismatch (-got +want):\n", diff)
	}
}
