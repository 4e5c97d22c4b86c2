// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"go.chromium.org/berry/internal/clock"
	"go.chromium.org/berry/profiler"
)

func TestProfileCommand(t *testing.T) {
	for _, tc := range []struct {
		mode      string
		wantShape profiler.CallShape
		wantType  string
	}{
		{modeSync, profiler.ShapeSync, profiler.TypeSync},
		{modeCallback, profiler.ShapeCallback, profiler.TypeCallback},
		{modePromise, profiler.ShapePromise, profiler.TypeSync},
	} {
		t.Run(tc.mode, func(t *testing.T) {
			sess := profiler.NewSession(profiler.WithClock(clock.NewFake(1000)))
			out, err := profileCommand(context.Background(), sess, tc.mode, []string{"echo", "hi"})
			if err != nil {
				t.Fatal("profileCommand failed: ", err)
			}
			if out != "hi\n" {
				t.Errorf("profileCommand() = %q; want %q", out, "hi\n")
			}
			rec := sess.Last()
			if rec == nil {
				t.Fatal("No record")
			}
			if rec.Shape != tc.wantShape || rec.Type != tc.wantType {
				t.Errorf("Record = (%v, %q); want (%v, %q)", rec.Shape, rec.Type, tc.wantShape, tc.wantType)
			}
			if calls, ok := rec.CallbackCalls(); ok && len(calls) != 1 {
				t.Errorf("Got %d callback calls; want 1", len(calls))
			}
			if calls, ok := rec.PromiseCalls(); ok && (len(calls) != 1 || calls[0].Method != "then") {
				t.Errorf("Promise calls = %+v; want a single then", calls)
			}
		})
	}
}

func TestProfileCommandUnknownMode(t *testing.T) {
	sess := profiler.NewSession()
	if _, err := profileCommand(context.Background(), sess, "psychic", []string{"true"}); err == nil {
		t.Error("profileCommand succeeded with an unknown mode")
	}
	if sess.Last() != nil {
		t.Error("A record was added for an unknown mode")
	}
}

func TestProfileCmd(t *testing.T) {
	var stdout bytes.Buffer
	status, _ := executeCmd(t, newProfileCmd(testConfig(), &stdout), "-metrics", "--", "false")
	if status != subcommands.ExitFailure {
		t.Fatalf("Execute() = %v; want %v", status, subcommands.ExitFailure)
	}
	got := stdout.String()
	for _, want := range []string{
		"main.runCommand (sync-function, sync)",
		"  thrown: ",
		`berry_profiled_calls_total{shape="sync"} 1`,
		"berry_profiled_failures_total 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Output %q does not contain %q", got, want)
		}
	}
}
