// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/google/subcommands"
)

func TestBenchCmd(t *testing.T) {
	var stdout bytes.Buffer
	status, _ := executeCmd(t, newBenchCmd(testConfig(), &stdout), "-loops", "3", "-title", "noop", "true")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v; want %v", status, subcommands.ExitSuccess)
	}
	re := regexp.MustCompile(`^ ⏱ Messurement of noop benchmark with 3 loops took \d+(ns|µs|ms|s)\n$`)
	if got := stdout.String(); !re.MatchString(got) {
		t.Errorf("Output = %q; want a match for %q", got, re)
	}
}

func TestBenchCmdFailure(t *testing.T) {
	var stdout bytes.Buffer
	status, _ := executeCmd(t, newBenchCmd(testConfig(), &stdout), "-loops", "2", "false")
	if status != subcommands.ExitFailure {
		t.Errorf("Execute() = %v; want %v", status, subcommands.ExitFailure)
	}
	re := regexp.MustCompile(`(?m)^ ⏱ Messurement of false benchmark with 2 loops failed after .+\nError: `)
	if got := stdout.String(); !re.MatchString(got) {
		t.Errorf("Output = %q; want a match for %q", got, re)
	}
}

func TestPerfCmd(t *testing.T) {
	var stdout bytes.Buffer
	status, _ := executeCmd(t, newPerfCmd(testConfig(), &stdout), "-duration", "50ms", "-title", "noop", "true")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v; want %v", status, subcommands.ExitSuccess)
	}
	re := regexp.MustCompile(`^⏱ noop ran [\d,]+ times within 50ms\n$`)
	if got := stdout.String(); !re.MatchString(got) {
		t.Errorf("Output = %q; want a match for %q", got, re)
	}
}

func TestMeasureCmdUsage(t *testing.T) {
	var stdout bytes.Buffer
	if status, _ := executeCmd(t, newBenchCmd(testConfig(), &stdout)); status != subcommands.ExitUsageError {
		t.Errorf("bench Execute() = %v; want %v", status, subcommands.ExitUsageError)
	}
	if status, _ := executeCmd(t, newPerfCmd(testConfig(), &stdout)); status != subcommands.ExitUsageError {
		t.Errorf("perf Execute() = %v; want %v", status, subcommands.ExitUsageError)
	}
}
