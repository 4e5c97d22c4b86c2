// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/berry/testutil"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal("Load failed: ", err)
	}
	if diff := cmp.Diff(cfg, Default()); diff != "" {
		t.Error("Config mismatch (-got +want):\n", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"berry.yaml": "clock: wall\nloops: 50\nperf_duration: 250ms\nlog_time: false\n",
	}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BERRY_LOOPS", "70")
	t.Setenv("BERRY_VERBOSE", "true")

	cfg, err := Load(filepath.Join(td, "berry.yaml"))
	if err != nil {
		t.Fatal("Load failed: ", err)
	}
	want := &Config{
		Clock:        "wall",
		Loops:        70,
		PerfDuration: 250 * time.Millisecond,
		Verbose:      true,
		LogTime:      false,
	}
	if diff := cmp.Diff(cfg, want); diff != "" {
		t.Error("Config mismatch (-got +want):\n", diff)
	}
}

func TestLoadEnvDuration(t *testing.T) {
	t.Setenv("BERRY_PERF_DURATION", "2s")
	cfg, err := Load("")
	if err != nil {
		t.Fatal("Load failed: ", err)
	}
	if cfg.PerfDuration != 2*time.Second {
		t.Errorf("PerfDuration = %v; want 2s", cfg.PerfDuration)
	}
}

func TestLoadErrors(t *testing.T) {
	td := testutil.TempDir(t)
	if err := testutil.WriteFiles(td, map[string]string{
		"unknown_field.yaml": "clocks: wall\n",
		"bad_clock.yaml":     "clock: sundial\n",
		"bad_loops.yaml":     "loops: 0\n",
		"bad_yaml.yaml":      "loops: [\n",
	}); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"unknown_field.yaml", "bad_clock.yaml", "bad_loops.yaml", "bad_yaml.yaml", "missing.yaml"} {
		if _, err := Load(filepath.Join(td, name)); err == nil {
			t.Errorf("Load(%q) succeeded unexpectedly", name)
		}
	}
}

func TestClockSource(t *testing.T) {
	cfg := Default()
	cfg.Clock = "wall"
	src, err := cfg.ClockSource()
	if err != nil {
		t.Fatal("ClockSource failed: ", err)
	}
	if src.Name() != "wall" {
		t.Errorf("ClockSource().Name() = %q; want %q", src.Name(), "wall")
	}
}
