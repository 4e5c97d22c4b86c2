// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"go.chromium.org/berry/harness"
	"go.chromium.org/berry/internal/config"
	"go.chromium.org/berry/internal/logging"
	"go.chromium.org/berry/shutil"
)

// newHarness returns a Harness reporting to stdout and timing with the clock
// named in cfg. failed is set if any report fails.
func newHarness(cfg *config.Config, stdout io.Writer, failed *bool) (*harness.Harness, error) {
	src, err := cfg.ClockSource()
	if err != nil {
		return nil, err
	}
	console := harness.NewConsoleReporter(stdout)
	rep := harness.ReporterFunc(func(r *harness.Report) {
		if r.Status == harness.StatusFailed {
			*failed = true
		}
		console.Report(r)
	})
	return harness.New(rep, harness.WithClock(src)), nil
}

// benchCmd implements subcommands.Command to time repeated runs of a command.
type benchCmd struct {
	cfg    *config.Config
	stdout io.Writer
	loops  int
	title  string
}

var _ = subcommands.Command(&benchCmd{})

func newBenchCmd(cfg *config.Config, stdout io.Writer) *benchCmd {
	return &benchCmd{cfg: cfg, stdout: stdout}
}

func (*benchCmd) Name() string     { return "bench" }
func (*benchCmd) Synopsis() string { return "time a fixed number of runs of a command" }
func (*benchCmd) Usage() string {
	return `Usage: bench [flag]... [--] <command> [arg]...

Run a command a fixed number of times and report the total time.

`
}

func (b *benchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&b.loops, "loops", 0, "number of runs; defaults to the configured loop count")
	f.StringVar(&b.title, "title", "", "title of the report; defaults to the command line")
}

func (b *benchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, b.Usage())
		return subcommands.ExitUsageError
	}
	argv := f.Args()
	loops := b.loops
	if loops <= 0 {
		loops = b.cfg.Loops
	}
	title := b.title
	if title == "" {
		title = shutil.Join(argv)
	}

	var failed bool
	h, err := newHarness(b.cfg, b.stdout, &failed)
	if err != nil {
		logging.Info(ctx, "Failed to set up clock: ", err)
		return subcommands.ExitFailure
	}
	h.Bench(title, loops, func() error {
		_, err := runCommand(ctx, argv, "")
		return err
	})
	if failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// perfCmd implements subcommands.Command to count runs of a command within a
// duration.
type perfCmd struct {
	cfg      *config.Config
	stdout   io.Writer
	duration time.Duration
	title    string
}

var _ = subcommands.Command(&perfCmd{})

func newPerfCmd(cfg *config.Config, stdout io.Writer) *perfCmd {
	return &perfCmd{cfg: cfg, stdout: stdout}
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "count runs of a command within a duration" }
func (*perfCmd) Usage() string {
	return `Usage: perf [flag]... [--] <command> [arg]...

Run a command repeatedly for a duration and report how many runs completed.

`
}

func (p *perfCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&p.duration, "duration", 0, "how long to run; defaults to the configured perf duration")
	f.StringVar(&p.title, "title", "", "title of the report; defaults to the command line")
}

func (p *perfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, p.Usage())
		return subcommands.ExitUsageError
	}
	argv := f.Args()
	d := p.duration
	if d <= 0 {
		d = p.cfg.PerfDuration
	}
	title := p.title
	if title == "" {
		title = shutil.Join(argv)
	}

	var failed bool
	h, err := newHarness(p.cfg, p.stdout, &failed)
	if err != nil {
		logging.Info(ctx, "Failed to set up clock: ", err)
		return subcommands.ExitFailure
	}
	h.Perf(ctx, title, d, func() error {
		_, err := runCommand(ctx, argv, "")
		return err
	})
	if failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
