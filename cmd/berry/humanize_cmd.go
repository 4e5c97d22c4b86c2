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
	"strconv"

	"github.com/google/subcommands"

	"go.chromium.org/berry/timing"
)

// humanizeCmd implements subcommands.Command to format nanosecond counts.
type humanizeCmd struct {
	stdout io.Writer
}

var _ = subcommands.Command(&humanizeCmd{})

func newHumanizeCmd(stdout io.Writer) *humanizeCmd {
	return &humanizeCmd{stdout: stdout}
}

func (*humanizeCmd) Name() string     { return "humanize" }
func (*humanizeCmd) Synopsis() string { return "format nanosecond durations" }
func (*humanizeCmd) Usage() string {
	return `Usage: humanize <nanoseconds>...

Print each duration in the most readable unit.

`
}

func (*humanizeCmd) SetFlags(*flag.FlagSet) {}

func (h *humanizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, h.Usage())
		return subcommands.ExitUsageError
	}
	for _, arg := range f.Args() {
		ns, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad duration %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		fmt.Fprintln(h.stdout, timing.Humanize(ns))
	}
	return subcommands.ExitSuccess
}
