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
	"sort"
	"strings"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/config"
	"go.chromium.org/berry/internal/logging"
	"go.chromium.org/berry/profiler"
)

// Calling conventions the profile subcommand can run a command with.
const (
	modeSync     = "sync"
	modeCallback = "callback"
	modePromise  = "promise"
)

// profileCmd implements subcommands.Command to profile a single run of a
// command.
type profileCmd struct {
	cfg     *config.Config
	stdout  io.Writer
	mode    string
	metrics bool
}

var _ = subcommands.Command(&profileCmd{})

func newProfileCmd(cfg *config.Config, stdout io.Writer) *profileCmd {
	return &profileCmd{cfg: cfg, stdout: stdout}
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "profile a run of a command" }
func (*profileCmd) Usage() string {
	return `Usage: profile [flag]... [--] <command> [arg]...

Run a command once under the profiler and print the profiling record.

`
}

func (p *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.mode, "mode", modeSync, "calling convention: sync, callback or promise")
	f.BoolVar(&p.metrics, "metrics", false, "print profiler counters; also enabled by the metrics config")
}

func (p *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, p.Usage())
		return subcommands.ExitUsageError
	}
	src, err := p.cfg.ClockSource()
	if err != nil {
		logging.Info(ctx, "Failed to set up clock: ", err)
		return subcommands.ExitFailure
	}

	opts := []profiler.Option{profiler.WithClock(src)}
	reg := prometheus.NewRegistry()
	withMetrics := p.metrics || p.cfg.Metrics
	if withMetrics {
		opts = append(opts, profiler.WithMetrics(profiler.NewMetrics(reg)))
	}
	sess := profiler.NewSession(opts...)

	out, err := profileCommand(ctx, sess, p.mode, f.Args())
	if rec := sess.Last(); rec != nil {
		writeRecord(p.stdout, rec)
	}
	if withMetrics {
		if err := writeMetrics(p.stdout, reg); err != nil {
			logging.Info(ctx, "Failed to gather metrics: ", err)
		}
	}
	if err != nil {
		logging.Info(ctx, "Command failed: ", err)
		return subcommands.ExitFailure
	}
	logging.Debugf(ctx, "Command wrote %d bytes", len(out))
	return subcommands.ExitSuccess
}

// profileCommand runs argv under sess using the calling convention mode and
// returns the command's output once it has finished.
func profileCommand(ctx context.Context, sess *profiler.Session, mode string, argv []string) (string, error) {
	var (
		v   interface{}
		err error
	)
	switch mode {
	case modeSync:
		v, err = sess.Profile(runCommand, ctx, argv, "")
	case modeCallback:
		type result struct {
			out string
			err error
		}
		ch := make(chan result, 1)
		if _, err := sess.Profile(runCommandCallback, ctx, argv, "", func(out string, err error) {
			ch <- result{out, err}
		}); err != nil {
			return "", err
		}
		r := <-ch
		return r.out, r.err
	case modePromise:
		if v, err = sess.Profile(runCommandPromise, ctx, argv, ""); err != nil {
			return "", err
		}
		// Subscribers run in registration order, so this settles after the
		// profiler has recorded the settlement.
		next := v.(deferred.Thenable).Then(nil, nil).(*deferred.Promise)
		v, err = next.Await(ctx)
	default:
		return "", errors.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// runCommandCallback runs argv on a new goroutine and passes the result to
// done.
func runCommandCallback(ctx context.Context, argv []string, stdin string, done func(out string, err error)) {
	go func() {
		done(runCommand(ctx, argv, stdin))
	}()
}

// runCommandPromise runs argv on a new goroutine and returns a Promise of its
// output.
func runCommandPromise(ctx context.Context, argv []string, stdin string) *deferred.Promise {
	return deferred.Go(func() (interface{}, error) {
		return runCommand(ctx, argv, stdin)
	})
}

// writeRecord prints a human-readable form of rec.
func writeRecord(w io.Writer, rec *profiler.Record) {
	fmt.Fprintf(w, "%s (%s, %s)\n", rec.Name, rec.Type, rec.Shape)
	fmt.Fprintf(w, "  call time: %s\n", rec.CallTime)
	if rec.ThrownError != nil {
		fmt.Fprintf(w, "  thrown: %v\n", rec.ThrownError)
	}
	if calls, ok := rec.CallbackCalls(); ok {
		for i, c := range calls {
			fmt.Fprintf(w, "  callback #%d at %s\n", i+1, c.CallTime)
		}
	}
	if calls, ok := rec.PromiseCalls(); ok {
		for _, c := range calls {
			fmt.Fprintf(w, "  %s at %s\n", c.Method, c.CallTime)
		}
	}
}

// writeMetrics prints the counters gathered from g, one per line, sorted by
// name and labels.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range mfs {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %v", mf.GetName(), formatLabels(m.GetLabel()), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
