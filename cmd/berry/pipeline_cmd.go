// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v2"

	"go.chromium.org/berry/deferred"
	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/clock"
	"go.chromium.org/berry/internal/config"
	"go.chromium.org/berry/internal/logging"
	"go.chromium.org/berry/shutil"
	"go.chromium.org/berry/steps"
	"go.chromium.org/berry/timing"
)

// pipelineFile is the format of a pipeline definition file.
//
//	steps:
//	  upper: tr a-z A-Z
//	  count: wc -c
//	run: [upper, count]
//	input: hello
type pipelineFile struct {
	// Steps maps step names to command lines.
	Steps map[string]string `yaml:"steps"`
	// Run lists the steps to run in order.
	Run []string `yaml:"run"`
	// Input is fed to the standard input of the first step.
	Input string `yaml:"input"`
}

// readPipelineFile reads and parses the pipeline definition at path.
func readPipelineFile(path string) (*pipelineFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf pipelineFile
	if err := yaml.UnmarshalStrict(b, &pf); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &pf, nil
}

// register defines one step per command line of pf in reg. Each step runs its
// command asynchronously, feeding the step context to standard input and
// passing standard output on as the next step context.
func (pf *pipelineFile) register(reg *steps.Registry) error {
	names := make([]string, 0, len(pf.Steps))
	for name := range pf.Steps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		argv, err := shutil.Split(pf.Steps[name])
		if err != nil {
			return errors.Wrapf(err, "bad command for step %q", name)
		}
		if len(argv) == 0 {
			return errors.Errorf("empty command for step %q", name)
		}
		if err := reg.Define(name, commandStep(argv)); err != nil {
			return err
		}
	}
	return nil
}

// commandStep returns a step running argv.
func commandStep(argv []string) steps.Func {
	return func(ctx context.Context, sc interface{}) (interface{}, error) {
		stdin, ok := sc.(string)
		if !ok {
			return nil, errors.Errorf("step context is %T; want string", sc)
		}
		return deferred.Go(func() (interface{}, error) {
			return runCommand(ctx, argv, stdin)
		}), nil
	}
}

// runPipeline runs the pipeline pf and returns its final output. names
// overrides pf.Run if non-empty. Stages are recorded in tl.
func runPipeline(ctx context.Context, pf *pipelineFile, names []string, tl *timing.Log) (string, error) {
	reg := steps.NewRegistry()
	if err := pf.register(reg); err != nil {
		return "", err
	}
	if len(names) == 0 {
		names = pf.Run
	}
	if len(names) == 0 {
		return "", errors.New("no steps to run")
	}

	ctx = timing.NewContext(ctx, tl)
	v, err := steps.NewRunner(reg).Run(ctx, names, pf.Input).Await(ctx)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// pipelineCmd implements subcommands.Command to run a pipeline of commands.
type pipelineCmd struct {
	cfg        *config.Config
	stdout     io.Writer
	file       string
	timingPath string
	repeat     int
}

var _ = subcommands.Command(&pipelineCmd{})

func newPipelineCmd(cfg *config.Config, stdout io.Writer) *pipelineCmd {
	return &pipelineCmd{cfg: cfg, stdout: stdout}
}

func (*pipelineCmd) Name() string     { return "pipeline" }
func (*pipelineCmd) Synopsis() string { return "run a pipeline of commands as steps" }
func (*pipelineCmd) Usage() string {
	return `Usage: pipeline -f <file> [flag]... [step]...

Run the steps defined in a YAML file in sequence. The output of each step is
the input of the next one. Steps named on the command line replace the run
list of the file.

`
}

func (p *pipelineCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "f", "", "pipeline definition file")
	f.StringVar(&p.timingPath, "timing", "", "file to write step timings to as JSON")
	f.IntVar(&p.repeat, "repeat", 1, "number of times to run the pipeline")
}

func (p *pipelineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.file == "" {
		fmt.Fprint(os.Stderr, p.Usage())
		return subcommands.ExitUsageError
	}
	pf, err := readPipelineFile(p.file)
	if err != nil {
		logging.Info(ctx, "Failed to read pipeline: ", err)
		return subcommands.ExitFailure
	}
	src, err := p.cfg.ClockSource()
	if err != nil {
		logging.Info(ctx, "Failed to set up clock: ", err)
		return subcommands.ExitFailure
	}
	tl, out, runErr := repeatPipeline(ctx, pf, f.Args(), p.repeat, src)
	if runErr == nil {
		fmt.Fprint(p.stdout, out)
	}
	if p.cfg.Verbose {
		if err := tl.WritePretty(p.stdout); err != nil {
			logging.Info(ctx, "Failed to write timings: ", err)
		}
	}
	if p.timingPath != "" && !tl.Empty() {
		if err := writeTimingJSON(p.timingPath, tl); err != nil {
			logging.Info(ctx, "Failed to write timings: ", err)
		}
	}
	if runErr != nil {
		logging.Info(ctx, "Pipeline failed: ", runErr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// repeatPipeline runs pf n times, stopping at the first failure, and returns
// the output of the last run. Each run gets its own Log, which is imported
// into a top-level "run N" stage of the returned Log.
func repeatPipeline(ctx context.Context, pf *pipelineFile, names []string, n int, src clock.Source) (*timing.Log, string, error) {
	if n <= 0 {
		n = 1
	}
	tl := timing.NewLogWith(src)
	var out string
	for i := 1; i <= n; i++ {
		st := tl.StartTop(fmt.Sprintf("run %d", i))
		runLog := timing.NewLogWith(src)
		var err error
		out, err = runPipeline(ctx, pf, names, runLog)
		if !runLog.Empty() {
			if ierr := st.Import(runLog); ierr != nil {
				logging.Info(ctx, "Failed to import timings: ", ierr)
			}
		}
		st.End()
		if err != nil {
			return tl, "", errors.Wrapf(err, "run %d", i)
		}
	}
	return tl, out, nil
}

func writeTimingJSON(path string, tl *timing.Log) error {
	b, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}
