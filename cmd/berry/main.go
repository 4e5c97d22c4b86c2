// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the berry executable, used to time commands and
// run step pipelines.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"go.chromium.org/berry/internal/config"
	"go.chromium.org/berry/internal/logging"
)

// newLogger creates a logging.Logger based on the supplied configuration.
// Logs go to stdout and, if logFile is non-nil, also to logFile with
// timestamps and debug logs included.
func newLogger(cfg *config.Config, stdout, logFile io.Writer) *logging.MultiLogger {
	level := logging.LevelInfo
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	ml := logging.NewMultiLogger(logging.NewSinkLogger(level, cfg.LogTime, logging.NewLogrusSink(stdout)))
	if logFile != nil {
		ml.AddLogger(logging.NewSinkLogger(logging.LevelDebug, true, logging.NewWriterSink(logFile)))
	}
	return ml
}

// applyFlags copies the global flags that were explicitly set on the command
// line into cfg.
func applyFlags(fs *flag.FlagSet, cfg *config.Config, verbose, logTime *bool, clockName *string) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			cfg.Verbose = *verbose
		case "logtime":
			cfg.LogTime = *logTime
		case "clock":
			cfg.Clock = *clockName
		}
	})
}

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions will run before os.Exit makes the program exit
// immediately.
func doMain() int {
	configPath := flag.String("config", os.Getenv("BERRY_CONFIG"), "path to a YAML configuration file")
	verbose := flag.Bool("verbose", false, "use verbose logging")
	logTime := flag.Bool("logtime", true, "include date/time headers in logs")
	clockName := flag.String("clock", "auto", "clock backend: auto, highres, wall or cpu")
	logPath := flag.String("logfile", "", "also write full logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "berry: %v\n", err)
		return int(subcommands.ExitUsageError)
	}
	applyFlags(flag.CommandLine, cfg, verbose, logTime, clockName)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "berry: %v\n", err)
		return int(subcommands.ExitUsageError)
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newHumanizeCmd(os.Stdout), "")
	subcommands.Register(newBenchCmd(cfg, os.Stdout), "measure")
	subcommands.Register(newPerfCmd(cfg, os.Stdout), "measure")
	subcommands.Register(newProfileCmd(cfg, os.Stdout), "measure")
	subcommands.Register(newPipelineCmd(cfg, os.Stdout), "")

	var logFile io.Writer
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "berry: %v\n", err)
			return int(subcommands.ExitFailure)
		}
		defer f.Close()
		logFile = f
	}

	ctx := logging.AttachLogger(context.Background(), newLogger(cfg, os.Stdout, logFile))
	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
