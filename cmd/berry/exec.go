// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/logging"
	"go.chromium.org/berry/shutil"
)

// runCommand runs argv with stdin as its standard input and returns its
// standard output. Lines written to standard error are logged.
func runCommand(ctx context.Context, argv []string, stdin string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}
	logging.Debug(ctx, "Running ", shutil.Join(argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", errors.Wrap(err, "failed to open stdout")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", errors.Wrap(err, "failed to open stderr")
	}
	if err := cmd.Start(); err != nil {
		return "", errors.Wrapf(err, "failed to start %s", shutil.Join(argv))
	}

	var out bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			logging.Info(ctx, sc.Text())
		}
		return sc.Err()
	})
	// Pipes must be drained before Wait closes them.
	readErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		return "", errors.Wrapf(err, "%s failed", shutil.Join(argv))
	}
	if readErr != nil {
		return "", errors.Wrap(readErr, "failed to read output")
	}
	return out.String(), nil
}
