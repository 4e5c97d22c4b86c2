// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package loggingtest provides a Logger that lets tests assert on the log
// lines emitted through a context, e.g. the per-step lines of a pipeline.
package loggingtest

import (
	"sync"
	"testing"
	"time"

	"go.chromium.org/berry/internal/logging"
)

// Logger is a logging.Logger keeping messages at or above a level in memory.
// Every message, kept or not, is also passed to t.Log. Logger is safe to use
// from the goroutines that settle deferred steps.
type Logger struct {
	t     *testing.T
	level logging.Level

	mu   sync.Mutex
	logs []string
}

// NewLogger returns a Logger for t. Messages below level are only passed to
// t.Log.
func NewLogger(t *testing.T, level logging.Level) *Logger {
	return &Logger{t: t, level: level}
}

// Log records msg.
func (l *Logger) Log(level logging.Level, _ time.Time, msg string) {
	l.t.Helper()
	l.t.Logf("[%v] %s", level, msg)
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

// Logs returns a copy of the kept messages in arrival order.
func (l *Logger) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.logs...)
}
