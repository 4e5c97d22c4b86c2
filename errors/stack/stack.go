// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stack provides a utility to capture and format a stack trace.
// This is not intended to be used directly; use the errors package instead.
package stack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	maxDepth = 8 // maximum number of stack frames to record

	ellipsis = "\t..." // trailing marker line added if stack trace is too long
)

// Stack holds a snapshot of program counters.
type Stack []uintptr

// New captures a stack trace. skip specifies the number of frames to skip from
// a stack trace. skip=0 records stack.New call as the innermost frame.
func New(skip int) Stack {
	pc := make([]uintptr, maxDepth+1)
	pc = pc[:runtime.Callers(skip+2, pc)]
	return Stack(pc)
}

// String formats a stack trace to a human-friendly text.
func (s Stack) String() string {
	var lines []string

	// runtime.CallersFrames handles inlined frames that a plain
	// runtime.FuncForPC walk would miss.
	cf := runtime.CallersFrames(s)
	for {
		f, more := cf.Next()
		line := fmt.Sprintf("\tat %s (%s:%d)", f.Function, filepath.Base(f.File), f.Line)
		lines = append(lines, line)
		if !more {
			break
		} else if len(lines) >= maxDepth {
			lines = append(lines, ellipsis)
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Top returns the fully-qualified name of the innermost function in s, or an
// empty string if s is empty.
func (s Stack) Top() string {
	if len(s) == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames(s[:1]).Next()
	return f.Function
}

// FuncName returns the fully-qualified name of the function whose entry point
// is pc, e.g. "go.chromium.org/berry/profiler.TestProfile.func1". An empty
// string is returned if pc does not belong to a known function.
func FuncName(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return ""
	}
	return f.Name()
}

// ShortFuncName is similar to FuncName but strips the package import path,
// leaving e.g. "profiler.TestProfile.func1".
func ShortFuncName(pc uintptr) string {
	name := FuncName(pc)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
