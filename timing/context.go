// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"context"
)

// logKey and stageKey are context keys for the Log being recorded and the
// Stage new stages are nested under.
type (
	logKey   struct{}
	stageKey struct{}
)

// NewContext returns a context recording into l. Stages started from it with
// Start become top-level stages of l.
func NewContext(ctx context.Context, l *Log) context.Context {
	ctx = context.WithValue(ctx, logKey{}, l)
	return context.WithValue(ctx, stageKey{}, l.Root)
}

// FromContext returns the Log ctx records into and the Stage that Start would
// nest a new stage under. ok is false if ctx does not record timings.
func FromContext(ctx context.Context) (l *Log, parent *Stage, ok bool) {
	l, ok = ctx.Value(logKey{}).(*Log)
	if !ok {
		return nil, nil, false
	}
	parent, ok = ctx.Value(stageKey{}).(*Stage)
	if !ok {
		return nil, nil, false
	}
	return l, parent, true
}

// Start opens a stage named name under the current stage of ctx and returns a
// context nesting further stages under it. The step runner calls it once per
// step:
//
//	ctx, st := timing.Start(ctx, stepName)
//	defer st.End()
//
// The returned Stage is nil if ctx records no timings or its current stage
// has already ended. End is a no-op on a nil Stage.
func Start(ctx context.Context, name string) (context.Context, *Stage) {
	_, parent, ok := FromContext(ctx)
	if !ok {
		return ctx, nil
	}
	st := parent.StartChild(name)
	if st == nil {
		return ctx, nil
	}
	return context.WithValue(ctx, stageKey{}, st), st
}
