// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.chromium.org/berry/errors"
	"go.chromium.org/berry/internal/clock"
)

// Log contains nested timing information.
type Log struct {
	// Root is a special root stage containing all stages as its descendants.
	// Its End should not be called, and its duration should be ignored.
	Root *Stage
}

// NewLog returns a new Log whose stages are measured with the default clock.
func NewLog() *Log {
	return NewLogWith(clock.Default)
}

// NewLogWith returns a new Log whose stages are measured with src.
func NewLogWith(src clock.Source) *Log {
	return &Log{Root: &Stage{src: src}}
}

// StartTop starts and returns a new top-level stage named name.
func (l *Log) StartTop(name string) *Stage {
	return l.Root.StartChild(name)
}

// Empty returns true if l doesn't contain any stages.
func (l *Log) Empty() bool {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	return len(l.Root.Children) == 0
}

// WritePretty writes timing information to w as JSON-like nested arrays. Each
// stage is an array holding its humanized duration, its name and an optional
// array of child stages:
//
//	[["4ms", "stage0", [
//	         ["3ms", "stage1", [
//	                 ["1ms", "stage2"],
//	                 ["2ms", "stage3"]]],
//	         ["1ms", "stage4"]]],
//	 ["531µs", "stage5"]]
func (l *Log) WritePretty(w io.Writer) error {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	// Use a bufio.Writer to avoid any further writes after an error is encountered.
	bw := bufio.NewWriter(w)

	io.WriteString(bw, "[")
	for i, s := range l.Root.Children {
		// The first top-level stage is on the same line as the opening '['.
		var indent string
		if i > 0 {
			indent = " "
		}
		if err := s.writePretty(bw, indent, " ", i == len(l.Root.Children)-1); err != nil {
			return err
		}
	}

	io.WriteString(bw, "]\n")
	return bw.Flush() // returns first error encountered during earlier writes
}

// MarshalJSON marshals the stages of l as a JSON array.
func (l *Log) MarshalJSON() ([]byte, error) {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()
	return json.Marshal(l.Root.Children)
}

var _ json.Marshaler = (*Log)(nil)

// Stage represents a discrete unit of work that is being timed.
type Stage struct {
	Name     string
	Children []*Stage

	src     clock.Source
	timer   *Timer
	elapsed int64 // nanoseconds; valid once ended
	ended   bool

	mu sync.Mutex // protects Children, elapsed and ended
}

// Import imports the stages from o into s, with o's top-level stages inserted as children of s.
// An error is returned if s is already ended.
func (s *Stage) Import(o *Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return errors.New("stage has ended")
	}

	s.Children = append(s.Children, o.Root.Children...)
	return nil
}

// StartChild creates and returns a new named timing stage as a child of s.
// Stage.End should be called when the stage is completed. nil is returned if
// s has already ended.
func (s *Stage) StartChild(name string) *Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil
	}

	c := &Stage{
		Name:  name,
		src:   s.src,
		timer: TimeWith(s.src),
	}
	s.Children = append(s.Children, c)
	return c
}

// End ends the stage. Child stages are recursively examined and also ended
// (although we expect them to have already been ended).
func (s *Stage) End() {
	// Handle nil receivers returned by the package-level Start function.
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}

	for _, c := range s.Children {
		c.End()
	}
	if s.timer != nil {
		s.elapsed = s.timer.Elapsed()
	}
	s.ended = true
}

// Elapsed returns the nanoseconds the stage took. If the stage hasn't ended,
// it returns the time since the start of the stage.
func (s *Stage) Elapsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Stage) elapsedLocked() int64 {
	if s.ended || s.timer == nil {
		return s.elapsed
	}
	return s.timer.Elapsed()
}

// jsonStage is the JSON schema of Stage.
type jsonStage struct {
	Name     string   `json:"name"`
	Elapsed  int64    `json:"elapsedNs"`
	Runtime  string   `json:"runtime"`
	Children []*Stage `json:"children,omitempty"`
}

// MarshalJSON marshals s and its children.
func (s *Stage) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.elapsedLocked()
	return json.Marshal(&jsonStage{
		Name:     s.Name,
		Elapsed:  ns,
		Runtime:  Humanize(ns),
		Children: s.Children,
	})
}

// writePretty writes information about the stage and its children to w as a JSON array.
// The first line of output is indented by initialIndent, while any subsequent lines (e.g.
// for child stages) are indented by followIndent. last should be true if this is the last
// entry in its parent array; otherwise a trailing comma and newline are appended.
// The caller is responsible for checking w for errors encountered while writing.
func (s *Stage) writePretty(w *bufio.Writer, initialIndent, followIndent string, last bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mn, err := json.Marshal(&s.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s[%q, %s", initialIndent, Humanize(s.elapsedLocked()), mn)

	if len(s.Children) > 0 {
		io.WriteString(w, ", [\n")
		ci := followIndent + strings.Repeat(" ", 8)
		for i, c := range s.Children {
			if err := c.writePretty(w, ci, ci, i == len(s.Children)-1); err != nil {
				return err
			}
		}
		io.WriteString(w, "]")
	}

	io.WriteString(w, "]")
	if !last {
		io.WriteString(w, ",\n")
	}
	return nil
}
