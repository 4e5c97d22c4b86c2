// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package timing

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/berry/internal/clock"
)

// writeLog returns a buffer containing data written by lg.WritePretty.
func writeLog(t *testing.T, lg *Log) *bytes.Buffer {
	t.Helper()
	b := &bytes.Buffer{}
	if err := lg.WritePretty(b); err != nil {
		t.Fatal("WritePretty() failed: ", err)
	}
	return b
}

func TestEmpty(t *testing.T) {
	l := NewLog()
	if !l.Empty() {
		t.Error("Empty() initially returned false")
	}

	s := l.StartTop("stage")
	if l.Empty() {
		t.Error("Empty() returned true with open stage")
	}

	s.End()
	if l.Empty() {
		t.Error("Empty() returned true with closed stage")
	}
}

func TestStage_End(t *testing.T) {
	// Create a log with a stage and a second nested stage, but only end the first stage.
	lg := NewLogWith(clock.NewFake(1000000))
	s0 := lg.StartTop("0")
	s0.StartChild("1")
	s0.End()

	// The effect should be the same as if we actually closed the nested stage.
	expLog := NewLogWith(clock.NewFake(1000000))
	s0 = expLog.StartTop("0")
	s0.StartChild("1").End()
	s0.End()

	actBuf := writeLog(t, lg)
	expBuf := writeLog(t, expLog)
	if actBuf.String() != expBuf.String() {
		t.Errorf("Got %q; want %v", actBuf.String(), expBuf.String())
	}
}

func TestWritePretty(t *testing.T) {
	// Every clock reading advances the fake clock by 1ms.
	l := NewLogWith(clock.NewFake(1000000))

	s0 := l.StartTop("stage0")
	s1 := s0.StartChild("stage1")
	s1.StartChild("stage2").End()
	s1.End()
	s0.StartChild("stage3").End()
	s0.End()
	l.StartTop("stage4").End()

	act := writeLog(t, l).String()
	exp := strings.TrimLeft(`
[["7ms", "stage0", [
         ["3ms", "stage1", [
                 ["1ms", "stage2"]]],
         ["1ms", "stage3"]]],
 ["1ms", "stage4"]]
`, "\n")
	if act != exp {
		t.Errorf("WritePretty() = %q; want %q", act, exp)
	}
}

func TestEndedStageRejectsChildren(t *testing.T) {
	l := NewLogWith(clock.NewFake(1))
	s := l.StartTop("done")
	s.End()
	if c := s.StartChild("late"); c != nil {
		t.Errorf("StartChild on ended stage = %v; want nil", c)
	}
	if err := s.Import(NewLog()); err == nil {
		t.Error("Import() unexpectedly succeeded on ended stage")
	}
}

func TestImport(t *testing.T) {
	outer := NewLogWith(clock.NewFake(1000))
	st := outer.StartTop("out")

	inner := NewLogWith(clock.NewFake(1000))
	inner.StartTop("a").End()
	inner.StartTop("b").End()
	if err := st.Import(inner); err != nil {
		t.Fatal("Import() reported error: ", err)
	}
	st.End()

	var names []string
	for _, c := range outer.Root.Children[0].Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff(names, []string{"a", "b"}); diff != "" {
		t.Errorf("Imported stages mismatch (-got +want):\n%s", diff)
	}
}

func TestMarshalJSON(t *testing.T) {
	l := NewLogWith(clock.NewFake(2000))
	s := l.StartTop("step")
	s.StartChild("inner").End()
	s.End()

	b, err := json.Marshal(l)
	if err != nil {
		t.Fatal("Marshal failed: ", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal(%s) failed: %v", b, err)
	}
	if len(got) != 1 || got[0]["name"] != "step" || got[0]["runtime"] != "6µs" {
		t.Errorf("Marshal() = %s; want a single 6µs stage named step", b)
	}
}
