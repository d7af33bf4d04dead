// controls/controller_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	gomath "math"
	"slices"
	"testing"

	"github.com/avdeck/skydeck/math"
)

type captureRecorder struct {
	started, ended int
	bounds         math.Extent2D
}

func (c *captureRecorder) StartCaptureMouse(e math.Extent2D) {
	c.started++
	c.bounds = e
}

func (c *captureRecorder) EndCaptureMouse() { c.ended++ }

func dialInput(v float64) Input {
	return Input{
		Value: v,
		Arc:   Arc{Min: 0, Max: 100, Start: -3 * gomath.Pi / 4, End: 3 * gomath.Pi / 4},
		Step:  1,
	}
}

func TestPointerDrag(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}
	cap := &captureRecorder{}
	bounds := math.Extent2D{P0: [2]float32{10, 10}, P1: [2]float32{110, 110}}

	// Press at twelve o'clock: mid-arc, so mid-range, committed
	// immediately with no drag threshold.
	ctl.PointerDown(dialInput(0), [2]float32{0, 10}, 0, bounds, cap)
	if !ctl.Dragging() {
		t.Errorf("expected drag to be live after pointer down")
	}
	if cap.started != 1 || cap.bounds != bounds {
		t.Errorf("capture not started with bounds: %+v", cap)
	}
	if len(commits) != 1 || commits[0] != 50 {
		t.Errorf("got commits %v, expected [50]", commits)
	}

	// Three o'clock is 5/6 of the way along a 270 degree sweep.
	ctl.PointerMove(dialInput(50), [2]float32{10, 0}, 0)
	if len(commits) != 2 || commits[1] != 83 {
		t.Errorf("got commits %v, expected [50 83]", commits)
	}

	// Moves from a button other than the one that started the drag are
	// ignored.
	ctl.PointerMove(dialInput(83), [2]float32{-10, 0}, 1)
	if len(commits) != 2 {
		t.Errorf("move from wrong button committed: %v", commits)
	}

	// Release commits nothing of its own and releases capture.
	ctl.PointerUp(0)
	if ctl.Dragging() {
		t.Errorf("still dragging after pointer up")
	}
	if cap.ended != 1 {
		t.Errorf("capture not ended: %+v", cap)
	}
	if len(commits) != 2 {
		t.Errorf("pointer up emitted a commit: %v", commits)
	}
}

func TestPointerDragPastEnds(t *testing.T) {
	// Dragging into the gap at the bottom of the dial pins the value to
	// the nearer end rather than wrapping.
	var last float64
	ctl := Controller{OnCommit: func(v float64) { last = v }}

	ctl.PointerDown(dialInput(50), [2]float32{0, 10}, 0, math.Extent2D{}, nil)
	ctl.PointerMove(dialInput(50), [2]float32{0.01, -10}, 0) // just right of six o'clock
	if last != 100 {
		t.Errorf("got %v past the end of the sweep, expected 100", last)
	}
	ctl.PointerMove(dialInput(100), [2]float32{-0.01, -10}, 0) // just left of six o'clock
	if last != 0 {
		t.Errorf("got %v before the start of the sweep, expected 0", last)
	}
	ctl.PointerUp(0)
}

func TestPointerDragDeterminism(t *testing.T) {
	offsets := [][2]float32{{0, 10}, {7, 7}, {10, 0}, {3, -9}, {-10, 0}, {-6, 8}}

	run := func() []float64 {
		var commits []float64
		ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}
		ctl.PointerDown(dialInput(0), offsets[0], 0, math.Extent2D{}, nil)
		for _, o := range offsets[1:] {
			ctl.PointerMove(dialInput(commits[len(commits)-1]), o, 0)
		}
		ctl.PointerUp(0)
		return commits
	}

	first := run()
	for i := 0; i < 10; i++ {
		if again := run(); !slices.Equal(again, first) {
			t.Fatalf("same offsets gave different commits: %v vs %v", again, first)
		}
	}
}

func TestPointerDisabled(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}
	cap := &captureRecorder{}

	in := dialInput(50)
	in.Disabled = true
	ctl.PointerDown(in, [2]float32{0, 10}, 0, math.Extent2D{}, cap)
	if ctl.Dragging() || cap.started != 0 || len(commits) != 0 {
		t.Errorf("disabled control reacted to pointer down: dragging %v capture %+v commits %v",
			ctl.Dragging(), cap, commits)
	}
}

func TestPointerDisabledMidDrag(t *testing.T) {
	// If the control is disabled while a drag is live, moves stop
	// committing but release still tears the drag down.
	ctl := Controller{}
	cap := &captureRecorder{}

	ctl.PointerDown(dialInput(50), [2]float32{0, 10}, 0, math.Extent2D{}, cap)
	in := dialInput(50)
	in.Disabled = true
	ctl.PointerMove(in, [2]float32{10, 0}, 0)
	ctl.PointerUp(0)
	if ctl.Dragging() || cap.ended != 1 {
		t.Errorf("drag not torn down: dragging %v capture %+v", ctl.Dragging(), cap)
	}
}

func TestCancel(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}
	cap := &captureRecorder{}

	ctl.PointerDown(dialInput(50), [2]float32{0, 10}, 0, math.Extent2D{}, cap)
	n := len(commits)
	ctl.Cancel()
	if ctl.Dragging() || cap.ended != 1 {
		t.Errorf("cancel left drag live: dragging %v capture %+v", ctl.Dragging(), cap)
	}
	if len(commits) != n {
		t.Errorf("cancel emitted a commit: %v", commits)
	}

	// Cancel with no drag active is a no-op.
	ctl.Cancel()
	if cap.ended != 1 {
		t.Errorf("idle cancel ended capture again: %+v", cap)
	}
}

func TestHandleKeySteps(t *testing.T) {
	cases := []struct {
		value float64
		key   Key
		shift bool
		want  float64
	}{
		{50, KeyUp, false, 51},
		{50, KeyRight, false, 51},
		{50, KeyDown, false, 49},
		{50, KeyLeft, false, 49},
		{50, KeyUp, true, 60},
		{50, KeyDown, true, 40},
		{0, KeyDown, false, 0},    // clamped at min
		{100, KeyUp, true, 100},   // clamped at max
		{99.5, KeyUp, false, 100}, // off-grid value snaps onto the step
	}
	for _, c := range cases {
		var got []float64
		ctl := Controller{OnCommit: func(v float64) { got = append(got, v) }}
		ctl.HandleKey(dialInput(c.value), c.key, c.shift)
		if len(got) != 1 || got[0] != c.want {
			t.Errorf("key %v shift %v from %v: got %v, expected [%v]", c.key, c.shift, c.value, got, c.want)
		}
	}
}

func TestHandleKeyHomeEnd(t *testing.T) {
	// Home and End land on exactly min and max no matter where the
	// value started.
	for _, start := range []float64{0, 1, 42, 99.5, 100} {
		var got []float64
		ctl := Controller{OnCommit: func(v float64) { got = append(got, v) }}
		ctl.HandleKey(dialInput(start), KeyHome, false)
		ctl.HandleKey(dialInput(0), KeyEnd, false)
		if len(got) != 2 || got[0] != 0 || got[1] != 100 {
			t.Errorf("from %v: got %v, expected [0 100]", start, got)
		}
	}
}

func TestHandleKeyIgnored(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}

	ctl.HandleKey(dialInput(50), KeyNone, false)
	in := dialInput(50)
	in.Disabled = true
	ctl.HandleKey(in, KeyUp, false)
	if len(commits) != 0 {
		t.Errorf("unexpected commits %v", commits)
	}
}

func TestWheel(t *testing.T) {
	cases := []struct {
		value, notches float64
		shift          bool
		want           float64
	}{
		{50, 1, false, 51},
		{50, -3, false, 47},
		{50, 1, true, 60},
		{50, -1, true, 40},
		{99, 5, false, 100}, // clamped
		{1, -2, true, 0},    // clamped
	}
	for _, c := range cases {
		var got []float64
		ctl := Controller{OnCommit: func(v float64) { got = append(got, v) }}
		ctl.Wheel(dialInput(c.value), c.notches, c.shift)
		if len(got) != 1 || got[0] != c.want {
			t.Errorf("wheel %v shift %v from %v: got %v, expected [%v]", c.notches, c.shift, c.value, got, c.want)
		}
	}
}

func TestWheelInert(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}

	ctl.Wheel(dialInput(50), 0, false)
	in := dialInput(50)
	in.Disabled = true
	ctl.Wheel(in, 1, false)
	if len(commits) != 0 {
		t.Errorf("unexpected commits %v", commits)
	}
}

func TestEntry(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
		want float64
	}{
		{"42", true, 42},
		{"  17.5  ", true, 18},
		{"042", true, 42},
		{"-5", true, 0},    // clamped to min
		{"1e99", true, 100}, // finite but huge, clamped to max
		{"junk", false, 0},
		{"", false, 0},
		{"12abc", false, 0},
		{"NaN", false, 0},
		{"Inf", false, 0},
		{"-Inf", false, 0},
	}
	for _, c := range cases {
		var got []float64
		ctl := Controller{OnCommit: func(v float64) { got = append(got, v) }}
		ok := ctl.Entry(dialInput(0), c.text)
		if ok != c.ok {
			t.Errorf("Entry(%q) returned %v, expected %v", c.text, ok, c.ok)
		}
		if !c.ok {
			if len(got) != 0 {
				t.Errorf("Entry(%q) emitted %v despite failing", c.text, got)
			}
		} else if len(got) != 1 || got[0] != c.want {
			t.Errorf("Entry(%q): got %v, expected [%v]", c.text, got, c.want)
		}
	}
}

func TestEntryDisabled(t *testing.T) {
	var commits []float64
	ctl := Controller{OnCommit: func(v float64) { commits = append(commits, v) }}

	in := dialInput(0)
	in.Disabled = true
	if ctl.Entry(in, "42") {
		t.Errorf("disabled entry reported success")
	}
	if len(commits) != 0 {
		t.Errorf("disabled entry emitted %v", commits)
	}
}

func TestNilOnCommit(t *testing.T) {
	// A controller with no commit callback must not panic.
	ctl := Controller{}
	ctl.PointerDown(dialInput(0), [2]float32{0, 10}, 0, math.Extent2D{}, nil)
	ctl.PointerMove(dialInput(0), [2]float32{10, 0}, 0)
	ctl.PointerUp(0)
	ctl.Wheel(dialInput(0), 1, false)
	ctl.HandleKey(dialInput(0), KeyEnd, false)
	ctl.Entry(dialInput(0), "5")
}
