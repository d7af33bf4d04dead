// panes/panel/dial_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panel

import (
	gomath "math"
	"testing"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"

	"github.com/AllenDang/cimgui-go/imgui"
)

var dialCenter = [2]float32{200, 300}

const dialRadius = 80

// testSpec is a plain 0..100 dial over the standard three-quarter sweep,
// appending committed values to commits.
func testSpec(commits *[]float64) dialSpec {
	return dialSpec{
		label: "TEST",
		in: controls.Input{
			Value: 50,
			Arc:   controls.Arc{Min: 0, Max: 100, Start: -3 * gomath.Pi / 4, End: 3 * gomath.Pi / 4},
			Step:  1,
		},
		format: func(v float64) string { return "" },
		commit: func(v float64) { *commits = append(*commits, v) },
	}
}

func testContext() *panes.Context {
	return &panes.Context{PaneExtent: math.Extent2D{P1: [2]float32{400, 600}}}
}

func press(p [2]float32) *platform.MouseState {
	m := &platform.MouseState{Pos: p}
	m.Clicked[platform.MouseButtonPrimary] = true
	m.Down[platform.MouseButtonPrimary] = true
	return m
}

func drag(p [2]float32) *platform.MouseState {
	m := &platform.MouseState{Pos: p}
	m.Down[platform.MouseButtonPrimary] = true
	return m
}

func release(p [2]float32) *platform.MouseState {
	m := &platform.MouseState{Pos: p}
	m.Released[platform.MouseButtonPrimary] = true
	return m
}

func pressedKeys(keys ...imgui.Key) *platform.KeyboardState {
	kb := &platform.KeyboardState{Pressed: make(map[imgui.Key]interface{})}
	for _, k := range keys {
		kb.Pressed[k] = nil
	}
	return kb
}

func typed(s string) *platform.KeyboardState {
	return &platform.KeyboardState{Input: s, Pressed: make(map[imgui.Key]interface{})}
}

func TestDialDragCommitsOnRelease(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	// Press at twelve o'clock, the middle of the range.
	ctx.Mouse = press(math.Add2f(dialCenter, [2]float32{0, dialRadius}))
	if !dw.processMouse(ctx, spec, dialCenter, dialRadius) {
		t.Errorf("press on the dial didn't select it")
	}
	if len(commits) != 0 {
		t.Errorf("commit during drag: %v", commits)
	}
	if v := dw.value(spec); v != 50 {
		t.Errorf("preview got %v, expected 50", v)
	}

	// Drag east; still no commit, but the preview follows.
	ctx.Mouse = drag(math.Add2f(dialCenter, [2]float32{dialRadius, 0}))
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if len(commits) != 0 {
		t.Errorf("commit during drag: %v", commits)
	}
	if v := dw.value(spec); v != 83 {
		t.Errorf("preview got %v, expected 83", v)
	}

	// Release: the whole gesture commits once.
	ctx.Mouse = release(math.Add2f(dialCenter, [2]float32{dialRadius, 0}))
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if len(commits) != 1 || commits[0] != 83 {
		t.Errorf("commits got %v, expected [83]", commits)
	}
	if dw.ctrl.Dragging() {
		t.Errorf("still dragging after release")
	}
}

func TestDialPressOutsideIgnored(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	ctx.Mouse = press(math.Add2f(dialCenter, [2]float32{0, 2 * dialRadius}))
	if dw.processMouse(ctx, spec, dialCenter, dialRadius) {
		t.Errorf("press outside the dial selected it")
	}
	if dw.ctrl.Dragging() {
		t.Errorf("press outside the dial started a drag")
	}
	if len(commits) != 0 {
		t.Errorf("commits got %v, expected none", commits)
	}
}

func TestDialWheelCommitsImmediately(t *testing.T) {
	for _, tc := range []struct {
		wheel    float32
		expected float64
	}{
		{-1, 51}, // scroll up, flipped into pane coordinates
		{-3, 53},
		{1, 49},
	} {
		var commits []float64
		spec := testSpec(&commits)
		ctx := testContext()
		var dw dialWidget

		ctx.Mouse = &platform.MouseState{Pos: dialCenter, Wheel: [2]float32{0, tc.wheel}}
		dw.processMouse(ctx, spec, dialCenter, dialRadius)
		if len(commits) != 1 || commits[0] != tc.expected {
			t.Errorf("wheel %v: commits got %v, expected [%v]", tc.wheel, commits, tc.expected)
		}
	}
}

func TestDialWheelOutsideIgnored(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	ctx.Mouse = &platform.MouseState{
		Pos:   math.Add2f(dialCenter, [2]float32{2 * dialRadius, 0}),
		Wheel: [2]float32{0, -1},
	}
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if len(commits) != 0 {
		t.Errorf("commits got %v, expected none", commits)
	}
}

func TestDialKeys(t *testing.T) {
	for _, tc := range []struct {
		key      imgui.Key
		expected float64
	}{
		{imgui.KeyUpArrow, 51},
		{imgui.KeyRightArrow, 51},
		{imgui.KeyDownArrow, 49},
		{imgui.KeyLeftArrow, 49},
		{imgui.KeyHome, 0},
		{imgui.KeyEnd, 100},
	} {
		var commits []float64
		spec := testSpec(&commits)
		ctx := testContext()
		var dw dialWidget

		ctx.Keyboard = pressedKeys(tc.key)
		dw.processKeys(ctx, spec)
		if len(commits) != 1 || commits[0] != tc.expected {
			t.Errorf("key %v: commits got %v, expected [%v]", tc.key, commits, tc.expected)
		}
	}
}

func TestDialEntry(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	for _, ch := range []string{"8", "5"} {
		ctx.Keyboard = typed(ch)
		dw.processKeys(ctx, spec)
	}
	if dw.entryText != "85" {
		t.Errorf("entry text got %q, expected \"85\"", dw.entryText)
	}

	// A pending entry suppresses stepping.
	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	dw.processKeys(ctx, spec)
	if len(commits) != 0 {
		t.Errorf("arrow committed with a pending entry: %v", commits)
	}

	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, spec)
	if len(commits) != 1 || commits[0] != 85 {
		t.Errorf("commits got %v, expected [85]", commits)
	}
	if dw.entryText != "" {
		t.Errorf("entry text %q not cleared after enter", dw.entryText)
	}
}

func TestDialEntryClampsToRange(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	dw.entryText = "250"
	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, spec)
	if len(commits) != 1 || commits[0] != 100 {
		t.Errorf("commits got %v, expected [100]", commits)
	}
}

func TestDialEntryEditing(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	dw.entryText = "42"
	ctx.Keyboard = pressedKeys(imgui.KeyBackspace)
	dw.processKeys(ctx, spec)
	if dw.entryText != "4" {
		t.Errorf("entry after backspace got %q, expected \"4\"", dw.entryText)
	}

	ctx.Keyboard = pressedKeys(imgui.KeyEscape)
	dw.processKeys(ctx, spec)
	if dw.entryText != "" {
		t.Errorf("entry after escape got %q, expected empty", dw.entryText)
	}
	if len(commits) != 0 {
		t.Errorf("editing committed: %v", commits)
	}
}

func TestDialEntryInvalid(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	dw.entryText = "-.-"
	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, spec)
	if len(commits) != 0 {
		t.Errorf("invalid entry committed: %v", commits)
	}
	if dw.entryText != "" {
		t.Errorf("entry text %q not cleared after failed parse", dw.entryText)
	}
}

func TestDialDisabled(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	spec.in.Disabled = true
	ctx := testContext()
	var dw dialWidget

	ctx.Mouse = press(math.Add2f(dialCenter, [2]float32{0, dialRadius}))
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if dw.ctrl.Dragging() {
		t.Errorf("disabled dial started a drag")
	}

	ctx.Mouse = &platform.MouseState{Pos: dialCenter, Wheel: [2]float32{0, -1}}
	dw.processMouse(ctx, spec, dialCenter, dialRadius)

	ctx.Mouse = nil
	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	dw.processKeys(ctx, spec)

	dw.entryText = "60"
	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, spec)

	if len(commits) != 0 {
		t.Errorf("disabled dial committed: %v", commits)
	}
}

func TestDialAdjustOverride(t *testing.T) {
	type adjustment struct {
		steps  float64
		coarse bool
	}
	var commits []float64
	var adjusts []adjustment
	spec := testSpec(&commits)
	spec.adjust = func(steps float64, coarse bool) {
		adjusts = append(adjusts, adjustment{steps, coarse})
	}
	ctx := testContext()
	var dw dialWidget

	ctx.Mouse = &platform.MouseState{Pos: dialCenter, Wheel: [2]float32{0, 2}}
	dw.processMouse(ctx, spec, dialCenter, dialRadius)

	ctx.Mouse = nil
	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	dw.processKeys(ctx, spec)

	// A dial with no end stops ignores home and end.
	ctx.Keyboard = pressedKeys(imgui.KeyHome)
	dw.processKeys(ctx, spec)

	if len(adjusts) != 2 || adjusts[0] != (adjustment{-2, false}) || adjusts[1] != (adjustment{1, false}) {
		t.Errorf("adjusts got %v, expected [{-2 false} {1 false}]", adjusts)
	}
	if len(commits) != 0 {
		t.Errorf("adjust path committed through the controller: %v", commits)
	}
}

func TestDialMouseVanishesCancelsDrag(t *testing.T) {
	var commits []float64
	spec := testSpec(&commits)
	ctx := testContext()
	var dw dialWidget

	ctx.Mouse = press(math.Add2f(dialCenter, [2]float32{0, dialRadius}))
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if !dw.ctrl.Dragging() {
		t.Fatalf("press didn't start a drag")
	}

	// The mouse moves to another pane; the gesture is abandoned, not
	// committed.
	ctx.Mouse = nil
	dw.processMouse(ctx, spec, dialCenter, dialRadius)
	if dw.ctrl.Dragging() {
		t.Errorf("drag survived losing the mouse")
	}
	if len(commits) != 0 {
		t.Errorf("abandoned gesture committed: %v", commits)
	}
}
