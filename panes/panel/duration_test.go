// panes/panel/duration_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panel

import (
	"testing"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/platform"

	"github.com/AllenDang/cimgui-go/imgui"
)

var loiterBounds = math.Extent2D{P1: [2]float32{200, 40}}

func TestDurationSegmentAt(t *testing.T) {
	cases := []struct {
		p    [2]float32
		want controls.DurationSegment
	}{
		{[2]float32{70, 20}, controls.Hours},
		{[2]float32{130, 20}, controls.Minutes},
		{[2]float32{190, 20}, controls.Seconds},
		{[2]float32{10, 20}, controls.Hours}, // over the label
	}
	for _, c := range cases {
		if got := segmentAt(loiterBounds, c.p); got != c.want {
			t.Errorf("segmentAt(%v) = %v, expected %v", c.p, got, c.want)
		}
	}
}

func TestDurationMouseSelect(t *testing.T) {
	ctx := testContext()
	model := &controls.DurationModel{Seconds: 120}
	commits := 0
	commit := func() { commits++ }
	var dw durationWidget
	dw.entryText = "9"

	ctx.Mouse = press([2]float32{130, 20})
	if !dw.processMouse(ctx, loiterBounds, model, false, commit) {
		t.Errorf("click inside the strip didn't select it")
	}
	if dw.seg != controls.Minutes {
		t.Errorf("seg got %v, expected the minutes segment", dw.seg)
	}
	if dw.entryText != "" {
		t.Errorf("click kept the pending entry %q", dw.entryText)
	}

	ctx.Mouse = press([2]float32{130, 60})
	if dw.processMouse(ctx, loiterBounds, model, false, commit) {
		t.Errorf("click outside the strip selected it")
	}

	if commits != 0 || model.Seconds != 120 {
		t.Errorf("selection changed the model: %d commits, %d seconds", commits, model.Seconds)
	}
}

func TestDurationWheel(t *testing.T) {
	ctx := testContext()
	model := &controls.DurationModel{Seconds: 120}
	commits := 0
	commit := func() { commits++ }
	var dw durationWidget

	ctx.Mouse = &platform.MouseState{Pos: [2]float32{70, 20}, Wheel: [2]float32{0, -1}}
	dw.processMouse(ctx, loiterBounds, model, false, commit)
	if model.Seconds != 3720 || commits != 1 {
		t.Errorf("wheel over hours got %d seconds after %d commits, expected 3720 after 1",
			model.Seconds, commits)
	}

	ctx.Mouse = &platform.MouseState{Pos: [2]float32{190, 20}, Wheel: [2]float32{0, 2}}
	dw.processMouse(ctx, loiterBounds, model, false, commit)
	if model.Seconds != 3718 || commits != 2 {
		t.Errorf("wheel over seconds got %d seconds, expected 3718", model.Seconds)
	}

	ctx.Mouse = &platform.MouseState{Pos: [2]float32{70, 20}, Wheel: [2]float32{0, -1}}
	dw.processMouse(ctx, loiterBounds, model, true, commit)
	if model.Seconds != 3718 || commits != 2 {
		t.Errorf("wheel on a disabled strip changed the model")
	}
}

func TestDurationKeys(t *testing.T) {
	ctx := testContext()
	model := &controls.DurationModel{Seconds: 120}
	commits := 0
	commit := func() { commits++ }
	var dw durationWidget

	// The segment selection clamps at the ends.
	ctx.Keyboard = pressedKeys(imgui.KeyLeftArrow)
	dw.processKeys(ctx, model, false, commit)
	if dw.seg != controls.Hours {
		t.Errorf("left from hours moved to %v", dw.seg)
	}
	for range 3 {
		ctx.Keyboard = pressedKeys(imgui.KeyRightArrow)
		dw.processKeys(ctx, model, false, commit)
	}
	if dw.seg != controls.Seconds {
		t.Errorf("right clamped at %v, expected seconds", dw.seg)
	}

	ctx.Keyboard = pressedKeys(imgui.KeyDownArrow)
	dw.processKeys(ctx, model, false, commit)
	if model.Seconds != 119 || commits != 1 {
		t.Errorf("down on seconds got %d, expected 119", model.Seconds)
	}

	// Digits accumulate, at most four of them, and suppress stepping.
	ctx.Keyboard = typed("123456")
	dw.processKeys(ctx, model, false, commit)
	if dw.entryText != "1234" {
		t.Errorf("entry got %q, expected \"1234\"", dw.entryText)
	}
	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	dw.processKeys(ctx, model, false, commit)
	if model.Seconds != 119 {
		t.Errorf("arrow stepped with an entry pending")
	}

	ctx.Keyboard = pressedKeys(imgui.KeyEscape)
	dw.processKeys(ctx, model, false, commit)
	if dw.entryText != "" {
		t.Errorf("escape kept the entry %q", dw.entryText)
	}

	// A typed-in segment value carries upward on enter.
	dw.seg = controls.Minutes
	ctx.Keyboard = typed("90")
	dw.processKeys(ctx, model, false, commit)
	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, model, false, commit)
	if model.Seconds != 5459 || commits != 2 {
		t.Errorf("setting minutes to 90 got %d seconds, expected 5459", model.Seconds)
	}
}

func TestDurationKeysDisabled(t *testing.T) {
	ctx := testContext()
	model := &controls.DurationModel{Seconds: 120}
	commits := 0
	commit := func() { commits++ }
	var dw durationWidget

	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	dw.processKeys(ctx, model, true, commit)

	ctx.Keyboard = typed("30")
	dw.processKeys(ctx, model, true, commit)
	if dw.entryText != "" {
		t.Errorf("disabled strip accumulated entry %q", dw.entryText)
	}

	dw.entryText = "30"
	ctx.Keyboard = pressedKeys(imgui.KeyEnter)
	dw.processKeys(ctx, model, true, commit)

	if model.Seconds != 120 || commits != 0 {
		t.Errorf("disabled strip changed the model: %d seconds, %d commits", model.Seconds, commits)
	}
	if dw.entryText != "" {
		t.Errorf("enter kept the entry text")
	}
}
