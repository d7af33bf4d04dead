// panes/mapview/mapview_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapview

import (
	"testing"

	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
)

func testMapContext(t *testing.T) (*panes.Context, *MapPane) {
	t.Helper()

	s := mission.NewSession(mission.DefaultPlan(), nil)
	t.Cleanup(s.Destroy)

	mp := NewMapPane()
	mp.Center = math.Point2LL{-122.05, 37.41}
	mp.RangeNM = 10

	return &panes.Context{
		PaneExtent:     mapBounds,
		DrawPixelScale: 1,
		DPIScale:       1,
		Mission:        s,
		KeyboardFocus:  &panes.KeyboardFocus{},
	}, mp
}

func pressedKeys(keys ...imgui.Key) *platform.KeyboardState {
	k := &platform.KeyboardState{Pressed: make(map[imgui.Key]interface{})}
	for _, key := range keys {
		k.Pressed[key] = nil
	}
	return k
}

func typedKeys(s string) *platform.KeyboardState {
	return &platform.KeyboardState{Input: s, Pressed: make(map[imgui.Key]interface{})}
}

func near2LL(a, b math.Point2LL, tol float32) bool {
	return math.Abs(a[0]-b[0]) < tol && math.Abs(a[1]-b[1]) < tol
}

func TestPanMovesWithCursor(t *testing.T) {
	ctx, mp := testMapContext(t)

	grab := [2]float32{120, 200}
	delta := [2]float32{60, -35}
	before := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	want := before.LatLongFromWindowP(grab)

	ctx.Mouse = &platform.MouseState{Pos: math.Add2f(grab, delta), DragDelta: delta}
	ctx.Mouse.Dragging[platform.MouseButtonPrimary] = true
	mp.processMouse(ctx, &before)

	// The point that was under the cursor at the start of the drag should
	// still be under it now.
	after := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	if got := after.LatLongFromWindowP(ctx.Mouse.Pos); !near2LL(got, want, 1e-4) {
		t.Errorf("after pan cursor is over %v, want %v", got, want)
	}
}

func TestWheelZoomHoldsCursor(t *testing.T) {
	ctx, mp := testMapContext(t)

	pos := [2]float32{100, 450}
	tr := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	under := tr.LatLongFromWindowP(pos)

	// One notch forward; the platform layer negates wheel y going to pane
	// coordinates, so zooming in arrives as a negative value.
	ctx.Mouse = &platform.MouseState{Pos: pos, Wheel: [2]float32{0, -1}}
	mp.processMouse(ctx, &tr)

	if want := float32(10 / zoomPerNotch); math.Abs(mp.RangeNM-want) > 1e-6 {
		t.Errorf("after one notch range is %v, want %v", mp.RangeNM, want)
	}
	after := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	if got := after.LatLongFromWindowP(pos); !near2LL(got, under, 1e-4) {
		t.Errorf("zoom moved the point under the cursor from %v to %v", under, got)
	}

	// Zooming in at the minimum range stays put.
	mp.RangeNM = minRangeNM
	tr = getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	ctx.Mouse = &platform.MouseState{Pos: pos, Wheel: [2]float32{0, -3}}
	mp.processMouse(ctx, &tr)
	if mp.RangeNM != minRangeNM {
		t.Errorf("zoomed past the minimum range to %v", mp.RangeNM)
	}
}

func TestPickerAddsWaypoint(t *testing.T) {
	ctx, mp := testMapContext(t)
	sub := ctx.Mission.EventStream.Subscribe()
	defer sub.Unsubscribe()

	mp.ArmPicker()
	click := [2]float32{320, 480}
	tr := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	ctx.Mouse = &platform.MouseState{Pos: click}
	ctx.Mouse.Clicked[platform.MouseButtonPrimary] = true
	mp.processMouse(ctx, &tr)

	wps := ctx.Mission.Plan.Waypoints
	if len(wps) != 5 {
		t.Fatalf("got %d waypoints after pick, want 5", len(wps))
	}
	added := wps[4]
	if added.Name != "WP5" {
		t.Errorf("picked waypoint named %q, want WP5", added.Name)
	}
	if want := tr.LatLongFromWindowP(click); !near2LL(added.Location, want, 1e-6) {
		t.Errorf("picked waypoint at %v, want %v", added.Location, want)
	}
	if mp.PickerArmed() {
		t.Error("picker still armed after the pick")
	}
	if !ctx.Mission.CanUndo() {
		t.Error("pick should be undoable")
	}

	ev := sub.Get()
	if len(ev) != 1 || ev[0].Type != mission.PointPickedEvent {
		t.Fatalf("got events %v, want one PointPickedEvent", ev)
	}
	if ev[0].Control != "WP5" || ev[0].Location != added.Location {
		t.Errorf("event %+v does not match the added waypoint", ev[0])
	}

	// With the picker disarmed, a click just takes keyboard focus.
	ctx.Mouse = &platform.MouseState{Pos: click}
	ctx.Mouse.Clicked[platform.MouseButtonPrimary] = true
	mp.processMouse(ctx, &tr)
	if len(ctx.Mission.Plan.Waypoints) != 5 {
		t.Error("unarmed click added a waypoint")
	}
	if ctx.KeyboardFocus.Current() != mp {
		t.Error("unarmed click did not take keyboard focus")
	}
}

func TestPickerEscape(t *testing.T) {
	ctx, mp := testMapContext(t)
	ctx.KeyboardFocus.Take(mp)
	ctx.HaveFocus = true

	mp.ArmPicker()
	ctx.Keyboard = pressedKeys(imgui.KeyEscape)
	mp.processKeyboard(ctx)
	if mp.PickerArmed() {
		t.Error("escape did not disarm the picker")
	}
	if ctx.KeyboardFocus.Current() != mp {
		t.Error("escape released focus while disarming the picker")
	}

	mp.processKeyboard(ctx)
	if ctx.KeyboardFocus.Current() == mp {
		t.Error("second escape did not release keyboard focus")
	}
}

func TestMapKeys(t *testing.T) {
	ctx, mp := testMapContext(t)

	ctx.Keyboard = typedKeys("+")
	mp.processKeyboard(ctx)
	if mp.RangeNM != 8 {
		t.Errorf("range after + is %v, want 8", mp.RangeNM)
	}

	ctx.Keyboard = typedKeys("-")
	mp.processKeyboard(ctx)
	if mp.RangeNM != 10 {
		t.Errorf("range after - is %v, want 10", mp.RangeNM)
	}

	ctx.Keyboard = typedKeys("g")
	mp.processKeyboard(ctx)
	if mp.ShowGraticule {
		t.Error("g did not hide the graticule")
	}
	mp.processKeyboard(ctx)
	if !mp.ShowGraticule {
		t.Error("second g did not show the graticule")
	}

	ctx.Keyboard = typedKeys("p")
	mp.processKeyboard(ctx)
	if !mp.PickerArmed() {
		t.Error("p did not arm the picker")
	}
	mp.processKeyboard(ctx)
	if mp.PickerArmed() {
		t.Error("second p did not disarm the picker")
	}
}

func TestMapArrowPan(t *testing.T) {
	ctx, mp := testMapContext(t)
	ctx.HaveFocus = true

	c0 := mp.Center
	ctx.Keyboard = pressedKeys(imgui.KeyUpArrow)
	mp.processKeyboard(ctx)
	if want := c0[1] + 2.5/math.NMPerLatitude; math.Abs(mp.Center[1]-want) > 1e-6 {
		t.Errorf("up arrow moved latitude to %v, want %v", mp.Center[1], want)
	}
	if mp.Center[0] != c0[0] {
		t.Errorf("up arrow moved longitude to %v", mp.Center[0])
	}

	c1 := mp.Center
	nmPerLon := math.NMPerLongitudeAt(c1)
	ctx.Keyboard = pressedKeys(imgui.KeyRightArrow)
	mp.processKeyboard(ctx)
	if want := c1[0] + 2.5/nmPerLon; math.Abs(mp.Center[0]-want) > 1e-6 {
		t.Errorf("right arrow moved longitude to %v, want %v", mp.Center[0], want)
	}
	if mp.Center[1] != c1[1] {
		t.Errorf("right arrow moved latitude to %v", mp.Center[1])
	}

	// Home reframes on the plan.
	ctx.Keyboard = pressedKeys(imgui.KeyHome)
	mp.processKeyboard(ctx)
	if want := ctx.Mission.Plan.Extent().Center(); !near2LL(mp.Center, want, 1e-6) {
		t.Errorf("home framed the view at %v, want %v", mp.Center, want)
	}
}

func TestFramePlanContainsEverything(t *testing.T) {
	ctx, mp := testMapContext(t)
	plan := ctx.Mission.Plan
	mp.framePlan(plan, ctx.PaneExtent)

	if mp.RangeNM < minRangeNM || mp.RangeNM > maxRangeNM {
		t.Fatalf("framed range %v outside limits", mp.RangeNM)
	}

	tr := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	check := func(what string, p math.Point2LL) {
		pw := tr.windowFromLatLong.TransformPoint(p)
		if pw[0] < 0 || pw[0] > ctx.PaneExtent.Width() || pw[1] < 0 || pw[1] > ctx.PaneExtent.Height() {
			t.Errorf("%s at %v projects offscreen to %v", what, p, pw)
		}
	}
	check("home", plan.Home)
	for _, wp := range plan.Waypoints {
		check("waypoint "+wp.Name, wp.Location)
	}
	for _, v := range plan.Geofence {
		check("geofence vertex", v)
	}
}

func TestGraticuleSpacing(t *testing.T) {
	for _, tc := range []struct {
		rangenm, spacing float32
	}{
		{0.5, 0.05},
		{8, 0.05},
		{30, 0.25},
		{120, 1},
		{512, 5},
	} {
		if got := graticuleSpacing(tc.rangenm); got != tc.spacing {
			t.Errorf("graticuleSpacing(%v) = %v, want %v", tc.rangenm, got, tc.spacing)
		}
	}
}

func TestMapDrawSmoke(t *testing.T) {
	ctx, mp := testMapContext(t)
	mp.layers = []*chartLayer{{
		Name:  "test",
		Lines: [][]math.Point2LL{{{-122.06, 37.40}, {-122.04, 37.40}, {-122.04, 37.42}}},
	}}

	var cb renderer.CommandBuffer
	mp.Draw(ctx, &cb)

	if len(cb.Buf) == 0 {
		t.Error("draw emitted no commands")
	}
	if mp.decimated.Len() != 1 {
		t.Errorf("%d decimated layer entries cached, want 1", mp.decimated.Len())
	}
	// The default geofence is a quad, which triangulates into two
	// triangles.
	if len(mp.fenceTris) != 2 {
		t.Errorf("geofence fill has %d triangles, want 2", len(mp.fenceTris))
	}
}
