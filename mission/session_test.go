// mission/session_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	gomath "math"
	"testing"

	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"
)

func TestSessionCommands(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()
	sub := s.EventStream.Subscribe()

	s.SetCommandedHeading(270)
	s.SetCommandedSpeed(units.Quantity{Value: 60, Unit: units.Knots})
	s.SetCommandedAltitude(units.Quantity{Value: 1000, Unit: units.Feet})
	s.SetLoiter(300)

	if h := s.Plan.Commands.Heading; h != 270 {
		t.Errorf("heading got %v, expected 270", h)
	}
	if v := s.Plan.Commands.Speed.Value; v != 60 {
		t.Errorf("speed got %v, expected 60", v)
	}
	if v := s.Plan.Commands.Altitude.Value; v != 1000 {
		t.Errorf("altitude got %v, expected 1000", v)
	}
	if v := s.Plan.Commands.LoiterSeconds; v != 300 {
		t.Errorf("loiter got %v, expected 300", v)
	}

	ev := sub.Get()
	if len(ev) != 4 {
		t.Fatalf("got %d events, expected 4", len(ev))
	}
	for i, control := range []string{"heading", "speed", "altitude", "loiter"} {
		if ev[i].Type != CommandEvent {
			t.Errorf("event %d type %s, expected CommandEvent", i, ev[i].Type)
		}
		if ev[i].Control != control {
			t.Errorf("event %d control %q, expected %q", i, ev[i].Control, control)
		}
	}
	if ev[0].OldValue != 0 || ev[0].NewValue != 270 {
		t.Errorf("heading event %v -> %v, expected 0 -> 270", ev[0].OldValue, ev[0].NewValue)
	}
	if ev[1].Unit != units.Knots {
		t.Errorf("speed event unit %q, expected knots", ev[1].Unit)
	}
}

func TestSessionNoOpCommands(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()
	sub := s.EventStream.Subscribe()

	// Setting the current value again should neither post an event nor
	// grow the undo history.
	s.SetCommandedHeading(s.Plan.Commands.Heading)
	s.SetCommandedSpeed(s.Plan.Commands.Speed)
	s.SetLoiter(s.Plan.Commands.LoiterSeconds)
	s.SetLoiter(-5)

	if ev := sub.Get(); len(ev) != 0 {
		t.Errorf("got %d events, expected none", len(ev))
	}
	if s.CanUndo() {
		t.Errorf("no-op commands left undo history")
	}
}

func TestSessionRejectsWrongDimension(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()

	before := s.Plan.Commands.Speed
	s.SetCommandedSpeed(units.Quantity{Value: 100, Unit: units.Feet})
	if s.Plan.Commands.Speed != before {
		t.Errorf("speed changed to %v by a length quantity", s.Plan.Commands.Speed)
	}

	before = s.Plan.Commands.Altitude
	s.SetCommandedAltitude(units.Quantity{Value: 100, Unit: units.Knots})
	if s.Plan.Commands.Altitude != before {
		t.Errorf("altitude changed to %v by a speed quantity", s.Plan.Commands.Altitude)
	}
}

func TestSessionConvertsOldValue(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()
	sub := s.EventStream.Subscribe()

	s.SetCommandedSpeed(units.Quantity{Value: 100, Unit: units.Knots})
	s.SetCommandedSpeed(units.Quantity{Value: 200, Unit: units.KilometersPerHour})

	ev := sub.Get()
	if len(ev) != 2 {
		t.Fatalf("got %d events, expected 2", len(ev))
	}
	// The old value should be reported in the new unit: 100 kts = 185.2 km/h.
	if d := gomath.Abs(ev[1].OldValue - 185.2); d > 1e-9 {
		t.Errorf("old value %v km/h, expected 185.2", ev[1].OldValue)
	}
}

func TestSessionUndoRedo(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()

	if s.Undo() || s.Redo() {
		t.Errorf("undo/redo succeeded with empty history")
	}

	plan := s.Plan
	s.SetCommandedHeading(90)
	s.SetCommandedHeading(180)

	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if plan.Commands.Heading != 90 {
		t.Errorf("after undo heading %v, expected 90", plan.Commands.Heading)
	}
	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if plan.Commands.Heading != 0 {
		t.Errorf("after undo heading %v, expected 0", plan.Commands.Heading)
	}
	if !s.Redo() {
		t.Fatalf("redo failed")
	}
	if plan.Commands.Heading != 90 {
		t.Errorf("after redo heading %v, expected 90", plan.Commands.Heading)
	}

	// The plan pointer must be stable across undo and redo.
	if s.Plan != plan {
		t.Errorf("plan pointer changed across undo/redo")
	}
}

func TestSessionAddWaypoint(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()
	sub := s.EventStream.Subscribe()

	s.AddWaypoint(math.Point2LL{-122.05, 37.41})
	s.AddWaypoint(math.Point2LL{-122.06, 37.42})

	n := len(s.Plan.Waypoints)
	if n != 6 {
		t.Fatalf("got %d waypoints, expected 6", n)
	}
	if name := s.Plan.Waypoints[4].Name; name != "WP5" {
		t.Errorf("got waypoint name %q, expected WP5", name)
	}
	if name := s.Plan.Waypoints[5].Name; name != "WP6" {
		t.Errorf("got waypoint name %q, expected WP6", name)
	}

	ev := sub.Get()
	if len(ev) != 2 || ev[0].Type != PointPickedEvent {
		t.Errorf("got events %v, expected two PointPickedEvents", ev)
	}

	if !s.Undo() {
		t.Fatalf("undo failed")
	}
	if len(s.Plan.Waypoints) != 5 {
		t.Errorf("after undo got %d waypoints, expected 5", len(s.Plan.Waypoints))
	}
}

func TestSessionCommandLog(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()

	s.SetCommandedHeading(45)
	s.SetLoiter(60)
	s.PostStatus("not a command")
	s.Update()

	if n := s.CommandLog.Len(); n != 2 {
		t.Errorf("command log has %d records, expected 2", n)
	}
}

func TestSessionReplacePlan(t *testing.T) {
	s := NewSession(DefaultPlan(), nil)
	defer s.Destroy()

	plan := s.Plan
	s.SetCommandedHeading(90)

	loaded := DefaultPlan()
	loaded.Name = "ridge survey"
	loaded.Commands.Heading = 315
	s.ReplacePlan(loaded)

	if s.Plan != plan {
		t.Errorf("plan pointer changed across ReplacePlan")
	}
	if plan.Name != "ridge survey" || plan.Commands.Heading != 315 {
		t.Errorf("got plan %q heading %v after replace", plan.Name, plan.Commands.Heading)
	}
	if s.CanUndo() {
		t.Errorf("undo history survived plan replacement")
	}
}
