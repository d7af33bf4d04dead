// mission/plan_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"
	"github.com/avdeck/skydeck/util"
)

func TestDefaultPlanValid(t *testing.T) {
	var e util.ErrorLogger
	DefaultPlan().PostDeserialize(&e)
	if e.HaveErrors() {
		t.Errorf("default plan failed validation:\n%s", e.String())
	}
}

func TestPlanSaveLoad(t *testing.T) {
	p := DefaultPlan()
	p.Commands.Heading = 135
	p.Commands.Speed = units.Quantity{Value: 80, Unit: units.Knots}

	path := filepath.Join(t.TempDir(), "plan.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var e util.ErrorLogger
	loaded, err := LoadPlan(path, &e)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if e.HaveErrors() {
		t.Fatalf("validation errors:\n%s", e.String())
	}

	if loaded.Name != p.Name || loaded.Vehicle != p.Vehicle {
		t.Errorf("got %q/%q, expected %q/%q", loaded.Name, loaded.Vehicle, p.Name, p.Vehicle)
	}
	if loaded.Commands != p.Commands {
		t.Errorf("commands %+v, expected %+v", loaded.Commands, p.Commands)
	}
	if len(loaded.Waypoints) != len(p.Waypoints) {
		t.Fatalf("got %d waypoints, expected %d", len(loaded.Waypoints), len(p.Waypoints))
	}
	for i := range p.Waypoints {
		if loaded.Waypoints[i] != p.Waypoints[i] {
			t.Errorf("waypoint %d: %+v, expected %+v", i, loaded.Waypoints[i], p.Waypoints[i])
		}
	}
}

func TestLoadPlanErrors(t *testing.T) {
	// Syntactically invalid JSON fails outright.
	var e util.ErrorLogger
	if _, err := loadPlanBytes([]byte(`{"name": `), &e); err == nil {
		t.Errorf("no error for malformed JSON")
	}

	// Structural problems are accumulated in the ErrorLogger.
	for _, bad := range []string{
		`{"name": ""}`, // missing name
		`{"name": "x", "commands": {"heading": 360}}`,
		`{"name": "x", "commands": {"heading": -1}}`,
		`{"name": "x", "commands": {"speed": {"value": 10, "unit": "furlongs"}}}`,
		`{"name": "x", "commands": {"altitude": {"value": 10, "unit": "kts"}}}`,
		`{"name": "x", "commands": {"loiter_seconds": -5}}`,
		`{"name": "x", "waypoints": [{"name": "", "location": [1, 2]}]}`,
		`{"name": "x", "waypoints": [{"name": "A", "location": [1, 2]}, {"name": "A", "location": [3, 4]}]}`,
		`{"name": "x", "geofence": [[0, 1], [2, 3]]}`,
		`{"name": "x", "speling": "mistake"}`, // unknown key
		`{"name": "x", "name": "y"}`,          // duplicate key
	} {
		var e util.ErrorLogger
		if _, err := loadPlanBytes([]byte(bad), &e); err != nil {
			t.Errorf("%s: unexpected hard failure %v", bad, err)
		} else if !e.HaveErrors() {
			t.Errorf("%s: no validation error", bad)
		}
	}
}

func TestLoadPlanUnitsValidated(t *testing.T) {
	// A valid speed unit on the altitude command (and vice versa) is a
	// dimension mismatch, not an unknown unit.
	var e util.ErrorLogger
	_, err := loadPlanBytes([]byte(`{"name": "x", "commands": {"altitude": {"value": 100, "unit": "kmh"}}}`), &e)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !e.HaveErrors() || !strings.Contains(e.String(), "not a length unit") {
		t.Errorf("expected a dimension error, got:\n%s", e.String())
	}
}

func TestPlanExtent(t *testing.T) {
	p := DefaultPlan()
	ext := p.Extent()

	check := func(pt math.Point2LL) {
		if !ext.Inside(pt) {
			t.Errorf("%v outside plan extent %v", pt, ext)
		}
	}
	check(p.Home)
	for _, wp := range p.Waypoints {
		check(wp.Location)
	}
	for _, v := range p.Geofence {
		check(v)
	}
}

func TestWaypointNear(t *testing.T) {
	p := DefaultPlan()

	// Right on top of the first waypoint.
	if idx := p.WaypointNear(p.Waypoints[0].Location, 0.1); idx != 0 {
		t.Errorf("got waypoint %d, expected 0", idx)
	}

	// Far from everything.
	if idx := p.WaypointNear(math.Point2LL{-80, 25}, 1); idx != -1 {
		t.Errorf("got waypoint %d, expected -1", idx)
	}

	// A big radius returns the closest, not just any.
	near := p.Waypoints[2].Location
	near[0] += 0.001
	if idx := p.WaypointNear(near, 100); idx != 2 {
		t.Errorf("got waypoint %d, expected 2", idx)
	}
}
