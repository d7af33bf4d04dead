// mission/plan.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mission holds the document the ground station edits: the
// flight plan with its route and commanded targets, the event stream
// that carries changes between the panes, the undo history, and the
// command log.
package mission

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"
	"github.com/avdeck/skydeck/util"
)

// Waypoint is one named position on the planned route.
type Waypoint struct {
	Name     string        `json:"name"`
	Location math.Point2LL `json:"location"`
}

// Commands holds the operator-commanded targets for the vehicle. These
// are what the instrument panel edits; they are not telemetry.
type Commands struct {
	Heading       float64        `json:"heading"` // degrees true, [0, 360)
	Speed         units.Quantity `json:"speed"`
	Altitude      units.Quantity `json:"altitude"`
	LoiterSeconds int            `json:"loiter_seconds"`
}

// Plan is the mission document: identification, the route, the geofence,
// and the commanded targets. It is owned by the UI thread; the event
// stream carries notifications of changes to it.
type Plan struct {
	Name      string          `json:"name"`
	Vehicle   string          `json:"vehicle"`
	Home      math.Point2LL   `json:"home"`
	Waypoints []Waypoint      `json:"waypoints"`
	Geofence  []math.Point2LL `json:"geofence,omitempty"`
	Commands  Commands        `json:"commands"`
}

// DefaultPlan returns the plan used when none has been loaded: a small
// survey box so that the panel and map have something sensible to show.
func DefaultPlan() *Plan {
	return &Plan{
		Name:    "survey box",
		Vehicle: "SD-1",
		Home:    math.Point2LL{-122.0486, 37.4137},
		Waypoints: []Waypoint{
			{Name: "ALPHA", Location: math.Point2LL{-122.0630, 37.4220}},
			{Name: "BRAVO", Location: math.Point2LL{-122.0370, 37.4220}},
			{Name: "CHARLIE", Location: math.Point2LL{-122.0370, 37.4050}},
			{Name: "DELTA", Location: math.Point2LL{-122.0630, 37.4050}},
		},
		Geofence: []math.Point2LL{
			{-122.0700, 37.4280},
			{-122.0300, 37.4280},
			{-122.0300, 37.3990},
			{-122.0700, 37.3990},
		},
		Commands: Commands{
			Heading:       0,
			Speed:         units.Quantity{Value: 45, Unit: units.Knots},
			Altitude:      units.Quantity{Value: 500, Unit: units.Feet},
			LoiterSeconds: 120,
		},
	}
}

// LoadPlan reads a plan from a JSON file and validates it; validation
// issues are accumulated in e.
func LoadPlan(path string, e *util.ErrorLogger) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadPlanBytes(b, e)
}

func loadPlanBytes(b []byte, e *util.ErrorLogger) (*Plan, error) {
	util.CheckJSON[Plan](b, e)
	for _, dup := range util.FindDuplicateJSONKeys(b) {
		if dup.Path != "" {
			e.Push(dup.Path)
		}
		e.ErrorString("%s: duplicate JSON key", dup.Key)
		if dup.Path != "" {
			e.Pop()
		}
	}

	var p Plan
	if err := util.UnmarshalJSONBytes(b, &p); err != nil {
		return nil, err
	}

	p.PostDeserialize(e)
	return &p, nil
}

// Save writes the plan as indented JSON, the same format LoadPlan reads.
func (p *Plan) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	return enc.Encode(p)
}

// PostDeserialize checks the plan's internal consistency after it has
// been read from disk.
func (p *Plan) PostDeserialize(e *util.ErrorLogger) {
	e.Push("plan " + p.Name)
	defer e.Pop()

	if p.Name == "" {
		e.ErrorString("plan has no name")
	}
	if p.Commands.Heading < 0 || p.Commands.Heading >= 360 {
		e.ErrorString("commanded heading %v outside [0, 360)", p.Commands.Heading)
	}
	checkQuantity := func(q units.Quantity, what string, dim units.Dimension) {
		if d, ok := q.Unit.Dimension(); !ok {
			e.ErrorString("%s: unknown %s unit", q.Unit, what)
		} else if d != dim {
			e.ErrorString("%s: not a %s unit", q.Unit, dim)
		}
	}
	checkQuantity(p.Commands.Speed, "speed", units.Speed)
	checkQuantity(p.Commands.Altitude, "altitude", units.Length)
	if p.Commands.LoiterSeconds < 0 {
		e.ErrorString("negative loiter duration %d", p.Commands.LoiterSeconds)
	}

	seen := make(map[string]interface{})
	for _, wp := range p.Waypoints {
		e.Push("waypoint " + wp.Name)
		if wp.Name == "" {
			e.ErrorString("waypoint has no name")
		}
		if _, ok := seen[wp.Name]; ok {
			e.ErrorString("multiple waypoints with the same name")
		}
		seen[wp.Name] = nil
		if wp.Location.IsZero() {
			e.ErrorString("waypoint location is unset")
		}
		e.Pop()
	}

	if n := len(p.Geofence); n > 0 && n < 3 {
		e.ErrorString("geofence has %d vertices; at least 3 are needed", n)
	}
}

// Extent returns the lat-long bounding box of everything in the plan,
// for the map's initial framing.
func (p *Plan) Extent() math.Extent2D {
	ext := math.Extent2DFromPoints([][2]float32{p.Home})
	for _, wp := range p.Waypoints {
		ext = math.Union(ext, wp.Location)
	}
	for _, v := range p.Geofence {
		ext = math.Union(ext, v)
	}
	return ext
}

// WaypointIndex returns the index of the named waypoint, or -1.
func (p *Plan) WaypointIndex(name string) int {
	return slices.IndexFunc(p.Waypoints, func(wp Waypoint) bool { return wp.Name == name })
}

// WaypointNear returns the index of the waypoint within dist nautical
// miles of pos, or -1 if there is none.
func (p *Plan) WaypointNear(pos math.Point2LL, dist float32) int {
	closest, closestDist := -1, dist
	for i, wp := range p.Waypoints {
		if d := math.NMDistance2LL(pos, wp.Location); d <= closestDist {
			closest, closestDist = i, d
		}
	}
	return closest
}

const autosavePath = "autosave/plan.msgpack"

// Autosave stores the plan in the user's cache directory so that an
// unclean exit doesn't lose edits.
func (p *Plan) Autosave(lg *log.Logger) {
	if err := util.CacheStoreObject(autosavePath, p); err != nil {
		lg.Errorf("autosave: %v", err)
	}
}

// RestoreAutosave returns the most recently autosaved plan and when it
// was written.
func RestoreAutosave() (*Plan, time.Time, error) {
	var p Plan
	tm, err := util.CacheRetrieveObject(autosavePath, &p)
	if err != nil {
		return nil, time.Time{}, err
	}

	var e util.ErrorLogger
	p.PostDeserialize(&e)
	if e.HaveErrors() {
		return nil, time.Time{}, fmt.Errorf("autosaved plan failed validation:\n%s", e.String())
	}
	return &p, tm, nil
}
