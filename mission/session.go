// mission/session.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"fmt"
	"log/slog"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"
)

// Session wraps the live plan with everything that has to happen around a
// mutation: snapshotting it for undo, posting the corresponding event, and
// recording commands in the command log. Panes never modify the plan
// directly; they go through Session methods so that those three stay in
// sync no matter where a change comes from.
type Session struct {
	// Plan is the current document. The pointer is stable for the life of
	// the session; Undo, Redo, and ReplacePlan overwrite its contents.
	Plan *Plan

	EventStream *EventStream
	CommandLog  *CommandLog

	history History
	events  *EventsSubscription
	lg      *log.Logger
}

func NewSession(plan *Plan, lg *log.Logger) *Session {
	es := NewEventStream(lg)
	return &Session{
		Plan:        plan,
		EventStream: es,
		CommandLog:  &CommandLog{},
		events:      es.Subscribe(),
		lg:          lg,
	}
}

// Update drains pending events into the command log; the main loop calls
// it once per frame.
func (s *Session) Update() {
	for _, e := range s.events.Get() {
		s.CommandLog.Append(e)
	}
}

func (s *Session) Destroy() {
	s.events.Unsubscribe()
	s.EventStream.Destroy()
}

// SetCommandedHeading updates the commanded heading, in degrees.
func (s *Session) SetCommandedHeading(deg float64) {
	old := s.Plan.Commands.Heading
	if deg == old {
		return
	}
	s.history.Push(s.Plan)
	s.Plan.Commands.Heading = deg
	s.EventStream.Post(Event{Type: CommandEvent, Control: "heading", OldValue: old, NewValue: deg})
}

// SetCommandedSpeed updates the commanded speed. The quantity's unit
// records which unit the operator was working in.
func (s *Session) SetCommandedSpeed(q units.Quantity) {
	s.setQuantity(&s.Plan.Commands.Speed, q, "speed", units.Speed)
}

// SetCommandedAltitude updates the commanded altitude.
func (s *Session) SetCommandedAltitude(q units.Quantity) {
	s.setQuantity(&s.Plan.Commands.Altitude, q, "altitude", units.Length)
}

func (s *Session) setQuantity(cur *units.Quantity, q units.Quantity, control string, dim units.Dimension) {
	if d, ok := q.Unit.Dimension(); !ok || d != dim {
		s.lg.Errorf("%s: not a %s unit", q.Unit, dim)
		return
	}
	if q == *cur {
		return
	}
	old := *cur
	s.history.Push(s.Plan)
	*cur = q

	// Report the old value in the new unit so the two are comparable in
	// the command log.
	oldValue := old.Value
	if conv, err := units.Convert(old, q.Unit); err == nil {
		oldValue = conv.Value
	}
	s.EventStream.Post(Event{Type: CommandEvent, Control: control,
		OldValue: oldValue, NewValue: q.Value, Unit: q.Unit})
}

// SetLoiter updates the loiter duration, in seconds.
func (s *Session) SetLoiter(seconds int) {
	old := s.Plan.Commands.LoiterSeconds
	if seconds < 0 || seconds == old {
		return
	}
	s.history.Push(s.Plan)
	s.Plan.Commands.LoiterSeconds = seconds
	s.EventStream.Post(Event{Type: CommandEvent, Control: "loiter",
		OldValue: float64(old), NewValue: float64(seconds)})
}

// AddWaypoint appends a picked point to the route, naming it WP<n> with
// the first n that is not already taken.
func (s *Session) AddWaypoint(loc math.Point2LL) {
	name := ""
	for n := len(s.Plan.Waypoints) + 1; ; n++ {
		name = fmt.Sprintf("WP%d", n)
		if s.Plan.WaypointIndex(name) == -1 {
			break
		}
	}

	s.history.Push(s.Plan)
	s.Plan.Waypoints = append(s.Plan.Waypoints, Waypoint{Name: name, Location: loc})
	s.EventStream.Post(Event{Type: PointPickedEvent, Control: name, Location: loc})
	s.lg.Info("added waypoint", slog.String("name", name), slog.Any("location", loc))
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo restores the plan to its state before the most recent change,
// returning false if there is nothing to undo.
func (s *Session) Undo() bool {
	p := s.history.Undo(s.Plan)
	if p == nil {
		return false
	}
	*s.Plan = *p
	s.EventStream.Post(Event{Type: PlanUpdatedEvent, WrittenText: "undo"})
	return true
}

// Redo reverses the most recent Undo.
func (s *Session) Redo() bool {
	p := s.history.Redo(s.Plan)
	if p == nil {
		return false
	}
	*s.Plan = *p
	s.EventStream.Post(Event{Type: PlanUpdatedEvent, WrittenText: "redo"})
	return true
}

// ReplacePlan installs a newly-loaded plan as the current document. The
// undo history does not cross documents, so it is cleared.
func (s *Session) ReplacePlan(p *Plan) {
	*s.Plan = *p
	s.history.Clear()
	s.EventStream.Post(Event{Type: PlanUpdatedEvent, WrittenText: "loaded " + p.Name})
}

// PostStatus reports a message for the status pane.
func (s *Session) PostStatus(format string, args ...interface{}) {
	s.EventStream.Post(Event{Type: StatusMessageEvent, WrittenText: fmt.Sprintf(format, args...)})
}
