// mission/history_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import "testing"

func TestHistoryUndoRedo(t *testing.T) {
	var h History
	if h.CanUndo() || h.CanRedo() {
		t.Errorf("fresh history claims undo/redo is available")
	}
	if h.Undo(DefaultPlan()) != nil || h.Redo(DefaultPlan()) != nil {
		t.Errorf("empty history returned a plan")
	}

	p := DefaultPlan()
	h.Push(p) // before first edit
	p.Commands.Heading = 90
	h.Push(p) // before second edit
	p.Commands.Heading = 180

	prev := h.Undo(p)
	if prev == nil || prev.Commands.Heading != 90 {
		t.Fatalf("first undo gave %+v, expected heading 90", prev)
	}
	p = prev

	prev = h.Undo(p)
	if prev == nil || prev.Commands.Heading != 0 {
		t.Fatalf("second undo gave %+v, expected heading 0", prev)
	}
	p = prev

	if h.CanUndo() {
		t.Errorf("undo still available after unwinding everything")
	}

	next := h.Redo(p)
	if next == nil || next.Commands.Heading != 90 {
		t.Fatalf("redo gave %+v, expected heading 90", next)
	}
	next = h.Redo(next)
	if next == nil || next.Commands.Heading != 180 {
		t.Fatalf("second redo gave %+v, expected heading 180", next)
	}
	if h.CanRedo() {
		t.Errorf("redo still available at the newest state")
	}
}

func TestHistorySnapshotsIsolated(t *testing.T) {
	p := DefaultPlan()

	var h History
	h.Push(p)

	// Mutating the live plan, including via interior pointers, must not
	// touch the snapshot.
	p.Commands.Heading = 270
	p.Waypoints[0].Name = "MANGLED"
	p.Waypoints = append(p.Waypoints, Waypoint{Name: "EXTRA"})

	prev := h.Undo(p)
	if prev.Commands.Heading != 0 {
		t.Errorf("snapshot heading %v, expected 0", prev.Commands.Heading)
	}
	if prev.Waypoints[0].Name != "ALPHA" {
		t.Errorf("snapshot waypoint %q, expected ALPHA", prev.Waypoints[0].Name)
	}
	if len(prev.Waypoints) != 4 {
		t.Errorf("snapshot has %d waypoints, expected 4", len(prev.Waypoints))
	}
}

func TestHistoryPushInvalidatesRedo(t *testing.T) {
	p := DefaultPlan()

	var h History
	h.Push(p)
	p.Commands.Heading = 90

	p = h.Undo(p)
	if !h.CanRedo() {
		t.Fatalf("no redo after undo")
	}

	// A fresh edit branches away; the redo state is gone.
	h.Push(p)
	if h.CanRedo() {
		t.Errorf("redo survived a new edit")
	}
}

func TestHistoryBounded(t *testing.T) {
	p := DefaultPlan()

	var h History
	for i := 0; i < 3*historyLimit; i++ {
		p.Commands.LoiterSeconds = i
		h.Push(p)
	}
	if len(h.undo) != historyLimit {
		t.Errorf("history holds %d states, expected %d", len(h.undo), historyLimit)
	}

	// The oldest retained state is the push from 2*historyLimit.
	if s := h.undo[0].Commands.LoiterSeconds; s != 2*historyLimit {
		t.Errorf("oldest snapshot has loiter %d, expected %d", s, 2*historyLimit)
	}
}

func TestHistoryClear(t *testing.T) {
	p := DefaultPlan()

	var h History
	h.Push(p)
	h.Undo(p)
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Errorf("history not empty after Clear")
	}
}
