// mission/history.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mission

import (
	"github.com/brunoga/deep"
)

// historyLimit bounds how many undo states are retained; the oldest are
// dropped beyond it.
const historyLimit = 64

// History is a bounded undo/redo stack of plan snapshots. Push is called
// with the plan's state before each edit; snapshots are deep copies, so
// later mutation of the live plan never corrupts them.
type History struct {
	undo []*Plan
	redo []*Plan
}

// Push records the pre-edit state of the plan and invalidates any redo
// states, as a new edit branches away from them.
func (h *History) Push(p *Plan) {
	h.undo = append(h.undo, deep.MustCopy(p))
	if len(h.undo) > historyLimit {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo returns the plan as it was before the most recent edit, recording
// current so the step can be redone. It returns nil if there is nothing
// to undo.
func (h *History) Undo(current *Plan) *Plan {
	if len(h.undo) == 0 {
		return nil
	}

	h.redo = append(h.redo, deep.MustCopy(current))
	p := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return p
}

// Redo reverses the most recent Undo. It returns nil if there is nothing
// to redo.
func (h *History) Redo(current *Plan) *Plan {
	if len(h.redo) == 0 {
		return nil
	}

	h.undo = append(h.undo, deep.MustCopy(current))
	p := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return p
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops all recorded states, for when a new plan is loaded.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
