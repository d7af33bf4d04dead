// controls/controller.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	gomath "math"
	"strconv"
	"strings"

	"github.com/avdeck/skydeck/math"
)

// MouseCapturer is the slice of the platform layer the controller needs:
// exclusive routing of mouse events to one control for the duration of a
// drag, even when the pointer leaves the control's bounds.
// platform.Platform satisfies it.
type MouseCapturer interface {
	StartCaptureMouse(e math.Extent2D)
	EndCaptureMouse()
}

// Key identifies the discrete keyboard inputs a dial responds to. The
// hosting pane translates from its input layer; anything it can't
// translate maps to KeyNone and is ignored.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// Input carries the caller-owned state the controller reads when
// interpreting one event. It is passed by value and never retained; the
// controller holds no authoritative value of its own.
type Input struct {
	Value    float64
	Arc      Arc
	Step     float64
	Disabled bool
}

// Controller translates pointer drags, wheel motion, key presses, and
// typed-in text into committed value changes for a single dial,
// reporting each through OnCommit. Every event produces at most one
// commit, synchronously, and committed values are always finite and
// within the arc's range. The only state is the live-drag flag and the
// button that started it, reset on pointer-up or Cancel.
type Controller struct {
	OnCommit func(float64)

	dragging bool
	button   int
	capture  MouseCapturer
}

// Dragging reports whether a pointer drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// PointerDown starts a drag from a press at offset (dx, dy) from the
// dial center, y up. The press position resolves to a value immediately;
// there is no threshold before the dial starts following the pointer.
// capture, if non-nil, is told to route subsequent mouse events within
// bounds to this control until PointerUp.
func (c *Controller) PointerDown(in Input, offset [2]float32, button int, bounds math.Extent2D, capture MouseCapturer) {
	if in.Disabled || c.dragging {
		return
	}

	c.dragging = true
	c.button = button
	c.capture = capture
	if capture != nil {
		capture.StartCaptureMouse(bounds)
	}
	c.emit(in.Arc.ValueOfAngle(pointerAngle(offset), in.Step))
}

// PointerMove emits the value under the pointer while a drag started by
// the same button is live; moves from any other button, or with no drag
// active, do nothing.
func (c *Controller) PointerMove(in Input, offset [2]float32, button int) {
	if in.Disabled || !c.dragging || button != c.button {
		return
	}
	c.emit(in.Arc.ValueOfAngle(pointerAngle(offset), in.Step))
}

// PointerUp ends the drag begun by button. The last value emitted from a
// move is the committed one; release itself emits nothing. The drag ends
// even if the control was disabled mid-gesture, so capture is never
// stranded.
func (c *Controller) PointerUp(button int) {
	if !c.dragging || button != c.button {
		return
	}
	c.endDrag()
}

// Cancel abandons a live drag without emitting, for control teardown.
func (c *Controller) Cancel() {
	if c.dragging {
		c.endDrag()
	}
}

func (c *Controller) endDrag() {
	c.dragging = false
	if c.capture != nil {
		c.capture.EndCaptureMouse()
		c.capture = nil
	}
}

// Wheel applies scroll input: one step per notch, the coarse step with
// shift held, clamped to the arc's range.
func (c *Controller) Wheel(in Input, notches float64, shift bool) {
	if in.Disabled || notches == 0 {
		return
	}
	v := in.Value + notches*incrementStep(in.Step, shift)
	c.emit(math.Clamp(RoundToStep(v, in.Step), in.Arc.Min, in.Arc.Max))
}

// HandleKey applies one key press while the dial holds keyboard focus.
// Up and Right step the value up, Down and Left step it down (coarse
// with shift), and Home and End jump to the ends of the range.
// Unrecognized keys do nothing at all.
func (c *Controller) HandleKey(in Input, key Key, shift bool) {
	if in.Disabled {
		return
	}

	var v float64
	switch key {
	case KeyUp, KeyRight:
		v = in.Value + incrementStep(in.Step, shift)
	case KeyDown, KeyLeft:
		v = in.Value - incrementStep(in.Step, shift)
	case KeyHome:
		v = in.Arc.Min
	case KeyEnd:
		v = in.Arc.Max
	default:
		return
	}
	c.emit(math.Clamp(RoundToStep(v, in.Step), in.Arc.Min, in.Arc.Max))
}

// Entry commits a typed-in value, rounded and clamped like any other
// input. It reports whether the text parsed; on failure nothing is
// emitted and the caller keeps its prior value.
func (c *Controller) Entry(in Input, text string) bool {
	if in.Disabled {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
		return false
	}
	c.emit(math.Clamp(RoundToStep(v, in.Step), in.Arc.Min, in.Arc.Max))
	return true
}

func (c *Controller) emit(v float64) {
	// The clamps upstream keep v in range; this is the final guarantee
	// that a caller never sees a non-finite value.
	if c.OnCommit != nil && !gomath.IsNaN(v) && !gomath.IsInf(v, 0) {
		c.OnCommit(v)
	}
}

// pointerAngle is the raw two-argument atan2 of the pointer offset from
// the dial center, y up: zero at twelve o'clock, positive clockwise.
// The result is intentionally not re-normalized into the arc's span;
// ValueOfAngle's interpolant clamp decides which end of the arc an
// out-of-sweep angle lands on, and renormalizing here would change that
// resolution for arcs that cross the atan2 cut.
func pointerAngle(offset [2]float32) float64 {
	return gomath.Atan2(float64(offset[0]), float64(offset[1]))
}

// incrementStep is the per-notch, per-keypress increment: the dial's
// step, or the coarse variant when shift is held.
func incrementStep(step float64, shift bool) float64 {
	if shift {
		return gomath.Max(step*10, step)
	}
	return step
}
