// panes/panel/dial.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panel

import (
	"strings"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
)

// dialSpec is everything instrument-specific about one dial for one
// frame: the controller input, what to draw, and where committed values
// go. The pane rebuilds it each frame from the plan; dialWidget itself
// stays generic.
type dialSpec struct {
	label string
	in    controls.Input
	// format renders the readout for a value in the dial's value space;
	// during a drag it is called with the provisional value so the text
	// follows the pointer.
	format func(v float64) string

	ticks    []controls.Tick
	tickText func(v float64) string // nil: unlabeled ticks
	// angleOf gives the dial angle for a tick value; the heading dial
	// overrides it to route values through its wrap-aware mapping.
	angleOf   func(v float64) float64
	cardinals bool // draw N/E/S/W letters inside the card

	// commit takes a final value in the dial's value space.
	commit func(v float64)
	// adjust, if set, replaces the controller's clamped stepping for
	// wheel notches and arrow keys. The heading dial uses it to wrap
	// through north instead of stopping at the arc ends; since such a
	// dial has no end stops, Home and End are ignored along with it.
	adjust func(steps float64, coarse bool)
	// entry parses direct-entry text, overriding the controller's default
	// parse-round-clamp path. Returns false if the text doesn't parse.
	entry func(text string) bool
}

// dialWidget holds the per-instrument interaction state that persists
// across frames: the drag state machine, the pending direct-entry text,
// and the provisional value while a drag is live.
type dialWidget struct {
	ctrl       controls.Controller
	entryText  string
	preview    float64
	hasPreview bool
}

// value returns what the needle and readout should show: the live drag
// preview if one is in progress, otherwise the committed value.
func (dw *dialWidget) value(spec dialSpec) float64 {
	if dw.hasPreview {
		return dw.preview
	}
	return spec.in.Value
}

// reset abandons any gesture or entry in progress, for when the plan
// changes out from under the dial.
func (dw *dialWidget) reset() {
	dw.ctrl.Cancel()
	dw.entryText = ""
	dw.hasPreview = false
}

// processMouse runs one frame of pointer input against the dial. A drag
// emits provisional values; the commit happens once, on release, so a
// gesture is a single undo step. Wheel notches commit immediately.
func (dw *dialWidget) processMouse(ctx *panes.Context, spec dialSpec, center [2]float32, radius float32) (selected bool) {
	dw.bindCommit(spec)

	mouse := ctx.Mouse
	if mouse == nil {
		// The mouse went to another pane mid-gesture; abandon the drag
		// rather than leaving capture stranded.
		if dw.ctrl.Dragging() {
			dw.ctrl.Cancel()
			dw.hasPreview = false
		}
		return
	}

	offset := math.Sub2f(mouse.Pos, center)

	if mouse.Wheel[1] != 0 && math.Length2f(offset) <= 1.2*radius {
		// Wheel y is flipped into pane coordinates; scrolling up
		// increases the value.
		notches := float64(-mouse.Wheel[1])
		if spec.adjust != nil {
			if !spec.in.Disabled {
				spec.adjust(notches, shiftHeld(ctx))
			}
		} else {
			dw.ctrl.Wheel(spec.in, notches, shiftHeld(ctx))
		}
	}

	button := int(platform.MouseButtonPrimary)
	if mouse.Clicked[platform.MouseButtonPrimary] && math.Length2f(offset) <= 1.1*radius {
		selected = true
		dw.ctrl.PointerDown(spec.in, offset, button, dialCaptureBounds(ctx, center, radius), capturer(ctx))
	} else if dw.ctrl.Dragging() {
		if mouse.Down[platform.MouseButtonPrimary] {
			dw.ctrl.PointerMove(spec.in, offset, button)
		}
		if mouse.Released[platform.MouseButtonPrimary] {
			dw.ctrl.PointerUp(button)
		}
	}

	dw.finishGesture(spec)
	return
}

// processKeys runs one frame of keyboard input; the caller only calls it
// for the selected instrument. Steps and jumps commit immediately;
// typed digits accumulate into the entry buffer until enter.
func (dw *dialWidget) processKeys(ctx *panes.Context, spec dialSpec) {
	keyboard := ctx.Keyboard
	if keyboard == nil {
		return
	}
	dw.bindCommit(spec)

	if !spec.in.Disabled {
		for _, ch := range keyboard.Input {
			if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' {
				dw.entryText += string(ch)
			}
		}
	}

	if key := translateKey(keyboard); key != controls.KeyNone && dw.entryText == "" {
		if spec.adjust != nil {
			if !spec.in.Disabled {
				switch key {
				case controls.KeyUp, controls.KeyRight:
					spec.adjust(1, shiftHeld(ctx))
				case controls.KeyDown, controls.KeyLeft:
					spec.adjust(-1, shiftHeld(ctx))
				}
			}
		} else {
			dw.ctrl.HandleKey(spec.in, key, shiftHeld(ctx))
		}
	}

	if keyboard.WasPressed(imgui.KeyBackspace) && dw.entryText != "" {
		dw.entryText = dw.entryText[:len(dw.entryText)-1]
	}
	if keyboard.WasPressed(imgui.KeyEscape) {
		dw.entryText = ""
	}
	if keyboard.WasPressed(imgui.KeyEnter) && dw.entryText != "" {
		text := dw.entryText
		dw.entryText = ""
		if !spec.in.Disabled {
			parse := dw.ctrl.Entry
			if spec.entry != nil {
				parse = func(_ controls.Input, s string) bool { return spec.entry(s) }
			}
			if !parse(spec.in, text) && ctx.Mission != nil {
				ctx.Mission.PostStatus("%s: %q is not a number", strings.ToLower(spec.label), text)
			}
		}
	}

	dw.finishGesture(spec)
}

// bindCommit points the controller's callback at this frame's spec:
// emissions during a drag are held as a preview, anything else (wheel,
// keys, entry) commits on the spot.
func (dw *dialWidget) bindCommit(spec dialSpec) {
	dw.ctrl.OnCommit = func(v float64) {
		if dw.ctrl.Dragging() {
			dw.preview = v
			dw.hasPreview = true
		} else {
			spec.commit(v)
		}
	}
}

// finishGesture commits the drag preview once the drag has ended.
func (dw *dialWidget) finishGesture(spec dialSpec) {
	if !dw.ctrl.Dragging() && dw.hasPreview {
		v := dw.preview
		dw.hasPreview = false
		spec.commit(v)
	}
}

func shiftHeld(ctx *panes.Context) bool {
	return ctx.Keyboard != nil && ctx.Keyboard.KeyShift()
}

func translateKey(keyboard *platform.KeyboardState) controls.Key {
	switch {
	case keyboard.WasPressed(imgui.KeyUpArrow):
		return controls.KeyUp
	case keyboard.WasPressed(imgui.KeyDownArrow):
		return controls.KeyDown
	case keyboard.WasPressed(imgui.KeyLeftArrow):
		return controls.KeyLeft
	case keyboard.WasPressed(imgui.KeyRightArrow):
		return controls.KeyRight
	case keyboard.WasPressed(imgui.KeyHome):
		return controls.KeyHome
	case keyboard.WasPressed(imgui.KeyEnd):
		return controls.KeyEnd
	default:
		return controls.KeyNone
	}
}

// capturer returns the platform as a MouseCapturer, or nil if the
// context has no platform.
func capturer(ctx *panes.Context) controls.MouseCapturer {
	if ctx.Platform == nil {
		return nil
	}
	return ctx.Platform
}

// dialCaptureBounds is the dial's bounding square in window cursor
// coordinates, for clamping the pointer during a drag.
func dialCaptureBounds(ctx *panes.Context, center [2]float32, radius float32) math.Extent2D {
	p0 := ctx.PaneToWindow(math.Add2f(center, [2]float32{-radius, -radius}))
	p1 := ctx.PaneToWindow(math.Add2f(center, [2]float32{radius, radius}))
	return math.Extent2DFromPoints([][2]float32{p0, p1})
}

const dialSegments = 64

// draw renders the dial face: arc band, graduations, needle, and the
// value readout (or the entry buffer while one is being typed).
func (dw *dialWidget) draw(ctx *panes.Context, spec dialSpec, center [2]float32, radius float32,
	selected bool, valueFont, labelFont *renderer.Font,
	ld *renderer.ColoredLinesDrawBuilder, trid *renderer.ColoredTrianglesDrawBuilder,
	td *renderer.TextDrawBuilder) {
	scale := func(c renderer.RGB) renderer.RGB {
		if spec.in.Disabled {
			return c.Scale(0.5)
		}
		return c
	}

	arc := spec.in.Arc
	a0, a1 := float32(arc.Start), float32(arc.End)
	trid.AddArcBand(center, 0.92*radius, radius, a0, a1, dialSegments, scale(panes.UIControlColor))

	angleOf := spec.angleOf
	if angleOf == nil {
		angleOf = arc.AngleOfValue
	}

	tickColor := scale(panes.UITextColor)
	for _, tick := range spec.ticks {
		a := float32(angleOf(tick.Value))
		dir := [2]float32{math.Sin(a), math.Cos(a)}

		inner := 0.86 * radius
		if tick.Major {
			inner = 0.8 * radius
		}
		ld.AddLine(math.Add2f(center, math.Scale2f(dir, inner)),
			math.Add2f(center, math.Scale2f(dir, 0.92*radius)), tickColor)

		if tick.Major && spec.tickText != nil {
			if s := spec.tickText(tick.Value); s != "" {
				p := math.Add2f(center, math.Scale2f(dir, 0.7*radius))
				td.AddTextCentered(s, p, renderer.TextStyle{Font: labelFont, Color: tickColor})
			}
		}
	}

	if spec.cardinals {
		for i, s := range [...]string{"N", "E", "S", "W"} {
			a := float32(angleOf(float64(90 * i)))
			dir := [2]float32{math.Sin(a), math.Cos(a)}
			p := math.Add2f(center, math.Scale2f(dir, 0.7*radius))
			td.AddTextCentered(s, p, renderer.TextStyle{Font: valueFont, Color: scale(panes.UITextHighlightColor)})
		}
	}

	// Needle: a thin triangle from near the hub to the band, plus a hub
	// dot.
	na := float32(arc.AngleOfValue(dw.value(spec)))
	dir := [2]float32{math.Sin(na), math.Cos(na)}
	perp := math.Scale2f([2]float32{dir[1], -dir[0]}, 2*ctx.DrawPixelScale)
	tip := math.Add2f(center, math.Scale2f(dir, 0.78*radius))
	base := math.Add2f(center, math.Scale2f(dir, 0.2*radius))
	needleColor := scale(panes.UITextHighlightColor)
	trid.AddTriangle(tip, math.Add2f(base, perp), math.Sub2f(base, perp), needleColor)
	trid.AddCircle(center, 3*ctx.DrawPixelScale, 16, needleColor)

	if selected && !spec.in.Disabled {
		ld.AddCircle(center, radius+3*ctx.DrawPixelScale, dialSegments, panes.UITextHighlightColor)
	}

	// The readout sits in the gap for partial arcs and below the hub for
	// the full-circle card.
	readout := math.Add2f(center, [2]float32{0, -0.45 * radius})
	if spec.cardinals {
		readout = math.Add2f(center, [2]float32{0, -0.35 * radius})
	}
	if dw.entryText != "" {
		td.AddTextCentered(dw.entryText+"_", readout,
			renderer.TextStyle{Font: valueFont, Color: panes.UITextHighlightColor})
	} else {
		td.AddTextCentered(spec.format(dw.value(spec)), readout,
			renderer.TextStyle{Font: valueFont, Color: scale(panes.UITextColor)})
	}

	label := math.Add2f(center, [2]float32{0, radius + 8*ctx.DrawPixelScale})
	labelColor := scale(panes.UITextColor)
	if selected {
		labelColor = panes.UITextHighlightColor
	}
	td.AddTextCentered(spec.label, label, renderer.TextStyle{Font: labelFont, Color: labelColor})
}
