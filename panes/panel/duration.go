// panes/panel/duration.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panel

import (
	"fmt"
	gomath "math"
	"strconv"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"

	"github.com/AllenDang/cimgui-go/imgui"
)

// durationWidget edits the loiter duration as hour, minute, and second
// segments laid out in a horizontal strip. Unlike the dials its
// adjustments commit immediately; there is no drag gesture to batch.
type durationWidget struct {
	seg       controls.DurationSegment
	entryText string
}

func (dw *durationWidget) reset() {
	dw.entryText = ""
}

// segmentRegion is the part of the strip holding the three numeric
// segments; the rest is the instrument label.
func segmentRegion(bounds math.Extent2D) math.Extent2D {
	return math.Extent2D{
		P0: [2]float32{bounds.P0[0] + 0.3*bounds.Width(), bounds.P0[1]},
		P1: bounds.P1,
	}
}

// segmentAt maps a pane position to the segment under it; the segment
// region splits into equal thirds for hours, minutes, and seconds.
func segmentAt(bounds math.Extent2D, p [2]float32) controls.DurationSegment {
	r := segmentRegion(bounds)
	t := (p[0] - r.P0[0]) / r.Width()
	switch {
	case t < 1.0/3:
		return controls.Hours
	case t < 2.0/3:
		return controls.Minutes
	default:
		return controls.Seconds
	}
}

// processMouse handles clicks and wheel motion over the strip. A click
// selects the segment under the pointer; wheel notches step it.
func (dw *durationWidget) processMouse(ctx *panes.Context, bounds math.Extent2D,
	model *controls.DurationModel, disabled bool, commit func()) (selected bool) {
	mouse := ctx.Mouse
	if mouse == nil || !bounds.Inside(mouse.Pos) {
		return
	}

	if mouse.Clicked[platform.MouseButtonPrimary] {
		selected = true
		dw.seg = segmentAt(bounds, mouse.Pos)
		dw.entryText = ""
	}

	if notches := int(gomath.Round(float64(-mouse.Wheel[1]))); notches != 0 && !disabled {
		model.Adjust(segmentAt(bounds, mouse.Pos), notches)
		commit()
	}
	return
}

// processKeys handles one frame of keyboard input while the strip is the
// selected instrument: arrows move between and step segments, digits
// accumulate into an entry that replaces the segment on enter.
func (dw *durationWidget) processKeys(ctx *panes.Context, model *controls.DurationModel,
	disabled bool, commit func()) {
	keyboard := ctx.Keyboard
	if keyboard == nil {
		return
	}

	if !disabled {
		for _, ch := range keyboard.Input {
			if ch >= '0' && ch <= '9' && len(dw.entryText) < 4 {
				dw.entryText += string(ch)
			}
		}
	}

	if keyboard.WasPressed(imgui.KeyLeftArrow) && dw.seg > controls.Hours {
		dw.seg--
		dw.entryText = ""
	}
	if keyboard.WasPressed(imgui.KeyRightArrow) && dw.seg < controls.Seconds {
		dw.seg++
		dw.entryText = ""
	}

	if !disabled && dw.entryText == "" {
		if keyboard.WasPressed(imgui.KeyUpArrow) {
			model.Adjust(dw.seg, 1)
			commit()
		}
		if keyboard.WasPressed(imgui.KeyDownArrow) {
			model.Adjust(dw.seg, -1)
			commit()
		}
	}

	if keyboard.WasPressed(imgui.KeyBackspace) && dw.entryText != "" {
		dw.entryText = dw.entryText[:len(dw.entryText)-1]
	}
	if keyboard.WasPressed(imgui.KeyEscape) {
		dw.entryText = ""
	}
	if keyboard.WasPressed(imgui.KeyEnter) && dw.entryText != "" {
		v, err := strconv.Atoi(dw.entryText)
		dw.entryText = ""
		if err == nil && !disabled {
			model.SetSegment(dw.seg, v)
			commit()
		}
	}
}

// draw renders the strip: the instrument label on the left and the three
// segments, with the selected segment highlighted while the strip is the
// active instrument.
func (dw *durationWidget) draw(ctx *panes.Context, bounds math.Extent2D,
	model *controls.DurationModel, selected, disabled bool,
	valueFont, labelFont *renderer.Font, ld *renderer.ColoredLinesDrawBuilder,
	td *renderer.TextDrawBuilder) {
	textColor := panes.UITextColor
	if disabled {
		textColor = textColor.Scale(0.5)
	}

	labelColor := textColor
	if selected {
		labelColor = panes.UITextHighlightColor
		ld.AddLineLoop(panes.UITextHighlightColor, [][2]float32{
			bounds.P0, {bounds.P1[0], bounds.P0[1]}, bounds.P1, {bounds.P0[0], bounds.P1[1]}})
	}
	td.AddText("LOITER", [2]float32{bounds.P0[0] + 4*ctx.DrawPixelScale,
		bounds.Center()[1] + float32(labelFont.Size)/2},
		renderer.TextStyle{Font: labelFont, Color: labelColor})

	region := segmentRegion(bounds)
	h, m, s := model.HMS()
	for i, text := range [...]string{fmt.Sprintf("%02d", h), fmt.Sprintf("%02d", m), fmt.Sprintf("%02d", s)} {
		seg := controls.DurationSegment(i)
		style := renderer.TextStyle{Font: valueFont, Color: textColor}
		if selected && seg == dw.seg {
			if dw.entryText != "" {
				text = dw.entryText + "_"
			}
			style.Color = renderer.RGB{}
			style.DrawBackground = true
			style.BackgroundColor = panes.UITextHighlightColor
		}

		x := region.P0[0] + region.Width()*(float32(i)+0.5)/3
		td.AddTextCentered(text, [2]float32{x, bounds.Center()[1]}, style)

		if i < 2 {
			xc := region.P0[0] + region.Width()*float32(i+1)/3
			td.AddTextCentered(":", [2]float32{xc, bounds.Center()[1]},
				renderer.TextStyle{Font: valueFont, Color: textColor})
		}
	}
}
