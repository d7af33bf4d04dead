// panes/status.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package panes

import (
	"encoding/json"
	"fmt"
	gomath "math"
	"slices"
	"strconv"
	"strings"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/units"

	"github.com/AllenDang/cimgui-go/imgui"
)

const messageLimit = 250

type Message struct {
	contents string
	system   bool
	error    bool
}

func (msg *Message) Color() renderer.RGB {
	switch {
	case msg.error:
		return renderer.RGB{R: .9, G: .1, B: .1}
	case msg.system:
		return renderer.RGB{R: 0.012, G: 0.78, B: 0.016}
	default:
		return renderer.RGB{R: 1, G: 1, B: 1}
	}
}

// CLIInput is the command under construction at the status pane's prompt.
type CLIInput struct {
	cmd    string
	cursor int
}

func (ci *CLIInput) InsertAtCursor(s string) {
	if len(s) == 0 {
		return
	}
	ci.cmd = ci.cmd[:ci.cursor] + s + ci.cmd[ci.cursor:]
	// place the cursor after the inserted text
	ci.cursor += len(s)
}

func (ci *CLIInput) DeleteBeforeCursor() {
	if ci.cursor > 0 {
		ci.cmd = ci.cmd[:ci.cursor-1] + ci.cmd[ci.cursor:]
		ci.cursor--
	}
}

func (ci *CLIInput) DeleteAfterCursor() {
	if ci.cursor < len(ci.cmd) {
		ci.cmd = ci.cmd[:ci.cursor] + ci.cmd[ci.cursor+1:]
	}
}

// EmitDrawCommands draws the prompt, the current command, and a block
// cursor at the insertion point.
func (ci *CLIInput) EmitDrawCommands(p [2]float32, style, cursorStyle renderer.TextStyle,
	td *renderer.TextDrawBuilder) {
	prompt := "> "
	if ci.cursor == len(ci.cmd) {
		// cursor at the end
		td.AddTextMulti([]string{prompt + ci.cmd, " "}, p,
			[]renderer.TextStyle{style, cursorStyle})
	} else {
		// cursor in the middle
		sb := prompt + ci.cmd[:ci.cursor]
		sc := ci.cmd[ci.cursor : ci.cursor+1]
		se := ci.cmd[ci.cursor+1:]
		td.AddTextMulti([]string{sb, sc, se}, p,
			[]renderer.TextStyle{style, cursorStyle, style})
	}
}

// StatusPane shows the scrollback of commands, picked points, and system
// messages, and provides a one-line prompt for keyboard commands: HDG,
// SPD, ALT, DUR, UNDO, and REDO.
type StatusPane struct {
	FontIdentifier renderer.FontIdentifier

	font      *renderer.Font
	scrollbar *ScrollBar
	events    *mission.EventsSubscription

	messages []Message

	input         CLIInput
	history       []CLIInput
	historyOffset int // counts from the end of history; 0 when not in history
	savedInput    CLIInput
	status        string
}

func init() {
	RegisterUnmarshalPane("StatusPane", func(d []byte) (Pane, error) {
		var sp StatusPane
		err := json.Unmarshal(d, &sp)
		return &sp, err
	})
}

func NewStatusPane() *StatusPane {
	return &StatusPane{
		FontIdentifier: renderer.FontIdentifier{Name: "Roboto Mono", Size: 16},
	}
}

func (sp *StatusPane) DisplayName() string { return "Status" }

func (sp *StatusPane) Hide() bool { return false }

func (sp *StatusPane) Activate(r renderer.Renderer, p platform.Platform, eventStream *mission.EventStream, lg *log.Logger) {
	if sp.font = renderer.GetFont(sp.FontIdentifier); sp.font == nil {
		sp.font = renderer.GetDefaultMonoFont()
		sp.FontIdentifier = sp.font.Id
	}
	if sp.scrollbar == nil {
		sp.scrollbar = NewVerticalScrollBar(4, true)
	}
	sp.events = eventStream.Subscribe()
}

func (sp *StatusPane) LoadedPlan(plan *mission.Plan, pl platform.Platform, lg *log.Logger) {
}

func (sp *StatusPane) CanTakeKeyboardFocus() bool { return true }

func (sp *StatusPane) DrawUI(p platform.Platform, config *platform.Config) {
	if newFont, changed := renderer.DrawFontPicker(&sp.FontIdentifier, "Font"); changed {
		sp.font = newFont
	}
}

func (sp *StatusPane) Draw(ctx *Context, cb *renderer.CommandBuffer) {
	sp.processEvents(ctx)

	if ctx.Mouse != nil && ctx.Mouse.Clicked[platform.MouseButtonPrimary] {
		ctx.KeyboardFocus.TakeTemporary(sp)
	}
	if ctx.HaveFocus && ctx.Keyboard != nil {
		sp.processKeyboard(ctx)
	}

	promptLines := 1
	if sp.status != "" {
		promptLines++
	}
	nLines := len(sp.messages) + promptLines
	lineHeight := float32(sp.font.Size + 1)
	visibleLines := int(ctx.PaneExtent.Height() / lineHeight)
	sp.scrollbar.Update(nLines, visibleLines, ctx)

	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	indent := float32(2)
	style := renderer.TextStyle{Font: sp.font, Color: UITextColor}
	cursorStyle := renderer.TextStyle{Font: sp.font, Color: renderer.RGB{},
		DrawBackground: true, BackgroundColor: UITextColor}

	sp.input.EmitDrawCommands([2]float32{indent, lineHeight}, style, cursorStyle, td)

	y := lineHeight * float32(promptLines)
	if sp.status != "" {
		td.AddText(sp.status, [2]float32{indent, y},
			renderer.TextStyle{Font: sp.font, Color: UICautionColor})
	}
	y += lineHeight

	scrollOffset := sp.scrollbar.Offset()
	for i := scrollOffset; i < min(len(sp.messages), visibleLines+scrollOffset+1); i++ {
		msg := sp.messages[len(sp.messages)-1-i]
		td.AddText(msg.contents, [2]float32{indent, y},
			renderer.TextStyle{Font: sp.font, Color: msg.Color()})
		y += lineHeight
	}

	ctx.SetWindowCoordinateMatrices(cb)
	if ctx.HaveFocus {
		// Yellow border around the edges
		ld := renderer.GetLinesDrawBuilder()
		defer renderer.ReturnLinesDrawBuilder(ld)

		w, h := ctx.PaneExtent.Width(), ctx.PaneExtent.Height()
		ld.AddLineLoop([][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}})
		cb.SetRGB(renderer.RGB{R: 1, G: 1, B: 0}) // yellow
		ld.GenerateCommands(cb)
	}
	sp.scrollbar.Draw(ctx, cb)
	td.GenerateCommands(cb)
}

func (sp *StatusPane) processEvents(ctx *Context) {
	for _, event := range sp.events.Get() {
		switch event.Type {
		case mission.CommandEvent:
			sp.post(Message{contents: formatCommand(event)})

		case mission.PointPickedEvent:
			sp.post(Message{contents: fmt.Sprintf("%s at %s", event.Control,
				event.Location.DDString())})

		case mission.PlanUpdatedEvent:
			sp.post(Message{contents: event.WrittenText, system: true})

		case mission.StatusMessageEvent:
			// Don't spam the same message repeatedly; look in the most recent 5.
			n := len(sp.messages)
			start := max(0, n-5)
			if !slices.ContainsFunc(sp.messages[start:],
				func(m Message) bool { return m.contents == event.WrittenText }) {
				sp.post(Message{contents: event.WrittenText, system: true})
			}
		}
	}
}

func formatCommand(e mission.Event) string {
	switch e.Control {
	case "heading":
		return fmt.Sprintf("heading %s -> %s", controls.FormatHeading(e.OldValue),
			controls.FormatHeading(e.NewValue))
	case "loiter":
		od := controls.DurationModel{Seconds: int(e.OldValue)}
		nd := controls.DurationModel{Seconds: int(e.NewValue)}
		return fmt.Sprintf("loiter %s -> %s", od.String(), nd.String())
	default:
		oldq := units.Quantity{Value: e.OldValue, Unit: e.Unit}
		newq := units.Quantity{Value: e.NewValue, Unit: e.Unit}
		return fmt.Sprintf("%s %s -> %s", e.Control, oldq, newq)
	}
}

func (sp *StatusPane) post(m Message) {
	sp.messages = append(sp.messages, m)
	if len(sp.messages) > messageLimit {
		copy(sp.messages, sp.messages[1:])
		sp.messages = sp.messages[:messageLimit]
	}
}

func (sp *StatusPane) postError(format string, args ...interface{}) {
	sp.post(Message{contents: fmt.Sprintf(format, args...), error: true})
}

func (sp *StatusPane) processKeyboard(ctx *Context) {
	keyboard := ctx.Keyboard

	sp.input.InsertAtCursor(keyboard.Input)

	// Paste from the clipboard with both control-v and command-v.
	if (keyboard.KeyControl() || keyboard.KeySuper()) && keyboard.WasPressed(imgui.KeyV) {
		sp.input.InsertAtCursor(ctx.Platform.GetClipboard().GetClipboard())
	}

	if keyboard.WasPressed(imgui.KeyUpArrow) {
		if sp.historyOffset == len(sp.history) {
			sp.status = "Reached end of history."
		} else {
			if sp.historyOffset == 0 {
				sp.savedInput = sp.input // save current input in case we return
			}
			sp.historyOffset++
			sp.input = sp.history[len(sp.history)-sp.historyOffset]
			sp.input.cursor = len(sp.input.cmd)
			sp.status = ""
		}
	}
	if keyboard.WasPressed(imgui.KeyDownArrow) {
		if sp.historyOffset == 0 {
			sp.status = "Reached end of history."
		} else {
			sp.historyOffset--
			if sp.historyOffset == 0 {
				sp.input = sp.savedInput
				sp.savedInput = CLIInput{}
			} else {
				sp.input = sp.history[len(sp.history)-sp.historyOffset]
			}
			sp.input.cursor = len(sp.input.cmd)
		}
	}

	if keyboard.WasPressed(imgui.KeyLeftArrow) && sp.input.cursor > 0 {
		sp.input.cursor--
	}
	if keyboard.WasPressed(imgui.KeyRightArrow) && sp.input.cursor < len(sp.input.cmd) {
		sp.input.cursor++
	}
	if keyboard.WasPressed(imgui.KeyHome) {
		sp.input.cursor = 0
	}
	if keyboard.WasPressed(imgui.KeyEnd) {
		sp.input.cursor = len(sp.input.cmd)
	}
	if keyboard.WasPressed(imgui.KeyBackspace) {
		sp.input.DeleteBeforeCursor()
	}
	if keyboard.WasPressed(imgui.KeyDelete) {
		sp.input.DeleteAfterCursor()
	}
	if keyboard.WasPressed(imgui.KeyEscape) {
		if len(sp.input.cmd) > 0 {
			sp.input = CLIInput{}
			sp.status = ""
		} else {
			ctx.KeyboardFocus.Release()
		}
	}

	if keyboard.WasPressed(imgui.KeyEnter) && strings.TrimSpace(sp.input.cmd) != "" {
		sp.runCommand(ctx, strings.TrimSpace(sp.input.cmd))
		sp.history = append(sp.history, sp.input)
		sp.input = CLIInput{}
		sp.historyOffset = 0
		sp.savedInput = CLIInput{}
	}
}

func (sp *StatusPane) runCommand(ctx *Context, cmd string) {
	sp.status = ""
	sp.post(Message{contents: "> " + cmd})

	f := strings.Fields(cmd)
	switch strings.ToUpper(f[0]) {
	case "HDG":
		if len(f) != 2 {
			sp.postError("usage: HDG <degrees>")
			return
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			sp.postError("%s: invalid heading", f[1])
			return
		}
		hm := controls.HeadingModel{Step: 5}
		ctx.Mission.SetCommandedHeading(hm.Normalize(v))

	case "SPD":
		sp.setQuantity(f, controls.NewSpeedModel(), ctx.Mission.Plan.Commands.Speed,
			ctx.Mission.SetCommandedSpeed)

	case "ALT":
		sp.setQuantity(f, controls.NewAltitudeModel(), ctx.Mission.Plan.Commands.Altitude,
			ctx.Mission.SetCommandedAltitude)

	case "DUR":
		if len(f) != 2 {
			sp.postError("usage: DUR <h:m:s or seconds>")
			return
		}
		sec, err := parseDuration(f[1])
		if err != nil {
			sp.postError("%v", err)
			return
		}
		ctx.Mission.SetLoiter(sec)

	case "UNDO":
		if !ctx.Mission.Undo() {
			sp.status = "Nothing to undo."
		}

	case "REDO":
		if !ctx.Mission.Redo() {
			sp.status = "Nothing to redo."
		}

	default:
		sp.postError("%s: unknown command", f[0])
	}
}

// setQuantity handles the shared argument form of SPD and ALT: a value,
// optionally followed by a unit; with no unit the plan's current unit for
// the control is kept. The value goes through the same model the dial
// uses so typed commands get the identical rounding and clamping.
func (sp *StatusPane) setQuantity(f []string, m *controls.QuantityModel,
	current units.Quantity, set func(units.Quantity)) {
	if len(f) < 2 || len(f) > 3 {
		sp.postError("usage: %s <value> [unit]", strings.ToUpper(f[0]))
		return
	}
	v, err := strconv.ParseFloat(f[1], 64)
	if err != nil || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
		sp.postError("%s: invalid value", f[1])
		return
	}

	m.Value = current
	if len(f) == 3 {
		if err := m.SetUnit(units.Unit(strings.ToLower(f[2]))); err != nil {
			sp.postError("%s: %v", f[2], err)
			return
		}
	}
	m.Set(v)
	set(m.Value)
}

func parseDuration(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%q: invalid duration", s)
	}
	total := 0
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%q: invalid duration", s)
		}
		total = total*60 + v
	}
	return total, nil
}
