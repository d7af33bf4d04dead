// panes/panel/panel.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package panel implements the instrument pane: radial dials for the
// commanded heading, speed, and altitude, and a strip editor for the
// loiter duration. The dials are rendered and hit-tested directly in the
// pane; values route through the mission session so every change lands
// in the undo history and the command log.
package panel

import (
	"encoding/binary"
	"encoding/json"
	gomath "math"
	"os"
	"strconv"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/units"

	"github.com/AllenDang/cimgui-go/imgui"
)

// Instrument indices, in top-to-bottom layout order.
const (
	headingInstrument = iota
	speedInstrument
	altitudeInstrument
	loiterInstrument
	numInstruments
)

type InstrumentsPane struct {
	FontIdentifier renderer.FontIdentifier
	HeadingSnap    bool
	CommitBeep     bool
	// Optional path to an MP3 played instead of the built-in tone.
	AlertSoundPath string
	Locked         bool

	font      *renderer.Font
	labelFont *renderer.Font

	speedModel    *controls.QuantityModel
	altitudeModel *controls.QuantityModel

	heading  dialWidget
	speed    dialWidget
	altitude dialWidget
	loiter   durationWidget

	sel int

	beepIndex     int
	toneBeepIndex int
	haveBeep      bool
	alertSoundErr string
}

func init() {
	panes.RegisterUnmarshalPane("InstrumentsPane", func(d []byte) (panes.Pane, error) {
		var ip InstrumentsPane
		err := json.Unmarshal(d, &ip)
		return &ip, err
	})
}

func NewInstrumentsPane() *InstrumentsPane {
	return &InstrumentsPane{
		FontIdentifier: renderer.FontIdentifier{Name: "Roboto Regular", Size: 20},
		HeadingSnap:    true,
		CommitBeep:     true,
	}
}

func (ip *InstrumentsPane) DisplayName() string { return "Instruments" }

func (ip *InstrumentsPane) Hide() bool { return false }

func (ip *InstrumentsPane) CanTakeKeyboardFocus() bool { return true }

func (ip *InstrumentsPane) Activate(r renderer.Renderer, p platform.Platform, eventStream *mission.EventStream, lg *log.Logger) {
	if ip.font = renderer.GetFont(ip.FontIdentifier); ip.font == nil {
		ip.font = renderer.GetDefaultFont()
		ip.FontIdentifier = ip.font.Id
	}
	ip.labelFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 12})

	if idx, err := p.AddPCM(commitBeepPCM(), platform.AudioSampleRate); err == nil {
		ip.toneBeepIndex = idx
		ip.beepIndex = idx
		ip.haveBeep = true
	} else {
		lg.Errorf("commit beep: %v", err)
	}

	if ip.AlertSoundPath != "" {
		if err := ip.loadAlertSound(p); err != nil {
			// Keep the path so the settings window can show what failed;
			// the built-in tone covers for it.
			ip.alertSoundErr = err.Error()
			lg.Errorf("%s: %v", ip.AlertSoundPath, err)
		}
	}
}

// loadAlertSound registers the user's MP3 as the commit sound; an empty
// path returns to the built-in tone.
func (ip *InstrumentsPane) loadAlertSound(p platform.Platform) error {
	if ip.AlertSoundPath == "" {
		ip.beepIndex = ip.toneBeepIndex
		return nil
	}

	mp3, err := os.ReadFile(ip.AlertSoundPath)
	if err != nil {
		return err
	}
	idx, err := p.AddMP3(mp3)
	if err != nil {
		return err
	}
	ip.beepIndex = idx
	ip.haveBeep = true
	return nil
}

func (ip *InstrumentsPane) LoadedPlan(plan *mission.Plan, pl platform.Platform, lg *log.Logger) {
	// The models are rebuilt from the plan on the next draw; gestures and
	// pending entries refer to values that no longer exist.
	ip.speedModel = nil
	ip.altitudeModel = nil
	ip.heading.reset()
	ip.speed.reset()
	ip.altitude.reset()
	ip.loiter.reset()
}

func (ip *InstrumentsPane) DrawUI(p platform.Platform, config *platform.Config) {
	imgui.Checkbox("Lock instruments (view only)", &ip.Locked)
	imgui.Checkbox("Snap headings to cardinal directions", &ip.HeadingSnap)

	imgui.Checkbox("Enable Sound Effects", &config.AudioEnabled)
	if !config.AudioEnabled {
		imgui.BeginDisabled()
	}
	imgui.Checkbox("Beep when a command is issued", &ip.CommitBeep)

	flags := imgui.InputTextFlagsEnterReturnsTrue
	if imgui.InputTextWithHint("Alert sound MP3", "empty for the built-in tone", &ip.AlertSoundPath, flags, nil) {
		if err := ip.loadAlertSound(p); err != nil {
			ip.alertSoundErr = err.Error()
		} else {
			ip.alertSoundErr = ""
			p.PlayAudioOnce(ip.beepIndex)
		}
	}
	if ip.alertSoundErr != "" {
		imgui.Text("Unable to load alert sound: " + ip.alertSoundErr)
	}
	if !config.AudioEnabled {
		imgui.EndDisabled()
	}

	if newFont, changed := renderer.DrawFontPicker(&ip.FontIdentifier, "Font"); changed {
		ip.font = newFont
	}
}

func (ip *InstrumentsPane) headingModel() controls.HeadingModel {
	return controls.HeadingModel{Step: 5, Snap: ip.HeadingSnap}
}

// syncModels refreshes the unit-aware models from the plan; the plan is
// authoritative and anything else (another pane, undo, a loaded file) may
// have changed it since the last frame.
func (ip *InstrumentsPane) syncModels(ctx *panes.Context) {
	if ip.speedModel == nil {
		ip.speedModel = controls.NewSpeedModel()
	}
	if ip.altitudeModel == nil {
		ip.altitudeModel = controls.NewAltitudeModel()
	}
	if ctx.Mission == nil {
		return
	}

	cmd := ctx.Mission.Plan.Commands
	if u := cmd.Speed.Unit; u != ip.speedModel.Value.Unit {
		if err := ip.speedModel.SetUnit(u); err != nil {
			ctx.Lg.Errorf("speed: %v", err)
		}
	}
	ip.speedModel.Value = cmd.Speed

	if u := cmd.Altitude.Unit; u != ip.altitudeModel.Value.Unit {
		if err := ip.altitudeModel.SetUnit(u); err != nil {
			ctx.Lg.Errorf("altitude: %v", err)
		}
	}
	ip.altitudeModel.Value = cmd.Altitude
}

// command runs a session mutation and sounds the feedback beep if the
// plan actually changed; no-op commits stay silent.
func (ip *InstrumentsPane) command(ctx *panes.Context, fn func()) {
	if ctx.Mission == nil {
		return
	}
	before := ctx.Mission.Plan.Commands
	fn()
	if ip.CommitBeep && ip.haveBeep && ctx.Platform != nil && ctx.Mission.Plan.Commands != before {
		ctx.Platform.PlayAudioOnce(ip.beepIndex)
	}
}

func (ip *InstrumentsPane) headingSpec(ctx *panes.Context) dialSpec {
	hm := ip.headingModel()
	var heading float64
	if ctx.Mission != nil {
		heading = ctx.Mission.Plan.Commands.Heading
	}

	commit := func(v float64) {
		ip.command(ctx, func() { ctx.Mission.SetCommandedHeading(hm.Normalize(v)) })
	}
	return dialSpec{
		label: "HEADING",
		in: controls.Input{
			Value:    hm.DialValue(heading),
			Arc:      hm.Arc(),
			Step:     hm.Step,
			Disabled: ip.Locked,
		},
		format: func(v float64) string { return controls.FormatHeading(hm.Normalize(v)) },
		ticks:  controls.TickMarks(0, 350, 10, 3),
		tickText: func(v float64) string {
			// Cardinal positions get letters instead of numbers.
			if int(v)%90 == 0 {
				return ""
			}
			return strconv.Itoa(int(v) / 10)
		},
		angleOf:   func(v float64) float64 { return hm.Arc().AngleOfValue(hm.DialValue(v)) },
		cardinals: true,
		commit:    commit,
		adjust: func(steps float64, coarse bool) {
			ip.command(ctx, func() {
				ctx.Mission.SetCommandedHeading(hm.Adjust(heading, steps, coarse))
			})
		},
		entry: func(text string) bool {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
				return false
			}
			commit(controls.RoundToStep(v, hm.Step))
			return true
		},
	}
}

func (ip *InstrumentsPane) speedSpec(ctx *panes.Context) dialSpec {
	m := ip.speedModel
	return ip.quantitySpec(ctx, "SPEED", m, controls.FormatSpeed,
		func(q units.Quantity) { ctx.Mission.SetCommandedSpeed(q) })
}

func (ip *InstrumentsPane) altitudeSpec(ctx *panes.Context) dialSpec {
	m := ip.altitudeModel
	return ip.quantitySpec(ctx, "ALTITUDE", m, controls.FormatAltitude,
		func(q units.Quantity) { ctx.Mission.SetCommandedAltitude(q) })
}

// quantitySpec builds the shared dial spec for the two unit-aware
// instruments; only the label, formatting, and session setter differ.
func (ip *InstrumentsPane) quantitySpec(ctx *panes.Context, label string, m *controls.QuantityModel,
	format func(units.Quantity) string, set func(units.Quantity)) dialSpec {
	d := m.Defaults()
	return dialSpec{
		label: label,
		in: controls.Input{
			Value:    m.Value.Value,
			Arc:      m.Arc(),
			Step:     d.Step,
			Disabled: ip.Locked,
		},
		format: func(v float64) string {
			return format(units.Quantity{Value: v, Unit: m.Value.Unit})
		},
		ticks: controls.TickMarks(d.Min, d.Max, d.TickEvery, d.MajorEvery),
		tickText: func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		commit: func(v float64) {
			ip.command(ctx, func() {
				m.Set(v)
				set(m.Value)
			})
		},
	}
}

// cycleUnit switches the model to its next display unit and re-commits
// the converted value so the plan follows the dial.
func (ip *InstrumentsPane) cycleUnit(ctx *panes.Context, m *controls.QuantityModel,
	set func(units.Quantity)) {
	if ip.Locked {
		return
	}
	if err := m.CycleUnit(); err != nil {
		ctx.Lg.Errorf("cycle unit: %v", err)
		return
	}
	// A pure unit change is not a new command; it re-expresses the same
	// physical value, so it skips the beep.
	if ctx.Mission != nil {
		set(m.Value)
	}
}

type panelLayout struct {
	centers [3][2]float32
	radius  float32
	chromeY [3]float32
	loiter  math.Extent2D
}

func (ip *InstrumentsPane) layout(ctx *panes.Context) panelLayout {
	w, h := ctx.PaneExtent.Width(), ctx.PaneExtent.Height()
	stripH := min(0.12*h, 44*ctx.DrawPixelScale)
	cellH := (h - stripH) / 3

	var l panelLayout
	l.radius = min(0.34*cellH, 0.4*w)
	for i := 0; i < 3; i++ {
		top := h - float32(i)*cellH
		l.centers[i] = [2]float32{w / 2, top - 0.52*cellH}
		l.chromeY[i] = top - cellH + float32(ip.labelFontSize()) + 6*ctx.DrawPixelScale
	}
	pad := 4 * ctx.DrawPixelScale
	l.loiter = math.Extent2D{P0: [2]float32{2 * pad, pad}, P1: [2]float32{w - 2*pad, stripH - pad}}
	return l
}

// labelFontSize avoids touching the font atlas in the layout path, which
// runs before fonts exist in tests.
func (ip *InstrumentsPane) labelFontSize() int {
	if ip.labelFont != nil {
		return ip.labelFont.Size
	}
	return 12
}

func (ip *InstrumentsPane) widget(i int) *dialWidget {
	switch i {
	case headingInstrument:
		return &ip.heading
	case speedInstrument:
		return &ip.speed
	case altitudeInstrument:
		return &ip.altitude
	default:
		return nil
	}
}

// selectInstrument moves the keyboard selection; a pending entry on the
// instrument losing it is abandoned.
func (ip *InstrumentsPane) selectInstrument(i int) {
	if i == ip.sel {
		return
	}
	if w := ip.widget(ip.sel); w != nil {
		w.entryText = ""
	} else {
		ip.loiter.entryText = ""
	}
	ip.sel = i
}

func (ip *InstrumentsPane) Draw(ctx *panes.Context, cb *renderer.CommandBuffer) {
	ip.syncModels(ctx)

	if ctx.Mouse != nil && ctx.Mouse.Clicked[platform.MouseButtonPrimary] {
		ctx.KeyboardFocus.TakeTemporary(ip)
	}

	layout := ip.layout(ctx)
	specs := [3]dialSpec{ip.headingSpec(ctx), ip.speedSpec(ctx), ip.altitudeSpec(ctx)}

	loiterModel := controls.DurationModel{}
	if ctx.Mission != nil {
		loiterModel.Seconds = ctx.Mission.Plan.Commands.LoiterSeconds
	}
	commitLoiter := func() {
		ip.command(ctx, func() { ctx.Mission.SetLoiter(loiterModel.Seconds) })
	}

	for i := range specs {
		if ip.widget(i).processMouse(ctx, specs[i], layout.centers[i], layout.radius) {
			ip.selectInstrument(i)
		}
	}
	if ip.loiter.processMouse(ctx, layout.loiter, &loiterModel, ip.Locked, commitLoiter) {
		ip.selectInstrument(loiterInstrument)
	}

	if ctx.HaveFocus && ctx.Keyboard != nil {
		ip.processKeyboard(ctx, &specs, &loiterModel, commitLoiter)
	}

	ld := renderer.GetColoredLinesDrawBuilder()
	defer renderer.ReturnColoredLinesDrawBuilder(ld)
	trid := renderer.GetColoredTrianglesDrawBuilder()
	defer renderer.ReturnColoredTrianglesDrawBuilder(trid)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	for i := range specs {
		ip.widget(i).draw(ctx, specs[i], layout.centers[i], layout.radius, ip.sel == i,
			ip.font, ip.labelFont, ld, trid, td)
	}
	ip.loiter.draw(ctx, layout.loiter, &loiterModel, ip.sel == loiterInstrument, ip.Locked,
		ip.font, ip.labelFont, ld, td)

	ip.drawChrome(ctx, layout, trid, td)

	ctx.SetWindowCoordinateMatrices(cb)
	trid.GenerateCommands(cb)
	ld.GenerateCommands(cb)

	if ctx.HaveFocus {
		// Yellow border around the edges
		bld := renderer.GetLinesDrawBuilder()
		defer renderer.ReturnLinesDrawBuilder(bld)

		w, h := ctx.PaneExtent.Width(), ctx.PaneExtent.Height()
		bld.AddLineLoop([][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}})
		cb.SetRGB(renderer.RGB{R: 1, G: 1, B: 0}) // yellow
		bld.GenerateCommands(cb)
	}
	td.GenerateCommands(cb)
}

func (ip *InstrumentsPane) processKeyboard(ctx *panes.Context, specs *[3]dialSpec,
	loiterModel *controls.DurationModel, commitLoiter func()) {
	keyboard := ctx.Keyboard

	if keyboard.WasPressed(imgui.KeyPageUp) {
		ip.selectInstrument((ip.sel + numInstruments - 1) % numInstruments)
	}
	if keyboard.WasPressed(imgui.KeyPageDown) {
		ip.selectInstrument((ip.sel + 1) % numInstruments)
	}

	for _, ch := range keyboard.Input {
		switch ch {
		case 'u', 'U':
			if ip.sel == speedInstrument {
				ip.cycleUnit(ctx, ip.speedModel,
					func(q units.Quantity) { ctx.Mission.SetCommandedSpeed(q) })
			} else if ip.sel == altitudeInstrument {
				ip.cycleUnit(ctx, ip.altitudeModel,
					func(q units.Quantity) { ctx.Mission.SetCommandedAltitude(q) })
			}
		case 's', 'S':
			if ip.sel == headingInstrument {
				ip.HeadingSnap = !ip.HeadingSnap
			}
		}
	}

	if keyboard.WasPressed(imgui.KeyEscape) && !ip.entryPending() {
		ctx.KeyboardFocus.Release()
		return
	}

	if ip.sel == loiterInstrument {
		ip.loiter.processKeys(ctx, loiterModel, ip.Locked, commitLoiter)
	} else {
		ip.widget(ip.sel).processKeys(ctx, specs[ip.sel])
	}
}

// entryPending reports whether the selected instrument has typed-in text
// waiting, in which case escape clears it rather than releasing focus.
func (ip *InstrumentsPane) entryPending() bool {
	if w := ip.widget(ip.sel); w != nil {
		return w.entryText != ""
	}
	return ip.loiter.entryText != ""
}

// drawChrome renders and handles the small controls under each dial: the
// snap toggle for the heading and the unit selector and presets for the
// quantity dials.
func (ip *InstrumentsPane) drawChrome(ctx *panes.Context, layout panelLayout,
	trid *renderer.ColoredTrianglesDrawBuilder, td *renderer.TextDrawBuilder) {
	x := layout.centers[headingInstrument][0] - layout.radius
	ip.chromeButton(ctx, "SNAP", [2]float32{x, layout.chromeY[headingInstrument]},
		ip.HeadingSnap, trid, td, func() { ip.HeadingSnap = !ip.HeadingSnap })

	ip.quantityChrome(ctx, layout, speedInstrument, ip.speedModel,
		func(q units.Quantity) { ctx.Mission.SetCommandedSpeed(q) }, trid, td)
	ip.quantityChrome(ctx, layout, altitudeInstrument, ip.altitudeModel,
		func(q units.Quantity) { ctx.Mission.SetCommandedAltitude(q) }, trid, td)
}

func (ip *InstrumentsPane) quantityChrome(ctx *panes.Context, layout panelLayout, inst int,
	m *controls.QuantityModel, set func(units.Quantity),
	trid *renderer.ColoredTrianglesDrawBuilder, td *renderer.TextDrawBuilder) {
	x := layout.centers[inst][0] - layout.radius
	y := layout.chromeY[inst]

	x = ip.chromeButton(ctx, m.Value.Unit.Label(), [2]float32{x, y}, false, trid, td,
		func() {
			ip.selectInstrument(inst)
			ip.cycleUnit(ctx, m, set)
		})

	for i, preset := range m.Presets {
		label := strconv.FormatFloat(gomath.Round(preset.Value*100)/100, 'f', -1, 64)
		x = ip.chromeButton(ctx, label, [2]float32{x, y}, false, trid, td,
			func() {
				ip.selectInstrument(inst)
				ip.command(ctx, func() {
					m.SelectPreset(i)
					set(m.Value)
				})
			})
	}
}

// chromeButton draws one small labeled button with its upper-left text
// corner at p, invoking onClick on a click inside it. It returns the x
// position following the button.
func (ip *InstrumentsPane) chromeButton(ctx *panes.Context, label string, p [2]float32,
	active bool, trid *renderer.ColoredTrianglesDrawBuilder, td *renderer.TextDrawBuilder,
	onClick func()) float32 {
	bw, bh := ip.labelFont.BoundText(label, 0)
	pad := 3 * ctx.DrawPixelScale
	ext := math.Extent2D{
		P0: [2]float32{p[0] - pad, p[1] - float32(bh) - pad},
		P1: [2]float32{p[0] + float32(bw) + pad, p[1] + pad},
	}

	bg := panes.UIControlColor
	fg := panes.UITextColor
	if active {
		fg = panes.UITextHighlightColor
	}
	if ip.Locked {
		bg, fg = bg.Scale(0.5), fg.Scale(0.5)
	} else if ctx.Mouse != nil && ext.Inside(ctx.Mouse.Pos) {
		bg = bg.Scale(1.4)
		if ctx.Mouse.Clicked[platform.MouseButtonPrimary] {
			onClick()
		}
	}

	trid.AddQuad(ext.P0, [2]float32{ext.P1[0], ext.P0[1]}, ext.P1,
		[2]float32{ext.P0[0], ext.P1[1]}, bg)
	td.AddText(label, p, renderer.TextStyle{Font: ip.labelFont, Color: fg})

	return ext.P1[0] + 4*ctx.DrawPixelScale
}

// commitBeepPCM synthesizes the tone played when a command is issued: a
// short 880 Hz sine with a linear fade, as 16-bit mono samples.
func commitBeepPCM() []byte {
	const durationMs = 60
	const freq = 880
	n := platform.AudioSampleRate * durationMs / 1000
	pcm := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		fade := 1 - float64(i)/float64(n)
		v := 0.3 * fade * gomath.Sin(2*gomath.Pi*freq*float64(i)/platform.AudioSampleRate)
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v*32767)))
	}
	return pcm
}
