package main

// dialprobe drives the controls package from a terminal: the heading,
// speed, and altitude dials and the loiter duration editor, rendered as
// text and wired to the same Controller state machine the instrument
// panel uses. It exists so that the interaction semantics can be poked
// at over ssh, without OpenGL or a window system: click and drag on the
// dial face, scroll, type entries, and watch what commits.

import (
	"fmt"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/avdeck/skydeck/controls"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"

	"github.com/gdamore/tcell/v2"
)

// instrument identifies one of the probe's four controls.
type instrument int

const (
	instHeading instrument = iota
	instSpeed
	instAltitude
	instDuration
	numInstruments
)

func (inst instrument) label() string {
	return [...]string{"HDG", "SPD", "ALT", "DUR"}[inst]
}

// captureFlag records mouse-capture requests so the capture half of the
// drag protocol is exercised even though a terminal has no real capture.
type captureFlag struct {
	active bool
	bounds math.Extent2D
}

func (c *captureFlag) StartCaptureMouse(e math.Extent2D) {
	c.active = true
	c.bounds = e
}

func (c *captureFlag) EndCaptureMouse() {
	c.active = false
}

// dialState is the per-dial interaction state: the controller, the drag
// preview, and which value was last committed.
type dialState struct {
	ctrl       controls.Controller
	preview    float64
	hasPreview bool
}

// AppState holds the runtime state of the application.
type AppState struct {
	selected instrument

	heading      float64
	headingModel controls.HeadingModel
	speed        *controls.QuantityModel
	altitude     *controls.QuantityModel
	duration     controls.DurationModel
	durationSeg  controls.DurationSegment

	dials     [3]dialState // heading, speed, altitude
	entryText string
	capture   captureFlag

	// Dial face geometry from the last render, for resolving mouse
	// positions; radius is in rows, columns span twice that.
	dialCenter [2]int
	dialRadius int

	lastButtons tcell.ButtonMask
	shiftHeld   bool

	presetIdx int

	commits []string
}

// Action represents the result of handling an event.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
)

func main() {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorReset).
		Foreground(tcell.ColorReset))
	screen.EnableMouse()

	state := newAppState()

	for {
		render(screen, state)
		screen.Show()

		ev := screen.PollEvent()
		if handleEvent(ev, state, screen) == ActionQuit {
			return
		}
	}
}

// newAppState builds the probe's models with the same configuration the
// instrument panel uses.
func newAppState() *AppState {
	state := &AppState{
		headingModel: controls.HeadingModel{Step: 5, Snap: true},
		speed:        controls.NewSpeedModel(),
		altitude:     controls.NewAltitudeModel(),
		duration:     controls.DurationModel{Seconds: 120},
	}
	state.speed.Set(45)
	state.altitude.Set(500)

	// Each controller routes through the drag-preview logic: emissions
	// during a drag are provisional, everything else commits on the spot.
	bind := func(inst instrument) {
		ds := &state.dials[inst]
		ds.ctrl.OnCommit = func(v float64) {
			if ds.ctrl.Dragging() {
				ds.preview = v
				ds.hasPreview = true
			} else {
				state.commit(inst, v, "ptr")
			}
		}
	}
	bind(instHeading)
	bind(instSpeed)
	bind(instAltitude)
	return state
}

// input assembles the controller input for a dial instrument from the
// current model state.
func (state *AppState) input(inst instrument) controls.Input {
	switch inst {
	case instHeading:
		return controls.Input{
			Value: state.headingModel.DialValue(state.heading),
			Arc:   state.headingModel.Arc(),
			Step:  state.headingModel.Step,
		}
	case instSpeed:
		d := state.speed.Defaults()
		return controls.Input{Value: state.speed.Value.Value, Arc: state.speed.Arc(), Step: d.Step}
	default:
		d := state.altitude.Defaults()
		return controls.Input{Value: state.altitude.Value.Value, Arc: state.altitude.Arc(), Step: d.Step}
	}
}

// commit applies a value from the controller to the instrument's model
// and records it in the log.
func (state *AppState) commit(inst instrument, v float64, source string) {
	switch inst {
	case instHeading:
		state.heading = state.headingModel.Normalize(v)
	case instSpeed:
		state.speed.Set(v)
	case instAltitude:
		state.altitude.Set(v)
	}
	state.logCommit(fmt.Sprintf("%s %s (%s)", inst.label(), state.readout(inst), source))
}

// finishGesture commits the drag preview once the drag has ended.
func (state *AppState) finishGesture(inst instrument) {
	ds := &state.dials[inst]
	if !ds.ctrl.Dragging() && ds.hasPreview {
		v := ds.preview
		ds.hasPreview = false
		state.commit(inst, v, "drag")
	}
}

func (state *AppState) logCommit(s string) {
	state.commits = append(state.commits, s)
	if len(state.commits) > 8 {
		state.commits = state.commits[len(state.commits)-8:]
	}
}

// readout formats an instrument's current value the way the panel would.
func (state *AppState) readout(inst instrument) string {
	switch inst {
	case instHeading:
		ds := &state.dials[instHeading]
		if ds.hasPreview {
			return controls.FormatHeading(state.headingModel.Normalize(ds.preview))
		}
		return controls.FormatHeading(state.heading)
	case instSpeed:
		q := state.speed.Value
		if ds := &state.dials[instSpeed]; ds.hasPreview {
			q = units.Quantity{Value: ds.preview, Unit: q.Unit}
		}
		return controls.FormatSpeed(q)
	case instAltitude:
		q := state.altitude.Value
		if ds := &state.dials[instAltitude]; ds.hasPreview {
			q = units.Quantity{Value: ds.preview, Unit: q.Unit}
		}
		return controls.FormatAltitude(q)
	default:
		return state.duration.String()
	}
}

// adjust steps the selected instrument, through the wrap-aware path for
// the heading dial and the controller for the others.
func (state *AppState) adjust(steps float64, key controls.Key) {
	switch state.selected {
	case instHeading:
		if steps != 0 {
			state.heading = state.headingModel.Adjust(state.heading, steps, state.shiftHeld)
			state.logCommit(fmt.Sprintf("HDG %s (keys)", state.readout(instHeading)))
		}
		// Home and End are ignored; a compass has no end stops.
	case instSpeed, instAltitude:
		ds := &state.dials[state.selected]
		ds.ctrl.HandleKey(state.input(state.selected), key, state.shiftHeld)
	case instDuration:
		switch key {
		case controls.KeyUp:
			state.duration.Adjust(state.durationSeg, 1)
			state.logCommit(fmt.Sprintf("DUR %s (keys)", state.duration.String()))
		case controls.KeyDown:
			state.duration.Adjust(state.durationSeg, -1)
			state.logCommit(fmt.Sprintf("DUR %s (keys)", state.duration.String()))
		case controls.KeyLeft:
			if state.durationSeg > controls.Hours {
				state.durationSeg--
			}
		case controls.KeyRight:
			if state.durationSeg < controls.Seconds {
				state.durationSeg++
			}
		}
	}
}

// commitEntry parses and commits the typed-in entry buffer.
func (state *AppState) commitEntry() {
	text := state.entryText
	state.entryText = ""

	switch state.selected {
	case instHeading:
		// Any finite number is a legal heading entry; it folds into
		// compass range rather than clamping.
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			state.logCommit(fmt.Sprintf("HDG %q rejected", text))
			return
		}
		state.commit(instHeading, controls.RoundToStep(v, state.headingModel.Step), "entry")
	case instSpeed, instAltitude:
		ds := &state.dials[state.selected]
		prev := ds.ctrl.OnCommit
		ds.ctrl.OnCommit = func(v float64) { state.commit(state.selected, v, "entry") }
		if !ds.ctrl.Entry(state.input(state.selected), text) {
			state.logCommit(fmt.Sprintf("%s %q rejected", state.selected.label(), text))
		}
		ds.ctrl.OnCommit = prev
	case instDuration:
		if v, err := strconv.Atoi(text); err == nil {
			state.duration.SetSegment(state.durationSeg, v)
			state.logCommit(fmt.Sprintf("DUR %s (entry)", state.duration.String()))
		} else {
			state.logCommit(fmt.Sprintf("DUR %q rejected", text))
		}
	}
}

// handleEvent processes a tcell event and returns the appropriate action.
func handleEvent(ev tcell.Event, state *AppState, screen tcell.Screen) Action {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
		return ActionNone

	case *tcell.EventKey:
		return handleKey(ev, state)

	case *tcell.EventMouse:
		handleMouse(ev, state)
		return ActionNone
	}

	return ActionNone
}

// handleKey maps keyboard input onto the controls API, following the
// instrument panel's bindings.
func handleKey(ev *tcell.EventKey, state *AppState) Action {
	state.shiftHeld = ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape:
		if state.entryText != "" {
			state.entryText = ""
			return ActionNone
		}
		return ActionQuit

	case tcell.KeyTab, tcell.KeyPgDn:
		state.selected = (state.selected + 1) % numInstruments
		state.entryText = ""

	case tcell.KeyBacktab, tcell.KeyPgUp:
		state.selected = (state.selected + numInstruments - 1) % numInstruments
		state.entryText = ""

	case tcell.KeyUp:
		if state.entryText == "" {
			state.adjust(1, controls.KeyUp)
		}

	case tcell.KeyDown:
		if state.entryText == "" {
			state.adjust(-1, controls.KeyDown)
		}

	case tcell.KeyLeft:
		if state.entryText == "" {
			state.adjust(-1, controls.KeyLeft)
		}

	case tcell.KeyRight:
		if state.entryText == "" {
			state.adjust(1, controls.KeyRight)
		}

	case tcell.KeyHome:
		if state.entryText == "" {
			state.adjust(0, controls.KeyHome)
		}

	case tcell.KeyEnd:
		if state.entryText == "" {
			state.adjust(0, controls.KeyEnd)
		}

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if state.entryText != "" {
			state.entryText = state.entryText[:len(state.entryText)-1]
		}

	case tcell.KeyEnter:
		if state.entryText != "" {
			state.commitEntry()
		}

	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r >= '0' && r <= '9':
			state.entryText += string(r)
		case (r == '.' || r == '-') && state.selected != instDuration:
			state.entryText += string(r)
		case r == 'u' && state.selected == instSpeed:
			cycleUnit(state, state.speed)
		case r == 'u' && state.selected == instAltitude:
			cycleUnit(state, state.altitude)
		case r == 'p' && state.selected == instSpeed:
			state.selectPreset(instSpeed, state.speed)
		case r == 'p' && state.selected == instAltitude:
			state.selectPreset(instAltitude, state.altitude)
		case r == 's' && state.selected == instHeading:
			state.headingModel.Snap = !state.headingModel.Snap
		case r == 'q':
			return ActionQuit
		}
	}

	return ActionNone
}

func cycleUnit(state *AppState, m *controls.QuantityModel) {
	if err := m.CycleUnit(); err != nil {
		state.logCommit(fmt.Sprintf("unit: %v", err))
		return
	}
	state.logCommit(fmt.Sprintf("%s unit now %s", state.selected.label(), m.Value.Unit.Label()))
}

// selectPreset steps through the model's presets, committing each in
// turn.
func (state *AppState) selectPreset(inst instrument, m *controls.QuantityModel) {
	if len(m.Presets) == 0 {
		return
	}
	i := state.presetIdx % len(m.Presets)
	state.presetIdx++
	m.SelectPreset(i)
	state.commit(inst, m.Value.Value, "preset")
}

// handleMouse feeds pointer input on the dial face through the
// controller: press starts a drag, motion follows it, release commits,
// and wheel notches step. Terminal cells are about half as wide as they
// are tall, so the column offset is halved to keep the face circular.
func handleMouse(ev *tcell.EventMouse, state *AppState) {
	if state.selected == instDuration || state.dialRadius == 0 {
		state.lastButtons = ev.Buttons()
		return
	}

	x, y := ev.Position()
	offset := [2]float32{
		float32(x-state.dialCenter[0]) / 2,
		float32(state.dialCenter[1] - y),
	}
	shift := ev.Modifiers()&tcell.ModShift != 0

	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && state.lastButtons&tcell.Button1 == 0
	released := buttons&tcell.Button1 == 0 && state.lastButtons&tcell.Button1 != 0
	state.lastButtons = buttons

	ds := &state.dials[state.selected]
	radius := float32(state.dialRadius)

	if buttons&tcell.WheelUp != 0 || buttons&tcell.WheelDown != 0 {
		notches := 1.0
		if buttons&tcell.WheelDown != 0 {
			notches = -1
		}
		if state.selected == instHeading {
			state.heading = state.headingModel.Adjust(state.heading, notches, shift)
			state.logCommit(fmt.Sprintf("HDG %s (wheel)", state.readout(instHeading)))
		} else {
			prev := ds.ctrl.OnCommit
			ds.ctrl.OnCommit = func(v float64) { state.commit(state.selected, v, "wheel") }
			ds.ctrl.Wheel(state.input(state.selected), notches, shift)
			ds.ctrl.OnCommit = prev
		}
		return
	}

	if pressed && math.Length2f(offset) <= 1.1*radius {
		bounds := math.Extent2DFromPoints([][2]float32{
			{float32(state.dialCenter[0] - 2*state.dialRadius), float32(state.dialCenter[1] - state.dialRadius)},
			{float32(state.dialCenter[0] + 2*state.dialRadius), float32(state.dialCenter[1] + state.dialRadius)},
		})
		ds.ctrl.PointerDown(state.input(state.selected), offset, 0, bounds, &state.capture)
	} else if ds.ctrl.Dragging() {
		if buttons&tcell.Button1 != 0 {
			ds.ctrl.PointerMove(state.input(state.selected), offset, 0)
		}
		if released {
			ds.ctrl.PointerUp(0)
		}
	}

	state.finishGesture(state.selected)
}

// render draws the UI.
func render(screen tcell.Screen, state *AppState) {
	screen.Clear()
	width, height := screen.Size()

	styleHeader := tcell.StyleDefault.Bold(true).Reverse(true)
	styleSelected := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue := tcell.StyleDefault.Bold(true)

	// Header with the instrument tabs
	var tabs strings.Builder
	tabs.WriteString(" dialprobe ")
	for inst := instrument(0); inst < numInstruments; inst++ {
		if inst == state.selected {
			tabs.WriteString(" [" + inst.label() + "]")
		} else {
			tabs.WriteString("  " + inst.label() + " ")
		}
	}
	drawText(screen, 0, 0, width, styleHeader, tabs.String())

	y := 2
	if state.selected == instDuration {
		y = renderDuration(screen, y, width, state, styleSelected, styleValue)
	} else {
		y = renderDial(screen, y, width, height, state, styleSelected, styleDim)
	}

	// Readout and instrument status
	readout := state.readout(state.selected)
	if state.entryText != "" {
		readout = state.entryText + "_"
	}
	drawText(screen, 1, y, width, styleValue, fmt.Sprintf("%s  %s", state.selected.label(), readout))
	y++

	drawText(screen, 1, y, width, styleDim, statusLine(state))
	y += 2

	// Commit log
	drawText(screen, 1, y, width, tcell.StyleDefault, "recent commits:")
	y++
	for i := len(state.commits) - 1; i >= 0 && y < height-1; i-- {
		drawText(screen, 3, y, width, styleDim, state.commits[i])
		y++
	}

	help := " [Tab]=Next instrument  [arrows]=Step (Shift=coarse)  [0-9]=Entry  [u]=Units  [p]=Preset  [s]=Snap  [Esc]=Quit "
	drawText(screen, 0, height-1, width, styleDim, help)
}

// statusLine summarizes the selected instrument's configuration.
func statusLine(state *AppState) string {
	switch state.selected {
	case instHeading:
		snap := "off"
		if state.headingModel.Snap {
			snap = "on"
		}
		return fmt.Sprintf("step %v  snap %s  drag %v  capture %v",
			state.headingModel.Step, snap, state.dials[instHeading].ctrl.Dragging(), state.capture.active)
	case instSpeed, instAltitude:
		m := state.speed
		if state.selected == instAltitude {
			m = state.altitude
		}
		d := m.Defaults()
		labels := make([]string, len(m.Units()))
		for i, u := range m.Units() {
			labels[i] = u.Label()
			if u == m.Value.Unit {
				labels[i] = "[" + labels[i] + "]"
			}
		}
		return fmt.Sprintf("range %v..%v  step %v  units %s  drag %v  capture %v",
			d.Min, d.Max, d.Step, strings.Join(labels, " "),
			state.dials[state.selected].ctrl.Dragging(), state.capture.active)
	default:
		return fmt.Sprintf("segment %s  total %ds",
			[...]string{"hours", "minutes", "seconds"}[state.durationSeg], state.duration.Seconds)
	}
}

// renderDial draws the selected dial as a character-cell face: the tick
// ring from TickMarks, cardinal letters on the compass card, and the
// needle. Returns the row below the face.
func renderDial(screen tcell.Screen, y0, width, height int, state *AppState,
	styleNeedle, styleTicks tcell.Style) int {
	radius := min(9, (height-12)/2)
	if radius < 4 {
		radius = 4
	}
	cx, cy := min(2*radius+2, width/2), y0+radius
	state.dialCenter = [2]int{cx, cy}
	state.dialRadius = radius

	// plot places one rune at a dial-space offset (x right, y up, in
	// rows); columns are doubled to undo the cell aspect ratio.
	plot := func(dx, dy float64, r rune, style tcell.Style) {
		screen.SetContent(cx+int(gomath.Round(2*dx)), cy-int(gomath.Round(dy)), r, nil, style)
	}

	var angleOf func(v float64) float64
	var ticks []controls.Tick
	cardinals := false

	switch state.selected {
	case instHeading:
		hm := state.headingModel
		angleOf = func(v float64) float64 { return hm.Arc().AngleOfValue(hm.DialValue(v)) }
		ticks = controls.TickMarks(0, 350, 10, 3)
		cardinals = true
	default:
		m := state.speed
		if state.selected == instAltitude {
			m = state.altitude
		}
		d := m.Defaults()
		angleOf = m.Arc().AngleOfValue
		ticks = controls.TickMarks(d.Min, d.Max, d.TickEvery, d.MajorEvery)
	}

	for _, tick := range ticks {
		a := angleOf(tick.Value)
		r, ch := float64(radius), '·'
		if tick.Major {
			ch = '+'
		}
		plot(r*gomath.Sin(a), r*gomath.Cos(a), ch, styleTicks)
	}

	if cardinals {
		for i, s := range [...]string{"N", "E", "S", "W"} {
			a := angleOf(float64(90 * i))
			r := 0.72 * float64(radius)
			plot(r*gomath.Sin(a), r*gomath.Cos(a), rune(s[0]), styleNeedle)
		}
	}

	// Needle along the current (or preview) value's angle
	in := state.input(state.selected)
	v := in.Value
	if ds := &state.dials[state.selected]; ds.hasPreview {
		v = ds.preview
	}
	na := in.Arc.AngleOfValue(v)
	for t := 0.2; t <= 0.85; t += 0.08 {
		r := t * float64(radius)
		plot(r*gomath.Sin(na), r*gomath.Cos(na), '*', styleNeedle)
	}
	screen.SetContent(cx, cy, 'o', nil, styleNeedle)

	return y0 + 2*radius + 2
}

// renderDuration draws the loiter strip with the selected segment
// bracketed. Returns the row below the strip.
func renderDuration(screen tcell.Screen, y0, width int, state *AppState,
	styleSelected, styleValue tcell.Style) int {
	h, m, s := state.duration.HMS()
	segs := [...]string{fmt.Sprintf("%02d", h), fmt.Sprintf("%02d", m), fmt.Sprintf("%02d", s)}

	x := 9
	drawText(screen, 1, y0+1, 8, styleValue, "LOITER")
	for i, seg := range segs {
		style := styleValue
		text := " " + seg + " "
		if controls.DurationSegment(i) == state.durationSeg {
			style = styleSelected
			if state.entryText != "" {
				seg = state.entryText + "_"
			}
			text = "[" + seg + "]"
		}
		drawText(screen, x, y0+1, len([]rune(text))+1, style, text)
		x += len([]rune(text))
		if i < 2 {
			drawText(screen, x, y0+1, 2, styleValue, ":")
			x++
		}
	}
	return y0 + 4
}

// drawText draws a string at the given position.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}
