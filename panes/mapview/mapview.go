// panes/mapview/mapview.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package mapview implements the map pane: chart underlays, the
// geofence, and the planned route drawn in an orthographic
// latitude-longitude view, with mouse pan and zoom and a picker that
// appends clicked points to the route as waypoints.
package mapview

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mmp/earcut-go"
)

const (
	initialRangeNM = 8
	minRangeNM     = 0.5
	maxRangeNM     = 512

	// One wheel notch or +/- keypress scales the range by this much.
	zoomPerNotch = 1.25

	layerCacheSize = 64
	layerCacheTTL  = 15 * time.Minute
)

var (
	mapBackgroundColor = renderer.RGBFromHex(0x0b1210)
	graticuleColor     = renderer.RGBFromHex(0x2a3b36)
	graticuleTextColor = renderer.RGBFromHex(0x5a6e68)
	routeColor         = renderer.RGBFromHex(0x46a3dd)
	launchLegColor     = renderer.RGBFromHex(0x2a5f80)
	waypointColor      = renderer.RGBFromHex(0xd5e3ea)
	homeColor          = renderer.RGBFromHex(0x57d98a)
)

type MapPane struct {
	Center        math.Point2LL          `json:"center"`
	RangeNM       float32                `json:"range"`
	ShowGraticule bool                   `json:"show_graticule"`
	ShowGeofence  bool                   `json:"show_geofence"`
	HiddenLayers  map[string]interface{} `json:"hidden_layers,omitempty"`

	labelFont *renderer.Font

	layers    []*chartLayer
	decimated *expirable.LRU[layerKey, [][][2]float32]

	// Geofence fill, regenerated when the plan's fence changes.
	fenceVerts []math.Point2LL
	fenceTris  [][3]math.Point2LL

	// When armed, the next primary click adds a waypoint instead of
	// starting a pan.
	pickArmed bool
}

func init() {
	panes.RegisterUnmarshalPane("MapPane", func(d []byte) (panes.Pane, error) {
		var mp MapPane
		if err := json.Unmarshal(d, &mp); err != nil {
			return nil, err
		}
		if mp.RangeNM == 0 {
			mp.RangeNM = initialRangeNM
		}
		return &mp, nil
	})
}

func NewMapPane() *MapPane {
	return &MapPane{
		RangeNM:       initialRangeNM,
		ShowGraticule: true,
		ShowGeofence:  true,
	}
}

func (mp *MapPane) DisplayName() string { return "Map" }

func (mp *MapPane) Hide() bool { return false }

func (mp *MapPane) CanTakeKeyboardFocus() bool { return true }

func (mp *MapPane) Activate(r renderer.Renderer, p platform.Platform, eventStream *mission.EventStream, lg *log.Logger) {
	mp.labelFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 12})
	if mp.layers == nil {
		mp.layers = loadChartLayers(lg)
	}
	if mp.decimated == nil {
		mp.decimated = expirable.NewLRU[layerKey, [][][2]float32](layerCacheSize, nil, layerCacheTTL)
	}
	if mp.RangeNM == 0 {
		mp.RangeNM = initialRangeNM
	}
}

func (mp *MapPane) LoadedPlan(plan *mission.Plan, pl platform.Platform, lg *log.Logger) {
	// Reframe around the new document on the next draw; the cached
	// fence fill belongs to the old one.
	mp.Center = math.Point2LL{}
	mp.fenceVerts = nil
	mp.fenceTris = nil
	mp.pickArmed = false
}

func (mp *MapPane) DrawUI(p platform.Platform, config *platform.Config) {
	imgui.Checkbox("Draw latitude-longitude grid", &mp.ShowGraticule)
	imgui.Checkbox("Draw geofence", &mp.ShowGeofence)
	for _, l := range mp.layers {
		_, hidden := mp.HiddenLayers[l.Name]
		visible := !hidden
		if imgui.Checkbox("Chart: "+l.Name, &visible) {
			if visible {
				delete(mp.HiddenLayers, l.Name)
			} else {
				if mp.HiddenLayers == nil {
					mp.HiddenLayers = make(map[string]interface{})
				}
				mp.HiddenLayers[l.Name] = nil
			}
		}
	}
}

// ArmPicker puts the pane into point-picking mode: the next primary
// click adds a waypoint at the clicked position rather than panning.
func (mp *MapPane) ArmPicker() { mp.pickArmed = true }

func (mp *MapPane) PickerArmed() bool { return mp.pickArmed }

// framePlan centers the view on the plan and picks a range that fits
// all of it with some margin.
func (mp *MapPane) framePlan(plan *mission.Plan, paneExtent math.Extent2D) {
	ext := plan.Extent()
	mp.Center = ext.Center()

	aspect := float32(1)
	if paneExtent.Height() > 0 && paneExtent.Width() > 0 {
		aspect = paneExtent.Width() / paneExtent.Height()
	}
	h := ext.Height() * math.NMPerLatitude
	w := ext.Width() * math.NMPerLongitudeAt(mp.Center)
	rangenm := max(h/2, w/(2*aspect))
	if rangenm == 0 {
		rangenm = initialRangeNM
	}
	mp.RangeNM = math.Clamp(1.2*rangenm, minRangeNM, maxRangeNM)
}

func (mp *MapPane) Draw(ctx *panes.Context, cb *renderer.CommandBuffer) {
	if mp.RangeNM == 0 {
		mp.RangeNM = initialRangeNM
	}
	if mp.Center.IsZero() && ctx.Mission != nil {
		mp.framePlan(ctx.Mission.Plan, ctx.PaneExtent)
	}
	if mp.decimated == nil {
		mp.decimated = expirable.NewLRU[layerKey, [][][2]float32](layerCacheSize, nil, layerCacheTTL)
	}

	transforms := getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)
	mp.processMouse(ctx, &transforms)
	if ctx.HaveFocus && ctx.Keyboard != nil {
		mp.processKeyboard(ctx)
	}
	// Input may have moved the view; draw it where it ended up.
	transforms = getViewTransforms(ctx.PaneExtent, mp.Center, mp.RangeNM)

	cld := renderer.GetColoredLinesDrawBuilder()
	defer renderer.ReturnColoredLinesDrawBuilder(cld)
	trid := renderer.GetColoredTrianglesDrawBuilder()
	defer renderer.ReturnColoredTrianglesDrawBuilder(trid)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	cb.ClearRGB(mapBackgroundColor)

	// Chart geometry is specified in latitude-longitude. Text the
	// graticule contributes goes into td, which is generated once the
	// window matrices are loaded below.
	transforms.LoadLatLongViewingMatrices(cb)
	if mp.ShowGraticule {
		mp.drawGraticule(ctx, &transforms, td, cb)
	}
	mp.drawLayers(ctx, &transforms, cb)
	if ctx.Mission != nil {
		if mp.ShowGeofence {
			mp.drawGeofence(ctx, cld, cb)
		}
		mp.drawRoute(ctx, cld)
	}
	cb.LineWidth(1, ctx.DPIScale)
	cld.GenerateCommands(cb)

	// Markers and text go down in window coordinates.
	transforms.LoadWindowViewingMatrices(cb)
	mp.drawOverlay(ctx, &transforms, trid, td, cb)
	trid.GenerateCommands(cb)
	td.GenerateCommands(cb)

	if ctx.HaveFocus {
		// Yellow border around the edges
		bld := renderer.GetLinesDrawBuilder()
		defer renderer.ReturnLinesDrawBuilder(bld)

		w, h := ctx.PaneExtent.Width(), ctx.PaneExtent.Height()
		bld.AddLineLoop([][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}})
		cb.SetRGB(renderer.RGB{R: 1, G: 1, B: 0}) // yellow
		bld.GenerateCommands(cb)
	}
}

func (mp *MapPane) processMouse(ctx *panes.Context, transforms *viewTransforms) {
	mouse := ctx.Mouse
	if mouse == nil {
		return
	}

	if mouse.Clicked[platform.MouseButtonPrimary] {
		if mp.pickArmed {
			if ctx.Mission != nil {
				ctx.Mission.AddWaypoint(transforms.LatLongFromWindowP(mouse.Pos))
			}
			mp.pickArmed = false
		} else if !ctx.HaveFocus {
			ctx.KeyboardFocus.Take(mp)
		}
	}

	// Drag to pan.
	if mouse.Dragging[platform.MouseButtonPrimary] && !mp.pickArmed {
		delta := mouse.DragDelta
		if delta[0] != 0 || delta[1] != 0 {
			deltaLL := transforms.LatLongFromWindowV(delta)
			mp.Center = math.Sub2LL(mp.Center, deltaLL)
		}
	}

	// Wheel to zoom, holding the point under the cursor fixed. Control
	// zooms three notches at a time.
	if mouse.Wheel[1] != 0 {
		notches := mouse.Wheel[1]
		if ctx.Keyboard != nil && ctx.Keyboard.KeyControl() {
			notches *= 3
		}
		r := mp.RangeNM
		mp.RangeNM = math.Clamp(r*math.Pow(zoomPerNotch, notches), minRangeNM, maxRangeNM)

		mouseLL := transforms.LatLongFromWindowP(mouse.Pos)
		scale := mp.RangeNM / r
		centerTransform := math.Identity3x3().
			Translate(mouseLL[0], mouseLL[1]).
			Scale(scale, scale).
			Translate(-mouseLL[0], -mouseLL[1])
		mp.Center = centerTransform.TransformPoint(mp.Center)
	}
}

func (mp *MapPane) processKeyboard(ctx *panes.Context) {
	keyboard := ctx.Keyboard

	for _, ch := range keyboard.Input {
		switch ch {
		case 'p', 'P':
			mp.pickArmed = !mp.pickArmed
		case 'f', 'F':
			if ctx.Mission != nil {
				mp.framePlan(ctx.Mission.Plan, ctx.PaneExtent)
			}
		case 'g', 'G':
			mp.ShowGraticule = !mp.ShowGraticule
		case '+', '=':
			mp.RangeNM = math.Clamp(mp.RangeNM/zoomPerNotch, minRangeNM, maxRangeNM)
		case '-', '_':
			mp.RangeNM = math.Clamp(mp.RangeNM*zoomPerNotch, minRangeNM, maxRangeNM)
		}
	}

	// Arrow keys pan by a quarter of the range.
	var pan [2]float32
	if keyboard.WasPressed(imgui.KeyLeftArrow) {
		pan[0] -= 1
	}
	if keyboard.WasPressed(imgui.KeyRightArrow) {
		pan[0] += 1
	}
	if keyboard.WasPressed(imgui.KeyDownArrow) {
		pan[1] -= 1
	}
	if keyboard.WasPressed(imgui.KeyUpArrow) {
		pan[1] += 1
	}
	if pan != ([2]float32{}) {
		step := mp.RangeNM / 4
		mp.Center = math.Add2LL(mp.Center,
			math.Point2LL{pan[0] * step / math.NMPerLongitudeAt(mp.Center), pan[1] * step / math.NMPerLatitude})
	}

	if keyboard.WasPressed(imgui.KeyHome) && ctx.Mission != nil {
		mp.framePlan(ctx.Mission.Plan, ctx.PaneExtent)
	}

	if keyboard.WasPressed(imgui.KeyEscape) {
		if mp.pickArmed {
			mp.pickArmed = false
		} else {
			ctx.KeyboardFocus.Release()
		}
	}
}

// graticuleSpacing returns the spacing between graticule lines in
// degrees, the finest step from the ladder that keeps the on-screen
// line count modest.
func graticuleSpacing(rangenm float32) float32 {
	height := 2 * rangenm / math.NMPerLatitude // degrees of latitude shown
	for _, s := range [...]float32{0.05, 0.1, 0.25, 0.5, 1, 2, 5} {
		if height/s <= 6 {
			return s
		}
	}
	return 10
}

func (mp *MapPane) drawGraticule(ctx *panes.Context, transforms *viewTransforms,
	td *renderer.TextDrawBuilder, cb *renderer.CommandBuffer) {
	ld := renderer.GetLinesDrawBuilder()
	defer renderer.ReturnLinesDrawBuilder(ld)

	ext := transforms.VisibleExtent(ctx.PaneExtent)
	spacing := graticuleSpacing(mp.RangeNM)
	style := renderer.TextStyle{Font: mp.labelFont, Color: graticuleTextColor}

	for i := int(math.Ceil(ext.P0[1] / spacing)); float32(i)*spacing <= ext.P1[1]; i++ {
		lat := float32(i) * spacing
		ld.AddLine([2]float32{ext.P0[0], lat}, [2]float32{ext.P1[0], lat})
		if mp.labelFont != nil {
			pw := transforms.WindowFromLatLongP(math.Point2LL{mp.Center[0], lat})
			td.AddText(fmt.Sprintf("%g°", lat), [2]float32{2, pw[1] - 2}, style)
		}
	}
	for i := int(math.Ceil(ext.P0[0] / spacing)); float32(i)*spacing <= ext.P1[0]; i++ {
		lon := float32(i) * spacing
		ld.AddLine([2]float32{lon, ext.P0[1]}, [2]float32{lon, ext.P1[1]})
		if mp.labelFont != nil {
			pw := transforms.WindowFromLatLongP(math.Point2LL{lon, mp.Center[1]})
			td.AddText(fmt.Sprintf("%g°", lon), [2]float32{pw[0] + 2, float32(mp.labelFont.Size) + 2}, style)
		}
	}

	cb.SetRGB(graticuleColor)
	cb.LineWidth(1, ctx.DPIScale)
	ld.GenerateCommands(cb)
}

func (mp *MapPane) drawLayers(ctx *panes.Context, transforms *viewTransforms, cb *renderer.CommandBuffer) {
	bucket := rangeBucket(mp.RangeNM)
	ld := renderer.GetLinesDrawBuilder()
	defer renderer.ReturnLinesDrawBuilder(ld)

	for _, l := range mp.layers {
		if _, hidden := mp.HiddenLayers[l.Name]; hidden {
			continue
		}

		key := layerKey{name: l.Name, bucket: bucket}
		strips, ok := mp.decimated.Get(key)
		if !ok {
			strips = l.decimate(transforms.nmPerLongitude, bucketToleranceNM(bucket))
			mp.decimated.Add(key, strips)
		}

		ld.Reset()
		for _, s := range strips {
			ld.AddLineStrip(s)
		}
		cb.SetRGB(l.rgb())
		cb.LineWidth(1, ctx.DPIScale)
		ld.GenerateCommands(cb)
	}
}

// syncGeofence retriangulates the fence fill if the plan's fence has
// changed since it was last built.
func (mp *MapPane) syncGeofence(fence []math.Point2LL) {
	if slices.Equal(fence, mp.fenceVerts) {
		return
	}
	mp.fenceVerts = slices.Clone(fence)
	mp.fenceTris = mp.fenceTris[:0]
	if len(fence) < 3 {
		return
	}

	vertices := make([]earcut.Vertex, len(fence))
	for i, v := range fence {
		vertices[i].P = [2]float64{float64(v[0]), float64(v[1])}
	}
	for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{vertices}}) {
		var v32 [3]math.Point2LL
		for i, v64 := range tri.Vertices {
			v32[i] = [2]float32{float32(v64.P[0]), float32(v64.P[1])}
		}
		mp.fenceTris = append(mp.fenceTris, v32)
	}
}

func (mp *MapPane) drawGeofence(ctx *panes.Context, cld *renderer.ColoredLinesDrawBuilder, cb *renderer.CommandBuffer) {
	fence := ctx.Mission.Plan.Geofence
	mp.syncGeofence(fence)
	if len(fence) < 3 {
		return
	}

	// Shade the interior lightly so charts stay readable under it.
	trid := renderer.GetTrianglesDrawBuilder()
	defer renderer.ReturnTrianglesDrawBuilder(trid)
	for _, tri := range mp.fenceTris {
		trid.AddTriangle(tri[0], tri[1], tri[2])
	}
	fence32 := util.MapSlice(fence, func(p math.Point2LL) [2]float32 { return p })

	cb.Blend()
	cb.SetRGBA(renderer.RGBA{R: panes.UICautionColor.R, G: panes.UICautionColor.G, B: panes.UICautionColor.B, A: 0.15})
	trid.GenerateCommands(cb)
	cb.DisableBlend()

	cld.AddLineLoop(panes.UICautionColor, fence32)
}

func (mp *MapPane) drawRoute(ctx *panes.Context, cld *renderer.ColoredLinesDrawBuilder) {
	plan := ctx.Mission.Plan
	if len(plan.Waypoints) > 0 {
		// Launch leg from home to the first waypoint.
		cld.AddLine(plan.Home, plan.Waypoints[0].Location, launchLegColor)
	}
	for i := range len(plan.Waypoints) - 1 {
		cld.AddLine(plan.Waypoints[i].Location, plan.Waypoints[i+1].Location, routeColor)
	}
}

func (mp *MapPane) drawOverlay(ctx *panes.Context, transforms *viewTransforms,
	trid *renderer.ColoredTrianglesDrawBuilder, td *renderer.TextDrawBuilder, cb *renderer.CommandBuffer) {
	ps := ctx.DrawPixelScale

	if ctx.Mission != nil {
		plan := ctx.Mission.Plan
		style := renderer.TextStyle{Font: mp.labelFont, Color: waypointColor}

		for _, wp := range plan.Waypoints {
			pw := transforms.WindowFromLatLongP(wp.Location)
			trid.AddCircle(pw, 3.5*ps, 12, waypointColor)
			if mp.labelFont != nil {
				td.AddText(wp.Name, math.Add2f(pw, [2]float32{5 * ps, 10 * ps}), style)
			}
		}

		// Home gets a diamond so it reads differently from waypoints.
		ph := transforms.WindowFromLatLongP(plan.Home)
		r := 5 * ps
		trid.AddQuad([2]float32{ph[0], ph[1] + r}, [2]float32{ph[0] + r, ph[1]},
			[2]float32{ph[0], ph[1] - r}, [2]float32{ph[0] - r, ph[1]}, homeColor)
		if mp.labelFont != nil {
			td.AddText("HOME", math.Add2f(ph, [2]float32{7 * ps, 12 * ps}),
				renderer.TextStyle{Font: mp.labelFont, Color: homeColor})
		}
	}

	if mp.pickArmed {
		if mp.labelFont != nil {
			td.AddText("PICK: click to add a waypoint",
				[2]float32{4, ctx.PaneExtent.Height() - 4},
				renderer.TextStyle{Font: mp.labelFont, Color: panes.UICautionColor,
					DrawBackground: true, BackgroundColor: mapBackgroundColor})
		}
		if ctx.Mouse != nil {
			ld := renderer.GetLinesDrawBuilder()
			defer renderer.ReturnLinesDrawBuilder(ld)

			p := ctx.Mouse.Pos
			ld.AddLine(math.Add2f(p, [2]float32{-8 * ps, 0}), math.Add2f(p, [2]float32{8 * ps, 0}))
			ld.AddLine(math.Add2f(p, [2]float32{0, -8 * ps}), math.Add2f(p, [2]float32{0, 8 * ps}))
			cb.SetRGB(panes.UICautionColor)
			cb.LineWidth(1, ctx.DPIScale)
			ld.GenerateCommands(cb)
		}
	}
}
