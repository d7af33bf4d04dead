// panes/mapview/transforms_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapview

import (
	gomath "math"
	"testing"

	"github.com/avdeck/skydeck/math"
)

// A 400x600 pane; the aspect ratio is deliberately not 1 so that tests
// catch x/y mixups in the transforms.
var mapBounds = math.Extent2D{P1: [2]float32{400, 600}}

func TestWindowLatLongRoundTrip(t *testing.T) {
	center := math.Point2LL{-122.05, 37.41}
	tr := getViewTransforms(mapBounds, center, 10)

	// The pane center maps to the view center.
	if p := tr.LatLongFromWindowP([2]float32{200, 300}); gomath.Abs(float64(p[0]-center[0])) > 1e-4 ||
		gomath.Abs(float64(p[1]-center[1])) > 1e-4 {
		t.Errorf("pane center maps to %v, want %v", p, center)
	}

	// The top edge is one range above the center; only the latitude
	// scale is involved so the expected value is exact.
	wantLat := center[1] + 10.0/math.NMPerLatitude
	if p := tr.LatLongFromWindowP([2]float32{200, 600}); gomath.Abs(float64(p[1]-wantLat)) > 1e-4 {
		t.Errorf("top edge at latitude %v, want %v", p[1], wantLat)
	}

	for _, pw := range [][2]float32{{0, 0}, {17, 400}, {399, 599}, {200, 300}} {
		ll := tr.LatLongFromWindowP(pw)
		back := tr.WindowFromLatLongP(ll)
		// WindowFromLatLongP snaps to pixel centers, so allow a pixel.
		if math.Distance2f(pw, back) > 1 {
			t.Errorf("%v: round trip returned %v", pw, back)
		}
	}
}

func TestVisibleExtent(t *testing.T) {
	center := math.Point2LL{-122.05, 37.41}
	tr := getViewTransforms(mapBounds, center, 10)
	ext := tr.VisibleExtent(mapBounds)

	top, bottom := center[1]+10.0/math.NMPerLatitude, center[1]-10.0/math.NMPerLatitude
	if gomath.Abs(float64(ext.P1[1]-top)) > 1e-4 || gomath.Abs(float64(ext.P0[1]-bottom)) > 1e-4 {
		t.Errorf("visible latitudes [%v, %v], want [%v, %v]", ext.P0[1], ext.P1[1], bottom, top)
	}

	// Horizontally the pane covers aspect * 2 * range nm.
	aspect := mapBounds.Width() / mapBounds.Height()
	wantWidth := aspect * 2 * 10 / math.NMPerLongitudeAt(center)
	if w := ext.Width(); gomath.Abs(float64(w-wantWidth)) > 1e-4 {
		t.Errorf("visible longitude width %v, want %v", w, wantWidth)
	}
}

func TestPixelDistanceNM(t *testing.T) {
	tr := getViewTransforms(mapBounds, math.Point2LL{-122.05, 37.41}, 10)

	// 600 vertical pixels cover twice the range; pixels are square.
	want := 2 * 10.0 / mapBounds.Height()
	if got := tr.PixelDistanceNM(); gomath.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("pixel distance %v nm, want %v", got, want)
	}
}
