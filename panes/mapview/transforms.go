// panes/mapview/transforms.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapview

import (
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/renderer"
)

// viewTransforms carries the matrices between the coordinate spaces the
// map works in: latitude-longitude, pane window coordinates, and NDC
// for the rasterizer.
type viewTransforms struct {
	ndcFromLatLong                       math.Matrix3
	ndcFromWindow                        math.Matrix3
	latLongFromWindow, windowFromLatLong math.Matrix3

	// Local scale at the view center; longitude degrees shrink with
	// latitude while latitude degrees do not.
	nmPerLongitude float32
}

// getViewTransforms returns the transformations for an orthographic view
// centered at center where the pane vertically spans rangenm nautical
// miles from the center to the top edge.
func getViewTransforms(paneExtent math.Extent2D, center math.Point2LL, rangenm float32) viewTransforms {
	width, height := paneExtent.Width(), paneExtent.Height()
	aspect := width / height
	nmPerLongitude := math.NMPerLongitudeAt(center)

	ndcFromLatLong := math.Identity3x3().
		// Orthographic projection with the pane's aspect ratio.
		Ortho(-aspect, aspect, -1, 1).
		// Scale based on range and nm per latitude / longitude.
		Scale(nmPerLongitude/rangenm, math.NMPerLatitude/rangenm).
		// Translate to the view center.
		Translate(-center[0], -center[1])

	ndcFromWindow := math.Identity3x3().
		Translate(-1, -1).
		Scale(2/width, 2/height)

	latLongFromWindow := ndcFromLatLong.Inverse().PostMultiply(ndcFromWindow)

	return viewTransforms{
		ndcFromLatLong:    ndcFromLatLong,
		ndcFromWindow:     ndcFromWindow,
		latLongFromWindow: latLongFromWindow,
		windowFromLatLong: latLongFromWindow.Inverse(),
		nmPerLongitude:    nmPerLongitude,
	}
}

// LoadLatLongViewingMatrices adds commands to the command buffer to load
// viewing matrices so that latitude-longitude positions can be provided
// for subsequent vertices.
func (vt *viewTransforms) LoadLatLongViewingMatrices(cb *renderer.CommandBuffer) {
	cb.LoadProjectionMatrix(vt.ndcFromLatLong)
	cb.LoadModelViewMatrix(math.Identity3x3())
}

// LoadWindowViewingMatrices adds commands to the command buffer to load
// viewing matrices so that window-coordinate positions can be provided
// for subsequent vertices.
func (vt *viewTransforms) LoadWindowViewingMatrices(cb *renderer.CommandBuffer) {
	cb.LoadProjectionMatrix(vt.ndcFromWindow)
	cb.LoadModelViewMatrix(math.Identity3x3())
}

// WindowFromLatLongP transforms a point given in latitude-longitude
// coordinates to window coordinates, snapped to a pixel center.
func (vt *viewTransforms) WindowFromLatLongP(p math.Point2LL) [2]float32 {
	pw := vt.windowFromLatLong.TransformPoint(p)
	pw[0], pw[1] = float32(int(pw[0]+0.5))+0.5, float32(int(pw[1]+0.5))+0.5
	return pw
}

// LatLongFromWindowP transforms a point p in window coordinates to
// latitude-longitude.
func (vt *viewTransforms) LatLongFromWindowP(p [2]float32) math.Point2LL {
	return vt.latLongFromWindow.TransformPoint(p)
}

// LatLongFromWindowV transforms a vector in window coordinates to a
// vector in latitude-longitude coordinates.
func (vt *viewTransforms) LatLongFromWindowV(v [2]float32) math.Point2LL {
	return vt.latLongFromWindow.TransformVector(v)
}

// VisibleExtent returns the latitude-longitude bounding box of the part
// of the world the pane shows.
func (vt *viewTransforms) VisibleExtent(paneExtent math.Extent2D) math.Extent2D {
	p0 := vt.LatLongFromWindowP([2]float32{0, 0})
	p1 := vt.LatLongFromWindowP([2]float32{paneExtent.Width(), paneExtent.Height()})
	return math.Union(math.Extent2DFromPoints([][2]float32{p0}), p1)
}

// PixelDistanceNM returns the space between adjacent pixels expressed in
// nautical miles.
func (vt *viewTransforms) PixelDistanceNM() float32 {
	ll := vt.LatLongFromWindowV([2]float32{1, 0})
	return math.Length2f([2]float32{ll[0] * vt.nmPerLongitude, ll[1] * math.NMPerLatitude})
}
