// controls/arc.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package controls implements the value-selection engine behind the
// panel's radial instruments: the mapping between numeric values and
// angular positions on a dial arc, step rounding, tick generation, the
// pointer/keyboard interaction state machine, and the unit-aware models
// that sit on top.
package controls

import (
	"github.com/avdeck/skydeck/math"
)

// Arc describes a dial: the value domain [Min, Max] and the angular span
// [Start, End] it is drawn over. Angles are in radians, measured
// clockwise from twelve o'clock to match math.ArcPoints, so the angle
// under a pointer offset (dx, dy) from the dial center, y up, is the raw
// atan2(dx, dy). End - Start is the full sweep; the mapping never wraps.
// (A compass dial's wrap-around belongs to HeadingModel, one layer up.)
//
// Min must be strictly less than Max and Start must differ from End; a
// zero-width domain makes the mapping undefined. No caller constructs
// one, so it is a precondition rather than a runtime check.
type Arc struct {
	Min, Max   float64
	Start, End float64
}

// AngleOfValue returns the angle at which v sits on the arc. It does not
// clamp: out-of-range values extrapolate linearly past the arc ends, so
// a thumb being dragged past a boundary keeps moving with the pointer.
func (a Arc) AngleOfValue(v float64) float64 {
	t := (v - a.Min) / (a.Max - a.Min)
	return math.Lerp(t, a.Start, a.End)
}

// ValueOfAngle resolves a pointer angle to a legal value: the
// interpolant is clamped to the arc before mapping back to [Min, Max],
// then rounded to step and clamped again. The clamping is deliberately
// asymmetric with AngleOfValue: pointer input always originates from a
// bounded physical device and must resolve to a value in range, while
// programmatic display must not lie about an out-of-range value it was
// asked to show.
func (a Arc) ValueOfAngle(angle, step float64) float64 {
	t := (angle - a.Start) / (a.End - a.Start)
	t = math.Clamp(t, 0, 1)
	v := math.Lerp(t, a.Min, a.Max)
	return math.Clamp(RoundToStep(v, step), a.Min, a.Max)
}
