// controls/arc_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	gomath "math"
	"testing"
)

func TestAngleOfValue(t *testing.T) {
	a := Arc{Min: 0, Max: 100, Start: -gomath.Pi / 2, End: gomath.Pi / 2}

	cases := []struct {
		v, want float64
	}{
		{0, -gomath.Pi / 2},
		{50, 0},
		{100, gomath.Pi / 2},
		{25, -gomath.Pi / 4},
		// Out-of-range values extrapolate; nothing clamps here.
		{150, 3 * gomath.Pi / 4},
		{-50, -gomath.Pi},
	}
	for _, c := range cases {
		if got := a.AngleOfValue(c.v); gomath.Abs(got-c.want) > 1e-9 {
			t.Errorf("AngleOfValue(%v) = %v, expected %v", c.v, got, c.want)
		}
	}
}

func TestValueOfAngle(t *testing.T) {
	a := Arc{Min: 0, Max: 100, Start: -gomath.Pi / 2, End: gomath.Pi / 2}

	cases := []struct {
		angle, step, want float64
	}{
		{0, 1, 50},
		{-gomath.Pi / 2, 1, 0},
		{gomath.Pi / 2, 1, 100},
		{gomath.Pi / 4, 1, 75},
		{gomath.Pi / 4, 10, 80}, // 75 rounds up on a step of 10
	}
	for _, c := range cases {
		if got := a.ValueOfAngle(c.angle, c.step); got != c.want {
			t.Errorf("ValueOfAngle(%v, step %v) = %v, expected %v", c.angle, c.step, got, c.want)
		}
	}
}

func TestValueOfAngleClampsOutsideArc(t *testing.T) {
	a := Arc{Min: 0, Max: 100, Start: -3 * gomath.Pi / 4, End: 3 * gomath.Pi / 4}

	// Any angle before the start resolves to exactly Min, any angle past
	// the end to exactly Max. No value in between ever escapes the range.
	for angle := -gomath.Pi; angle < a.Start; angle += 0.01 {
		if got := a.ValueOfAngle(angle, 1); got != a.Min {
			t.Errorf("ValueOfAngle(%v) = %v, expected exactly %v", angle, got, a.Min)
		}
	}
	for angle := a.End + 1e-6; angle <= gomath.Pi; angle += 0.01 {
		if got := a.ValueOfAngle(angle, 1); got != a.Max {
			t.Errorf("ValueOfAngle(%v) = %v, expected exactly %v", angle, got, a.Max)
		}
	}
}

func TestArcRoundTrip(t *testing.T) {
	a := Arc{Min: 0, Max: 600, Start: -3 * gomath.Pi / 4, End: 3 * gomath.Pi / 4}

	// Values on the step grid survive a trip through angle space.
	for v := 0.0; v <= 600; v += 5 {
		if got := a.ValueOfAngle(a.AngleOfValue(v), 5); gomath.Abs(got-v) > 1e-9 {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}
}
