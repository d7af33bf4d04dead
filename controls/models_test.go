// controls/models_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	gomath "math"
	"testing"

	"github.com/avdeck/skydeck/units"
)

func TestHeadingNormalize(t *testing.T) {
	h := HeadingModel{Step: 5}

	cases := []struct {
		v, want float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{361, 1},
		{725, 5},
		{-1, 359},
		{-90, 270},
		{-360, 0},
		{359.5, 359.5},
	}
	for _, c := range cases {
		if got := h.Normalize(c.v); got != c.want {
			t.Errorf("Normalize(%v) = %v, expected %v", c.v, got, c.want)
		}
	}
}

func TestHeadingNormalizeCongruent(t *testing.T) {
	h := HeadingModel{Step: 5}

	// The result is always in [0, 360) and differs from the input by an
	// exact multiple of 360.
	for d := -720; d <= 720; d += 7 {
		v := h.Normalize(float64(d))
		if v < 0 || v >= 360 {
			t.Errorf("Normalize(%d) = %v, outside [0, 360)", d, v)
		}
		if m := gomath.Mod(v-float64(d), 360); m != 0 {
			t.Errorf("Normalize(%d) = %v, not congruent mod 360 (residue %v)", d, v, m)
		}
	}
}

func TestHeadingCardinalSnap(t *testing.T) {
	h := HeadingModel{Step: 2, Snap: true}

	cases := []struct {
		v, want float64
	}{
		{91, 90},   // within one step of a cardinal
		{95, 95},   // more than one step away, untouched
		{88.5, 90},
		{1, 0},
		{359, 0},   // snaps through north
		{271, 270},
		{178, 180},
		{45, 45},
	}
	for _, c := range cases {
		if got := h.Normalize(c.v); got != c.want {
			t.Errorf("Normalize(%v) = %v, expected %v", c.v, got, c.want)
		}
	}

	// With snapping off, nearby values stay where they are.
	h.Snap = false
	if got := h.Normalize(91); got != 91 {
		t.Errorf("Normalize(91) with snap off = %v, expected 91", got)
	}
}

func TestHeadingAdjust(t *testing.T) {
	h := HeadingModel{Step: 5}

	cases := []struct {
		heading, steps float64
		coarse         bool
		want           float64
	}{
		{90, 1, false, 95},
		{90, -1, false, 85},
		{355, 1, false, 0},   // wraps through north going up
		{0, -1, false, 355},  // and coming back down
		{90, 1, true, 140},   // coarse step is ten times the fine one
		{10, -1, true, 320},
		{93, 1, false, 100},  // off-grid heading snaps onto the step
	}
	for _, c := range cases {
		if got := h.Adjust(c.heading, c.steps, c.coarse); got != c.want {
			t.Errorf("Adjust(%v, %v, coarse %v) = %v, expected %v", c.heading, c.steps, c.coarse, got, c.want)
		}
	}

	// Stepping must be able to leave a cardinal even with snapping on;
	// the snap only captures pointer-derived and typed-in headings.
	h.Snap = true
	if got := h.Adjust(90, 1, false); got != 95 {
		t.Errorf("Adjust(90, 1) with snap = %v, expected 95", got)
	}
	if got := h.Adjust(0, -1, false); got != 355 {
		t.Errorf("Adjust(0, -1) with snap = %v, expected 355", got)
	}
}

func TestHeadingDialValue(t *testing.T) {
	h := HeadingModel{Step: 5}

	cases := []struct {
		heading, want float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{180.5, -179.5},
		{270, -90},
		{359, -1},
	}
	for _, c := range cases {
		if got := h.DialValue(c.heading); got != c.want {
			t.Errorf("DialValue(%v) = %v, expected %v", c.heading, got, c.want)
		}
	}

	// DialValue and Normalize invert each other over the dial domain,
	// except at -180, which folds onto +180.
	hNoSnap := HeadingModel{Step: 1}
	for d := -179.0; d <= 180; d += 1 {
		if got := hNoSnap.DialValue(hNoSnap.Normalize(d)); got != d {
			t.Errorf("DialValue(Normalize(%v)) = %v", d, got)
		}
	}
}

func TestSpeedModelSetAndRound(t *testing.T) {
	m := NewSpeedModel()
	if m.Value.Unit != units.Knots {
		t.Fatalf("new speed model in %v, expected knots", m.Value.Unit)
	}

	m.Set(117)
	if m.Value.Value != 115 { // knots dial steps by 5
		t.Errorf("Set(117) gave %v, expected 115", m.Value.Value)
	}
	m.Set(1e6)
	if m.Value.Value != m.Defaults().Max {
		t.Errorf("Set far past the range gave %v, expected %v", m.Value.Value, m.Defaults().Max)
	}
	m.Set(-10)
	if m.Value.Value != 0 {
		t.Errorf("Set(-10) gave %v, expected 0", m.Value.Value)
	}
}

func TestSpeedModelUnitRoundTrip(t *testing.T) {
	m := NewSpeedModel()
	m.Set(120)

	if err := m.SetUnit(units.KilometersPerHour); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	if gomath.Abs(m.Value.Value-222.24) > 1e-9 {
		t.Errorf("120 kts = %v km/h, expected 222.24", m.Value.Value)
	}
	if step := m.Defaults().Step; step != 10 {
		t.Errorf("km/h dial step %v, expected 10", step)
	}

	// Presets follow the unit switch.
	if gomath.Abs(m.Presets[0].Value-37.04) > 1e-9 || m.Presets[0].Unit != units.KilometersPerHour {
		t.Errorf("first preset after switch: %v", m.Presets[0])
	}

	// Converting back restores the original value; nothing re-rounds on
	// the way through.
	if err := m.SetUnit(units.Knots); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	if gomath.Abs(m.Value.Value-120) > 1e-9 {
		t.Errorf("round trip gave %v kts, expected 120", m.Value.Value)
	}
}

func TestSpeedModelClampOnUnitSwitch(t *testing.T) {
	m := NewSpeedModel()
	m.Set(600)

	// 600 kts is 1111.2 km/h, past the km/h dial's 1100 ceiling.
	if err := m.SetUnit(units.KilometersPerHour); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	if m.Value.Value != 1100 {
		t.Errorf("got %v km/h, expected the range ceiling 1100", m.Value.Value)
	}
}

func TestSpeedModelBadUnit(t *testing.T) {
	m := NewSpeedModel()
	m.Set(120)

	for _, u := range []units.Unit{units.Feet, units.Meters, units.Unit("furlongs")} {
		if err := m.SetUnit(u); err == nil {
			t.Errorf("SetUnit(%v) succeeded on a speed model", u)
		}
	}
	if m.Value.Unit != units.Knots || m.Value.Value != 120 {
		t.Errorf("failed SetUnit modified the model: %v", m.Value)
	}
}

func TestCycleUnit(t *testing.T) {
	m := NewSpeedModel()
	m.Set(120)

	want := []units.Unit{units.KilometersPerHour, units.MilesPerHour, units.MetersPerSecond, units.Knots}
	for _, u := range want {
		if err := m.CycleUnit(); err != nil {
			t.Fatalf("CycleUnit: %v", err)
		}
		if m.Value.Unit != u {
			t.Errorf("cycled to %v, expected %v", m.Value.Unit, u)
		}
	}

	// A full cycle returns both unit and value.
	if gomath.Abs(m.Value.Value-120) > 1e-9 {
		t.Errorf("full unit cycle gave %v kts, expected 120", m.Value.Value)
	}
}

func TestAltitudeModelConversion(t *testing.T) {
	m := NewAltitudeModel()
	if m.Value.Unit != units.Feet {
		t.Fatalf("new altitude model in %v, expected feet", m.Value.Unit)
	}

	m.Set(1000)
	if err := m.SetUnit(units.Meters); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	if gomath.Abs(m.Value.Value-304.8) > 1e-9 {
		t.Errorf("1000 ft = %v m, expected 304.8", m.Value.Value)
	}

	d := m.Defaults()
	if d.Min != 0 || d.Max != 18288 || d.Step != 5 {
		t.Errorf("meters dial defaults %+v", d)
	}
}

func TestSelectPreset(t *testing.T) {
	m := NewAltitudeModel()

	m.SelectPreset(1)
	if m.Value.Value != 1000 {
		t.Errorf("preset 1 gave %v, expected 1000", m.Value.Value)
	}

	// Out-of-range indices change nothing.
	m.SelectPreset(-1)
	m.SelectPreset(len(m.Presets))
	if m.Value.Value != 1000 {
		t.Errorf("bad preset index changed the value to %v", m.Value.Value)
	}

	// After a unit switch the preset is committed in the new unit and
	// rounded to its dial step.
	if err := m.SetUnit(units.Meters); err != nil {
		t.Fatalf("SetUnit: %v", err)
	}
	m.SelectPreset(0) // 500 ft, now 152.4 m, rounded to the 5 m step
	if m.Value.Value != 150 {
		t.Errorf("preset 0 in meters gave %v, expected 150", m.Value.Value)
	}
}

func TestDurationHMS(t *testing.T) {
	cases := []struct {
		seconds, h, m, s int
		str              string
	}{
		{0, 0, 0, 0, "00:00:00"},
		{59, 0, 0, 59, "00:00:59"},
		{60, 0, 1, 0, "00:01:00"},
		{3725, 1, 2, 5, "01:02:05"},
		{86399, 23, 59, 59, "23:59:59"},
	}
	for _, c := range cases {
		d := DurationModel{Seconds: c.seconds}
		h, m, s := d.HMS()
		if h != c.h || m != c.m || s != c.s {
			t.Errorf("%d seconds: got %d:%d:%d, expected %d:%d:%d", c.seconds, h, m, s, c.h, c.m, c.s)
		}
		if got := d.String(); got != c.str {
			t.Errorf("%d seconds: got %q, expected %q", c.seconds, got, c.str)
		}
	}
}

func TestDurationAdjust(t *testing.T) {
	d := DurationModel{Seconds: 3630} // 1:00:30
	d.Adjust(Minutes, -1)
	if h, m, s := d.HMS(); h != 0 || m != 59 || s != 30 {
		t.Errorf("decrementing minutes across the hour gave %d:%d:%d, expected 0:59:30", h, m, s)
	}

	d = DurationModel{Seconds: 65}
	d.Adjust(Minutes, -3)
	if d.Seconds != 0 {
		t.Errorf("adjusting below zero gave %d seconds, expected 0", d.Seconds)
	}
	d.Adjust(Seconds, -1)
	if d.Seconds != 0 {
		t.Errorf("decrementing at zero gave %d seconds, expected 0", d.Seconds)
	}

	d.Adjust(Hours, 2)
	d.Adjust(Seconds, 10)
	if d.Seconds != 7210 {
		t.Errorf("got %d seconds, expected 7210", d.Seconds)
	}
}

func TestDurationSetSegment(t *testing.T) {
	var d DurationModel
	d.SetSegment(Minutes, 75) // overflow carries into hours
	if h, m, s := d.HMS(); h != 1 || m != 15 || s != 0 {
		t.Errorf("setting minutes to 75 gave %d:%d:%d, expected 1:15:0", h, m, s)
	}

	d = DurationModel{Seconds: 3725} // 1:02:05
	d.SetSegment(Seconds, 90)
	if d.Seconds != 3810 { // 1:03:30
		t.Errorf("setting seconds to 90 gave %d, expected 3810", d.Seconds)
	}

	d.SetSegment(Hours, -4) // negative input clamps to zero
	if h, _, _ := d.HMS(); h != 0 {
		t.Errorf("negative hours gave %d, expected 0", h)
	}
}
