// controls/models.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	"fmt"
	gomath "math"
	"slices"

	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/units"
)

// dialSweep is the half-angle of the standard instrument arc: 270
// degrees of travel with the gap centered at six o'clock, which also
// keeps the atan2 cut inside the gap.
const dialSweep = 3 * gomath.Pi / 4

///////////////////////////////////////////////////////////////////////////
// HeadingModel

// HeadingModel is the compass policy layered on a full-circle dial:
// emitted headings always land in [0, 360), and with Snap enabled a
// value within one Step of a cardinal direction locks onto it exactly.
// The wrap-around lives here rather than in Arc, whose mapping never
// wraps.
type HeadingModel struct {
	Step float64
	Snap bool
}

// Arc returns the compass dial's arc. The domain is [-180, 180] over the
// full atan2 output range, so a pointer anywhere on the card resolves
// without clamping distortion; Normalize folds the result into compass
// range.
func (h HeadingModel) Arc() Arc {
	return Arc{Min: -180, Max: 180, Start: -gomath.Pi, End: gomath.Pi}
}

// DialValue maps a compass heading onto the dial's [-180, 180] domain
// for needle placement.
func (h HeadingModel) DialValue(heading float64) float64 {
	if heading > 180 {
		return heading - 360
	}
	return heading
}

// Normalize folds any heading into [0, 360) and applies the cardinal
// snap. With snapping off the result is congruent to v mod 360 for
// every finite v.
func (h HeadingModel) Normalize(v float64) float64 {
	v = fold(v)
	if h.Snap {
		for _, c := range [...]float64{0, 90, 180, 270, 360} {
			if gomath.Abs(v-c) <= h.Step {
				return gomath.Mod(c, 360)
			}
		}
	}
	return v
}

// Adjust turns the heading by the given number of steps, negative for
// counterclockwise, wrapping through north rather than clamping; a
// compass has no end stops. The cardinal snap does not apply here: a
// stepped heading is on the grid already, and with a snap tolerance of
// one step it could never leave a cardinal.
func (h HeadingModel) Adjust(heading, steps float64, coarse bool) float64 {
	v := heading + steps*incrementStep(h.Step, coarse)
	return fold(RoundToStep(v, h.Step))
}

func fold(v float64) float64 {
	v = gomath.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

///////////////////////////////////////////////////////////////////////////
// QuantityModel

// QuantityModel is the state behind the unit-aware dials: the commanded
// quantity, the preset list, and the per-unit dial defaults. Switching
// units re-expresses the value and every preset so the dial's range and
// display stay numerically consistent across the change.
type QuantityModel struct {
	Value   units.Quantity
	Presets []units.Quantity

	cycle    []units.Unit
	defaults map[units.Unit]UnitDefaults
}

// NewSpeedModel returns a model for the commanded-speed dial, in knots
// with the built-in presets.
func NewSpeedModel() *QuantityModel {
	return &QuantityModel{
		Value:    units.Quantity{Value: 0, Unit: units.Knots},
		Presets:  slices.Clone(speedPresets),
		cycle:    units.SpeedUnits,
		defaults: speedDefaults,
	}
}

// NewAltitudeModel returns a model for the commanded-altitude dial, in
// feet with the built-in presets.
func NewAltitudeModel() *QuantityModel {
	return &QuantityModel{
		Value:    units.Quantity{Value: 0, Unit: units.Feet},
		Presets:  slices.Clone(altitudePresets),
		cycle:    units.LengthUnits,
		defaults: altitudeDefaults,
	}
}

// Defaults returns the dial configuration for the model's active unit.
func (m *QuantityModel) Defaults() UnitDefaults {
	return m.defaults[m.Value.Unit]
}

// Arc returns the dial arc for the active unit's range.
func (m *QuantityModel) Arc() Arc {
	d := m.Defaults()
	return Arc{Min: d.Min, Max: d.Max, Start: -dialSweep, End: dialSweep}
}

// Units lists the units this model cycles through, in selector order.
func (m *QuantityModel) Units() []units.Unit {
	return m.cycle
}

// Set commits a new value in the active unit, rounded to the unit's
// step and clamped to its range.
func (m *QuantityModel) Set(v float64) {
	d := m.Defaults()
	m.Value.Value = math.Clamp(RoundToStep(v, d.Step), d.Min, d.Max)
}

// SetUnit re-expresses the current value and all presets in u. The value
// converts exactly (no re-rounding, so flipping back and forth does not
// drift) and is clamped into the new unit's range, which need not cover
// the same physical span as the old one.
func (m *QuantityModel) SetUnit(u units.Unit) error {
	if u == m.Value.Unit {
		return nil
	}
	d, ok := m.defaults[u]
	if !ok {
		return fmt.Errorf("%s: no dial defaults for unit", u.Label())
	}

	q, err := units.Convert(m.Value, u)
	if err != nil {
		return err
	}
	presets := make([]units.Quantity, len(m.Presets))
	for i, p := range m.Presets {
		if presets[i], err = units.Convert(p, u); err != nil {
			return err
		}
	}

	q.Value = math.Clamp(q.Value, d.Min, d.Max)
	m.Value = q
	m.Presets = presets
	return nil
}

// CycleUnit switches to the next unit in selector order.
func (m *QuantityModel) CycleUnit() error {
	if i := slices.Index(m.cycle, m.Value.Unit); i != -1 {
		return m.SetUnit(m.cycle[(i+1)%len(m.cycle)])
	}
	return fmt.Errorf("%s: unit not in selector cycle", m.Value.Unit.Label())
}

// SelectPreset commits preset i, which SetUnit keeps expressed in the
// active unit.
func (m *QuantityModel) SelectPreset(i int) {
	if i >= 0 && i < len(m.Presets) {
		m.Set(m.Presets[i].Value)
	}
}

///////////////////////////////////////////////////////////////////////////
// DurationModel

// DurationSegment identifies one field of the duration editor.
type DurationSegment int

const (
	Hours DurationSegment = iota
	Minutes
	Seconds
)

func (s DurationSegment) seconds() int {
	switch s {
	case Hours:
		return 3600
	case Minutes:
		return 60
	default:
		return 1
	}
}

// DurationModel edits a non-negative duration as hour, minute, and
// second segments. It is pure arithmetic with no dial coupling: segment
// changes carry into their neighbors and the total never drops below
// zero.
type DurationModel struct {
	Seconds int
}

// HMS decomposes the duration into its display segments.
func (d *DurationModel) HMS() (h, m, s int) {
	return d.Seconds / 3600, (d.Seconds % 3600) / 60, d.Seconds % 60
}

// Adjust steps one segment by delta, carrying through the total, so
// decrementing minutes at 1:00:30 yields 0:59:30 rather than clamping
// the minute field.
func (d *DurationModel) Adjust(seg DurationSegment, delta int) {
	d.Seconds = max(0, d.Seconds+delta*seg.seconds())
}

// SetSegment replaces one segment with a typed-in value; overflow
// carries upward, so setting minutes to 75 yields an hour and fifteen.
func (d *DurationModel) SetSegment(seg DurationSegment, v int) {
	if v < 0 {
		v = 0
	}
	h, m, s := d.HMS()
	switch seg {
	case Hours:
		h = v
	case Minutes:
		m = v
	case Seconds:
		s = v
	}
	d.Seconds = h*3600 + m*60 + s
}

func (d *DurationModel) String() string {
	h, m, s := d.HMS()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
