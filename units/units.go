// units/units.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package units provides conversion between the measurement units used by
// the panel controls. Conversions route through a canonical unit per
// physical dimension (metres for length, metres per second for speed), so
// supporting another unit only requires one new factor.
package units

import (
	"errors"
	"fmt"
)

type Dimension int

const (
	Length Dimension = iota
	Speed
)

func (d Dimension) String() string {
	switch d {
	case Length:
		return "length"
	case Speed:
		return "speed"
	default:
		return "unknown"
	}
}

type Unit string

const (
	Meters            Unit = "m"
	Feet              Unit = "ft"
	MetersPerSecond   Unit = "ms"
	KilometersPerHour Unit = "kmh"
	MilesPerHour      Unit = "mph"
	Knots             Unit = "kts"
)

var (
	ErrUnsupportedUnit   = errors.New("unsupported unit")
	ErrDimensionMismatch = errors.New("unit dimension mismatch")
)

type unitInfo struct {
	dimension Dimension
	factor    float64 // converts one of this unit to the dimension's canonical unit
	label     string
}

// The factor table is fixed at compile time; there is deliberately no way
// to register units at runtime.
var units = map[Unit]unitInfo{
	Meters:            {Length, 1, "m"},
	Feet:              {Length, 0.3048, "ft"},
	MetersPerSecond:   {Speed, 1, "m/s"},
	KilometersPerHour: {Speed, 1000.0 / 3600, "km/h"},
	MilesPerHour:      {Speed, 0.44704, "mph"},
	Knots:             {Speed, 1852.0 / 3600, "kts"},
}

func (u Unit) Valid() bool {
	_, ok := units[u]
	return ok
}

// Dimension returns the physical dimension the unit measures. The second
// return value is false for units outside the supported set.
func (u Unit) Dimension() (Dimension, bool) {
	info, ok := units[u]
	return info.dimension, ok
}

// Label returns the display form of the unit, e.g. "km/h" for kmh.
func (u Unit) Label() string {
	if info, ok := units[u]; ok {
		return info.label
	}
	return string(u)
}

// Quantity is a numeric value tagged with its unit. It carries no range
// constraints; range validation belongs to the control using it.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.Value, q.Unit.Label())
}

// Convert re-expresses q in the given unit. It returns ErrUnsupportedUnit
// if either unit has no registered factor and ErrDimensionMismatch for
// conversions across dimensions (feet to knots and the like), which are
// numerically meaningless.
func Convert(q Quantity, to Unit) (Quantity, error) {
	from, ok := units[q.Unit]
	if !ok {
		return Quantity{}, fmt.Errorf("%q: %w", q.Unit, ErrUnsupportedUnit)
	}
	target, ok := units[to]
	if !ok {
		return Quantity{}, fmt.Errorf("%q: %w", to, ErrUnsupportedUnit)
	}
	if from.dimension != target.dimension {
		return Quantity{}, fmt.Errorf("%s -> %s: %w", q.Unit.Label(), to.Label(), ErrDimensionMismatch)
	}

	canonical := q.Value * from.factor
	return Quantity{Value: canonical / target.factor, Unit: to}, nil
}

// LengthUnits and SpeedUnits list the supported units per dimension, in
// the order they cycle in the unit selectors.
var (
	LengthUnits = []Unit{Feet, Meters}
	SpeedUnits  = []Unit{Knots, KilometersPerHour, MilesPerHour, MetersPerSecond}
)
