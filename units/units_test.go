// units/units_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package units

import (
	"errors"
	"math"
	"testing"
)

func TestConvertLiterals(t *testing.T) {
	tests := []struct {
		q        Quantity
		to       Unit
		expected float64
	}{
		{Quantity{100, KilometersPerHour}, MetersPerSecond, 27.7778},
		{Quantity{1000, Feet}, Meters, 304.8},
		{Quantity{1, Knots}, MetersPerSecond, 0.514444},
		{Quantity{100, MilesPerHour}, Knots, 86.8976},
		{Quantity{18288, Meters}, Feet, 60000},
		{Quantity{250, Knots}, KilometersPerHour, 463},
	}

	for _, tt := range tests {
		result, err := Convert(tt.q, tt.to)
		if err != nil {
			t.Errorf("Convert(%v, %s): unexpected error: %v", tt.q, tt.to, err)
			continue
		}
		if result.Unit != tt.to {
			t.Errorf("Convert(%v, %s) returned unit %s", tt.q, tt.to, result.Unit)
		}
		if math.Abs(result.Value-tt.expected) > 1e-3 {
			t.Errorf("Convert(%v, %s) = %.6f, expected %.4f", tt.q, tt.to, result.Value, tt.expected)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	dims := [][]Unit{LengthUnits, SpeedUnits}
	values := []float64{-12345.678, -1, 0, 0.001, 1, 27.7778, 304.8, 60000, 1e7}

	for _, us := range dims {
		for _, a := range us {
			for _, b := range us {
				for _, v := range values {
					q0 := Quantity{v, a}
					q1, err := Convert(q0, b)
					if err != nil {
						t.Fatalf("Convert(%v, %s): %v", q0, b, err)
					}
					q2, err := Convert(q1, a)
					if err != nil {
						t.Fatalf("Convert(%v, %s): %v", q1, a, err)
					}
					if tol := 1e-9 * math.Max(1, math.Abs(v)); math.Abs(q2.Value-v) > tol {
						t.Errorf("%s -> %s -> %s round trip of %g gave %g", a, b, a, v, q2.Value)
					}
				}
			}
		}
	}
}

func TestConvertSameUnit(t *testing.T) {
	q, err := Convert(Quantity{123.456, Knots}, Knots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Value != 123.456 {
		t.Errorf("identity conversion changed value: %g", q.Value)
	}
}

func TestConvertUnsupportedUnit(t *testing.T) {
	if _, err := Convert(Quantity{1, Unit("furlongs")}, Meters); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("expected ErrUnsupportedUnit, got %v", err)
	}
	if _, err := Convert(Quantity{1, Meters}, Unit("cubits")); !errors.Is(err, ErrUnsupportedUnit) {
		t.Errorf("expected ErrUnsupportedUnit, got %v", err)
	}
}

func TestConvertDimensionMismatch(t *testing.T) {
	for _, pair := range [][2]Unit{{Feet, KilometersPerHour}, {Knots, Meters}, {Meters, MetersPerSecond}} {
		if _, err := Convert(Quantity{1, pair[0]}, pair[1]); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("%s -> %s: expected ErrDimensionMismatch, got %v", pair[0], pair[1], err)
		}
	}
}

func TestUnitDimension(t *testing.T) {
	for _, u := range LengthUnits {
		if d, ok := u.Dimension(); !ok || d != Length {
			t.Errorf("%s: dimension %v, ok %v", u, d, ok)
		}
	}
	for _, u := range SpeedUnits {
		if d, ok := u.Dimension(); !ok || d != Speed {
			t.Errorf("%s: dimension %v, ok %v", u, d, ok)
		}
	}
	if _, ok := Unit("parsecs").Dimension(); ok {
		t.Errorf("bogus unit reported a valid dimension")
	}
}
