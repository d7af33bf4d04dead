// math/heading_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"math"
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	h := [][2]float32{{90, 90}, {360, 0}, {-10, 350}, {380, 20}, {-380, 340}}
	for _, pair := range h {
		if NormalizeHeading(pair[0]) != pair[1] {
			t.Errorf("normalize heading error: %f -> %f, expected %f",
				pair[0], NormalizeHeading(pair[0]), pair[1])
		}
	}
}

func TestOppositeHeading(t *testing.T) {
	h := [][2]float32{{90, 270}, {1, 181}, {2, 182}, {350, 170}}
	for _, pair := range h {
		if OppositeHeading(pair[0]) != pair[1] {
			t.Errorf("opposite heading error: %f -> %f, expected %f",
				pair[0], OppositeHeading(pair[0]), pair[1])
		}
		if OppositeHeading(pair[1]) != pair[0] {
			t.Errorf("opposite heading error: %f -> %f, expected %f",
				pair[1], OppositeHeading(pair[1]), pair[0])
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	type hd struct {
		a, b, d float32
	}

	for _, h := range []hd{hd{10, 90, 80}, hd{350, 12, 22}, hd{340, 120, 140}, hd{-90, 80, 170},
		hd{40, 181, 141}, hd{-170, 160, 30}, hd{-120, -150, 30}} {
		if HeadingDifference(h.a, h.b) != h.d {
			t.Errorf("headingDifference(%f, %f) -> %f, expected %f", h.a, h.b,
				HeadingDifference(h.a, h.b), h.d)
		}
		if HeadingDifference(h.b, h.a) != h.d {
			t.Errorf("headingDifference(%f, %f) -> %f, expected %f", h.b, h.a,
				HeadingDifference(h.b, h.a), h.d)
		}
	}
}

func TestCompass(t *testing.T) {
	type ch struct {
		h     float32
		dir   string
		short string
	}

	for _, c := range []ch{ch{0, "North", "N"}, ch{22, "North", "N"}, ch{338, "North", "N"},
		ch{337, "Northwest", "NW"}, ch{95, "East", "E"}, ch{47, "Northeast", "NE"},
		ch{140, "Southeast", "SE"}, ch{170, "South", "S"}, ch{205, "Southwest", "SW"},
		ch{260, "West", "W"}} {
		if Compass(c.h) != c.dir {
			t.Errorf("compass gave %s for %f; expected %s", Compass(c.h), c.h, c.dir)
		}
		if ShortCompass(c.h) != c.short {
			t.Errorf("shortCompass gave %s for %f; expected %s", ShortCompass(c.h), c.h, c.short)
		}
	}
}

func TestCardinalOrdinalDirection(t *testing.T) {
	tests := []struct {
		dir     CardinalOrdinalDirection
		heading float32
		short   string
	}{
		{North, 0, "N"},
		{NorthEast, 45, "NE"},
		{East, 90, "E"},
		{SouthEast, 135, "SE"},
		{South, 180, "S"},
		{SouthWest, 225, "SW"},
		{West, 270, "W"},
		{NorthWest, 315, "NW"},
	}

	for _, tt := range tests {
		if tt.dir.Heading() != tt.heading {
			t.Errorf("%v.Heading() = %f, expected %f", tt.dir, tt.dir.Heading(), tt.heading)
		}
		if tt.dir.ShortString() != tt.short {
			t.Errorf("%v.ShortString() = %s, expected %s", tt.dir, tt.dir.ShortString(), tt.short)
		}
	}
}

func TestVectorHeading(t *testing.T) {
	tests := []struct {
		name      string
		vector    [2]float32
		expected  float32
		tolerance float32
	}{
		{"north", [2]float32{0, 1}, 0, 0.01},
		{"northeast", [2]float32{1, 1}, 45, 0.01},
		{"east", [2]float32{1, 0}, 90, 0.01},
		{"southeast", [2]float32{1, -1}, 135, 0.01},
		{"south", [2]float32{0, -1}, 180, 0.01},
		{"southwest", [2]float32{-1, -1}, 225, 0.01},
		{"west", [2]float32{-1, 0}, 270, 0.01},
		{"northwest", [2]float32{-1, 1}, 315, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := VectorHeading(tt.vector)
			if Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("VectorHeading(%v) = %f, expected %f", tt.vector, result, tt.expected)
			}
		})
	}
}

func TestHeadingVector(t *testing.T) {
	for _, hdg := range []float32{0, 45, 90, 135, 180, 225, 270, 315} {
		result := HeadingVector(hdg)
		// Check that the vector points in the right direction
		calculatedHeading := VectorHeading(result)
		if Abs(calculatedHeading-hdg) > 0.01 {
			t.Errorf("HeadingVector(%f) produced vector with heading %f", hdg, calculatedHeading)
		}
		// Check that it's a unit vector
		length := math.Sqrt(float64(result[0]*result[0] + result[1]*result[1]))
		if math.Abs(length-1.0) > 0.01 {
			t.Errorf("HeadingVector(%f) produced vector with length %f, expected 1.0", hdg, length)
		}
	}
}
