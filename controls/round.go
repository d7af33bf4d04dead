// controls/round.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/avdeck/skydeck/units"
)

// RoundToStep returns the multiple of step nearest to v, requantized to
// the number of decimal digits in step's own representation so that e.g.
// step 0.25 yields two decimal places rather than whatever the float
// arithmetic produced. If the computation does not yield a finite number
// (step zero or non-finite), v is returned unchanged; in an interactive
// control, liveness wins over strictness.
func RoundToStep(v, step float64) float64 {
	r := gomath.Round(v/step) * step

	p := gomath.Pow(10, float64(StepDigits(step)))
	r = gomath.Round(r*p) / p

	if gomath.IsNaN(r) || gomath.IsInf(r, 0) {
		return v
	}
	return r
}

// StepDigits returns the number of digits after the decimal point in the
// shortest decimal representation of step: 0 for 5, 1 for 0.5, 2 for 0.25.
func StepDigits(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if idx := strings.IndexByte(s, '.'); idx != -1 {
		return len(s) - idx - 1
	}
	return 0
}

// FormatHeading gives the standard three-digit compass form, so 5 degrees
// is "005°" and north is "000°".
func FormatHeading(deg float64) string {
	h := int(gomath.Round(deg)) % 360
	if h < 0 {
		h += 360
	}
	return fmt.Sprintf("%03d°", h)
}

// FormatSpeed renders a speed with at most two decimal places, dropping
// trailing zeros so whole values display as integers.
func FormatSpeed(q units.Quantity) string {
	v := gomath.Round(q.Value*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + q.Unit.Label()
}

// FormatAltitude renders an altitude as whole metres or feet.
func FormatAltitude(q units.Quantity) string {
	return strconv.Itoa(int(gomath.Round(q.Value))) + " " + q.Unit.Label()
}
