// controls/ticks.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	gomath "math"
)

// Tick is one graduation mark on a dial face.
type Tick struct {
	Value float64
	Major bool
}

// TickMarks generates the graduations for a dial: values from min to max
// at intervals of every, with each majorEvery'th tick (counting from min,
// which is always major) flagged for heavier rendering. The result is a
// pure derivation for the renderer; it carries no state.
func TickMarks(min, max, every float64, majorEvery int) []Tick {
	if every <= 0 || max <= min {
		return nil
	}

	var ticks []Tick
	for i := 0; ; i++ {
		// Multiply rather than accumulate so rounding error doesn't
		// drift over long runs of ticks.
		v := min + float64(i)*every
		if v > max+every*1e-6 {
			break
		}
		ticks = append(ticks, Tick{
			Value: gomath.Min(v, max),
			Major: majorEvery > 0 && i%majorEvery == 0,
		})
	}
	return ticks
}
