// controls/ticks_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import "testing"

func TestTickMarks(t *testing.T) {
	ticks := TickMarks(0, 100, 10, 2)
	if len(ticks) != 11 {
		t.Fatalf("got %d ticks, expected 11", len(ticks))
	}
	for i, tick := range ticks {
		if want := float64(i * 10); tick.Value != want {
			t.Errorf("tick %d: got value %v, expected %v", i, tick.Value, want)
		}
		if want := i%2 == 0; tick.Major != want {
			t.Errorf("tick %d (value %v): got major %v, expected %v", i, tick.Value, tick.Major, want)
		}
	}
}

func TestTickMarksFractionalSpacing(t *testing.T) {
	ticks := TickMarks(0, 1, 0.25, 4)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks, expected %d", len(ticks), len(want))
	}
	for i, tick := range ticks {
		if tick.Value != want[i] {
			t.Errorf("tick %d: got value %v, expected %v", i, tick.Value, want[i])
		}
	}
	if !ticks[0].Major || !ticks[4].Major {
		t.Errorf("expected major ticks at both ends, got %+v", ticks)
	}
	if ticks[1].Major || ticks[2].Major || ticks[3].Major {
		t.Errorf("unexpected major tick in %+v", ticks)
	}
}

func TestTickMarksEndpointIncluded(t *testing.T) {
	// The last tick lands on max even when spacing accumulates float error.
	ticks := TickMarks(0, 60000, 5000, 2)
	if len(ticks) != 13 {
		t.Fatalf("got %d ticks, expected 13", len(ticks))
	}
	if last := ticks[len(ticks)-1].Value; last != 60000 {
		t.Errorf("last tick at %v, expected 60000", last)
	}
}

func TestTickMarksDegenerate(t *testing.T) {
	cases := []struct {
		min, max, every float64
	}{
		{0, 100, 0},
		{0, 100, -5},
		{100, 100, 10},
		{100, 0, 10},
	}
	for _, c := range cases {
		if ticks := TickMarks(c.min, c.max, c.every, 2); ticks != nil {
			t.Errorf("TickMarks(%v, %v, %v) = %v, expected nil", c.min, c.max, c.every, ticks)
		}
	}
}

func TestTickMarksNoMajor(t *testing.T) {
	for _, tick := range TickMarks(0, 50, 10, 0) {
		if tick.Major {
			t.Errorf("tick at %v marked major with majorEvery 0", tick.Value)
		}
	}
}
