// panes/mapview/layers_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapview

import (
	"testing"

	"github.com/avdeck/skydeck/math"
)

func TestRangeBucket(t *testing.T) {
	for _, tc := range []struct {
		rangenm float32
		bucket  int
	}{
		{1, 0},
		{8, 3},
		{11, 3},
		{12, 4},
		{0.1, -1},    // clamped to the minimum range
		{10000, 9},   // clamped to the maximum range
		{512, 9},
	} {
		if got := rangeBucket(tc.rangenm); got != tc.bucket {
			t.Errorf("rangeBucket(%v) = %d, want %d", tc.rangenm, got, tc.bucket)
		}
	}
}

func TestBucketTolerance(t *testing.T) {
	if got := bucketToleranceNM(9); got != 1 {
		t.Errorf("tolerance at the coarsest bucket %v, want 1", got)
	}
	if got := bucketToleranceNM(3); got != 8.0/512 {
		t.Errorf("tolerance at bucket 3 %v, want %v", got, 8.0/512)
	}
	for b := rangeBucket(minRangeNM); b < rangeBucket(maxRangeNM); b++ {
		if bucketToleranceNM(b) >= bucketToleranceNM(b+1) {
			t.Errorf("tolerance not increasing from bucket %d to %d", b, b+1)
		}
	}
}

func TestDecimate(t *testing.T) {
	line := make([]math.Point2LL, 11)
	for i := range line {
		line[i] = math.Point2LL{-122, 37 + float32(i)*0.001}
	}
	layer := &chartLayer{Lines: [][]math.Point2LL{line}}

	// 0.001 degrees of latitude is 0.06 nm, so a tolerance below that
	// keeps every vertex.
	strips := layer.decimate(48, 0.05)
	if len(strips) != 1 {
		t.Fatalf("got %d strips, want 1", len(strips))
	}
	if len(strips[0]) != len(line) {
		t.Errorf("fine tolerance kept %d vertices, want %d", len(strips[0]), len(line))
	}

	// A tolerance beyond the whole line's extent keeps only the
	// endpoints.
	strips = layer.decimate(48, 1)
	if len(strips) != 1 || len(strips[0]) != 2 {
		t.Fatalf("coarse tolerance gave %+v, want the two endpoints", strips)
	}
	if strips[0][0] != [2]float32(line[0]) || strips[0][1] != [2]float32(line[len(line)-1]) {
		t.Errorf("kept %v and %v, want the endpoints %v and %v",
			strips[0][0], strips[0][1], line[0], line[len(line)-1])
	}

	// Degenerate lines disappear rather than drawing stray points.
	layer = &chartLayer{Lines: [][]math.Point2LL{{{-122, 37}}, {}}}
	if strips := layer.decimate(48, 1); len(strips) != 0 {
		t.Errorf("single-vertex lines should be dropped, got %+v", strips)
	}
}

func TestChartLayerColor(t *testing.T) {
	l := &chartLayer{}
	def := l.rgb()
	if def.R == 0 && def.G == 0 && def.B == 0 {
		t.Error("default layer color should not be black")
	}

	l.Color = [3]float32{0.1, 0.2, 0.3}
	if got := l.rgb(); got.R != 0.1 || got.G != 0.2 || got.B != 0.3 {
		t.Errorf("explicit layer color not honored: %+v", got)
	}
}
