// panes/mapview/layers.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapview

import (
	"fmt"
	"io/fs"
	gomath "math"
	"path"
	"slices"
	"strings"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"golang.org/x/sync/errgroup"
)

// chartLayer is one underlay chart: polylines of [longitude, latitude]
// vertices, all drawn in a single color. Layers come from
// resources/maps/*.json.
type chartLayer struct {
	Name  string            `json:"name"`
	Color [3]float32        `json:"color"`
	Lines [][]math.Point2LL `json:"lines"`
}

func (c *chartLayer) rgb() renderer.RGB {
	if c.Color == ([3]float32{}) {
		return renderer.RGB{R: 0.28, G: 0.32, B: 0.3}
	}
	return renderer.RGB{R: c.Color[0], G: c.Color[1], B: c.Color[2]}
}

// loadChartLayers reads all of the chart layers from the resources,
// concurrently since shoreline files run to megabytes of JSON. Layers
// that fail to parse are logged and skipped; the map is still usable
// without them.
func loadChartLayers(lg *log.Logger) []*chartLayer {
	matches, err := fs.Glob(util.GetResourcesFS(), "maps/*.json")
	if err != nil {
		lg.Errorf("maps: %v", err)
		return nil
	}

	layers := make([]*chartLayer, len(matches))
	var eg errgroup.Group
	for i, fn := range matches {
		eg.Go(func() error {
			var l chartLayer
			if err := util.UnmarshalJSONBytes(util.LoadResourceBytes(fn), &l); err != nil {
				return fmt.Errorf("%s: %w", fn, err)
			}
			if l.Name == "" {
				l.Name = strings.TrimSuffix(path.Base(fn), ".json")
			}
			layers[i] = &l
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		lg.Errorf("maps: %v", err)
	}

	layers = util.FilterSlice(layers, func(l *chartLayer) bool { return l != nil })
	slices.SortFunc(layers, func(a, b *chartLayer) int { return strings.Compare(a.Name, b.Name) })
	return layers
}

// Decimated chart geometry is cached per layer and zoom bucket; panning
// does not invalidate it, only zooming far enough to land in another
// bucket does.
type layerKey struct {
	name   string
	bucket int
}

// rangeBucket quantizes the view range to whole powers of two so nearby
// zooms share cached geometry.
func rangeBucket(rangenm float32) int {
	r := math.Clamp(rangenm, minRangeNM, maxRangeNM)
	return int(gomath.Round(gomath.Log2(float64(r))))
}

// bucketToleranceNM is the decimation tolerance for a zoom bucket,
// about a pixel on a tall pane at the bucket's range.
func bucketToleranceNM(bucket int) float32 {
	return float32(gomath.Exp2(float64(bucket))) / 512
}

// decimate returns the layer's polylines as plain vertex strips with
// runs of segments shorter than tolNM collapsed; at coarse zooms a
// detailed shoreline draws with a small fraction of its vertices. The
// first and last vertex of each line are always kept so closed shapes
// stay closed.
func (c *chartLayer) decimate(nmPerLongitude, tolNM float32) [][][2]float32 {
	strips := make([][][2]float32, 0, len(c.Lines))
	for _, line := range c.Lines {
		if len(line) < 2 {
			continue
		}

		strip := [][2]float32{line[0]}
		last := line[0]
		for i, p := range line[1:] {
			dx := (p[0] - last[0]) * nmPerLongitude
			dy := (p[1] - last[1]) * math.NMPerLatitude
			if math.Sqrt(dx*dx+dy*dy) >= tolNM || i == len(line)-2 {
				strip = append(strip, p)
				last = p
			}
		}
		if len(strip) >= 2 {
			strips = append(strips, strip)
		}
	}
	return strips
}
