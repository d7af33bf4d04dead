// controls/defaults.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package controls

import (
	_ "embed"
	"fmt"

	"github.com/avdeck/skydeck/units"

	"gopkg.in/yaml.v3"
)

// UnitDefaults is a dial's configuration for one display unit: value
// range, rounding step, and tick layout.
type UnitDefaults struct {
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Step       float64 `yaml:"step"`
	TickEvery  float64 `yaml:"tick_every"`
	MajorEvery int     `yaml:"major_every"`
}

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	altitudeDefaults map[units.Unit]UnitDefaults
	speedDefaults    map[units.Unit]UnitDefaults
	altitudePresets  []units.Quantity
	speedPresets     []units.Quantity
)

type presetSpec struct {
	Unit   string    `yaml:"unit"`
	Values []float64 `yaml:"values"`
}

func init() {
	var file struct {
		Altitude        map[string]UnitDefaults `yaml:"altitude"`
		Speed           map[string]UnitDefaults `yaml:"speed"`
		AltitudePresets presetSpec              `yaml:"altitude_presets"`
		SpeedPresets    presetSpec              `yaml:"speed_presets"`
	}
	if err := yaml.Unmarshal(defaultsYAML, &file); err != nil {
		panic(fmt.Sprintf("defaults.yaml: %v", err))
	}

	altitudeDefaults = validateDefaults(file.Altitude, units.Length)
	speedDefaults = validateDefaults(file.Speed, units.Speed)
	altitudePresets = makePresets(file.AltitudePresets, units.Length)
	speedPresets = makePresets(file.SpeedPresets, units.Speed)
}

func validateDefaults(m map[string]UnitDefaults, dim units.Dimension) map[units.Unit]UnitDefaults {
	d := make(map[units.Unit]UnitDefaults)
	for name, def := range m {
		u := units.Unit(name)
		if ud, ok := u.Dimension(); !ok || ud != dim {
			panic(fmt.Sprintf("defaults.yaml: %q is not a %s unit", name, dim))
		}
		if def.Min >= def.Max || def.Step <= 0 {
			panic(fmt.Sprintf("defaults.yaml: %q: bad range %v..%v step %v", name, def.Min, def.Max, def.Step))
		}
		d[u] = def
	}
	return d
}

func makePresets(spec presetSpec, dim units.Dimension) []units.Quantity {
	u := units.Unit(spec.Unit)
	if ud, ok := u.Dimension(); !ok || ud != dim {
		panic(fmt.Sprintf("defaults.yaml: preset unit %q is not a %s unit", spec.Unit, dim))
	}
	var presets []units.Quantity
	for _, v := range spec.Values {
		presets = append(presets, units.Quantity{Value: v, Unit: u})
	}
	return presets
}
