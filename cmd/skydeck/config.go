// cmd/skydeck/config.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/panes/mapview"
	"github.com/avdeck/skydeck/panes/panel"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"github.com/AllenDang/cimgui-go/imgui"
)

// currentConfigVersion is bumped whenever the serialized Config changes
// incompatibly; LoadOrMakeDefaultConfig uses it to gate migrations.
const currentConfigVersion = 1

type Config struct {
	platform.Config

	Version       int
	ImGuiSettings string
	WhatsNewIndex int
	UIFontSize    int

	// The panes are stored individually rather than as a serialized
	// display hierarchy; the hierarchy is rebuilt from them and the split
	// positions each time the config is activated.
	InstrumentsPane *panel.InstrumentsPane
	MapPane         *mapview.MapPane
	StatusPane      *panes.StatusPane

	// [0] = X split between instruments and map, [1] = Y split between
	// status strip and map.
	SplitLinePositions [2]float32

	DisplayRoot *panes.DisplayNode `json:"-"`

	AskedDiscordOptIn      bool
	InhibitDiscordActivity util.AtomicBool

	// Skip the once-a-minute plan autosave (and the autosave restore
	// prompt that comes with it on the next launch).
	InhibitAutosave bool

	// Most recently loaded plan file; reopened at startup.
	PlanFile string
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "SkyDeck")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	lg.Infof("Saving config to: %s", configFilePath(lg))
	f, err := os.Create(configFilePath(lg))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// SaveIfChanged harvests the state that may have drifted during the
// session and writes the config file, but only if it differs from what is
// already on disk. It reports whether a write happened.
func (c *Config) SaveIfChanged(renderer renderer.Renderer, platform platform.Platform, lg *log.Logger) bool {
	// Grab assorted things that may have changed during this session.
	c.ImGuiSettings = imgui.SaveIniSettingsToMemory()
	c.InitialWindowSize = platform.WindowSize()
	c.InitialWindowPosition = platform.WindowPosition()

	// Capture current split line positions from the display hierarchy so
	// that user adjustments survive restarts.
	if c.DisplayRoot != nil {
		if c.DisplayRoot.SplitLine.Axis == panes.SplitAxisX {
			c.SplitLinePositions[0] = c.DisplayRoot.SplitLine.Pos
		}
		if c.DisplayRoot.Children[1] != nil && c.DisplayRoot.Children[1].SplitLine.Axis == panes.SplitAxisY {
			c.SplitLinePositions[1] = c.DisplayRoot.Children[1].SplitLine.Pos
		}
	}

	fn := configFilePath(lg)
	onDisk, err := os.ReadFile(fn)
	if err != nil {
		lg.Warnf("%s: unable to read config file: %v", fn, err)
	}

	var b strings.Builder
	if err = c.Encode(&b); err != nil {
		lg.Errorf("%s: unable to encode config: %v", fn, err)
		return false
	}

	if b.String() == string(onDisk) {
		return false
	}

	if err := c.Save(lg); err != nil {
		ShowErrorDialog(platform, lg, "Error saving configuration file: %v", err)
	}

	return true
}

func (c *Config) AllPanes() iter.Seq[panes.Pane] {
	p := []panes.Pane{c.InstrumentsPane, c.MapPane, c.StatusPane}
	return slices.Values(p)
}

func getDefaultConfig() *Config {
	return &Config{
		Config: platform.Config{
			InitialWindowPosition: [2]int{100, 100},
			AudioEnabled:          true,
		},
		Version:            currentConfigVersion,
		WhatsNewIndex:      len(whatsNew),
		InstrumentsPane:    panel.NewInstrumentsPane(),
		MapPane:            mapview.NewMapPane(),
		StatusPane:         panes.NewStatusPane(),
		SplitLinePositions: [2]float32{0.35, 0.15},
	}
}

func LoadOrMakeDefaultConfig(lg *log.Logger) (config *Config, configErr error) {
	fn := configFilePath(lg)
	lg.Infof("Loading config from: %s", fn)

	config = getDefaultConfig()

	defer func() {
		if err := recover(); err != nil {
			configErr = fmt.Errorf("%v", err)
			lg.ReportCrash(err)
		}
	}()

	if contents, err := os.ReadFile(fn); err == nil {
		r := bytes.NewReader(contents)
		d := json.NewDecoder(r)

		config = &Config{}
		if err := d.Decode(config); err != nil {
			configErr = err
			config = getDefaultConfig()
		}

		// Ensure all pane instances are initialized even if the file
		// predates one of them.
		if config.InstrumentsPane == nil {
			config.InstrumentsPane = panel.NewInstrumentsPane()
		}
		if config.MapPane == nil {
			config.MapPane = mapview.NewMapPane()
		}
		if config.StatusPane == nil {
			config.StatusPane = panes.NewStatusPane()
		}
		if config.SplitLinePositions[0] == 0 {
			config.SplitLinePositions[0] = 0.35
		}
		if config.SplitLinePositions[1] == 0 {
			config.SplitLinePositions[1] = 0.15
		}
	}

	if config.UIFontSize == 0 {
		config.UIFontSize = 16
	}
	config.Version = currentConfigVersion

	imgui.LoadIniSettingsFromMemory(config.ImGuiSettings)

	return
}

// buildDisplayRoot creates a new DisplayNode hierarchy from the stored
// pane instances and split line positions: instruments down the left,
// the status strip below the map on the right.
func (c *Config) buildDisplayRoot() *panes.DisplayNode {
	return &panes.DisplayNode{
		SplitLine: panes.SplitLine{
			Pos:  c.SplitLinePositions[0],
			Axis: panes.SplitAxisX,
		},
		Children: [2]*panes.DisplayNode{
			&panes.DisplayNode{Pane: c.InstrumentsPane},
			&panes.DisplayNode{
				SplitLine: panes.SplitLine{
					Pos:  c.SplitLinePositions[1],
					Axis: panes.SplitAxisY,
				},
				Children: [2]*panes.DisplayNode{
					&panes.DisplayNode{Pane: c.StatusPane},
					&panes.DisplayNode{Pane: c.MapPane},
				},
			},
		},
	}
}

func (c *Config) Activate(r renderer.Renderer, p platform.Platform, eventStream *mission.EventStream, lg *log.Logger) {
	c.DisplayRoot = c.buildDisplayRoot()
	panes.Activate(c.DisplayRoot, r, p, eventStream, lg)
}
