// cmd/skydeck/dialogs.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/pkg/browser"
)

var activeModalDialogs []*ModalDialogBox

func hasActiveModalDialogs() bool {
	return len(activeModalDialogs) > 0
}

func uiShowModalDialog(d *ModalDialogBox, atFront bool) {
	if atFront {
		activeModalDialogs = append([]*ModalDialogBox{d}, activeModalDialogs...)
	} else {
		activeModalDialogs = append(activeModalDialogs, d)
	}
}

func uiShowDiscordOptInDialog(p platform.Platform, config *Config) {
	uiShowModalDialog(NewModalDialogBox(&DiscordOptInModalClient{config: config}, p), true)
}

func drawActiveDialogBoxes() {
	for len(activeModalDialogs) > 0 {
		d := activeModalDialogs[0]
		if !d.closed {
			d.Draw()
			break
		} else {
			activeModalDialogs = activeModalDialogs[1:]
		}
	}

	if ui.showAboutDialog {
		showAboutDialog()
	}
}

func setCursorForRightButtons(text []string) {
	style := imgui.CurrentStyle()
	width := float32(0)

	for i, t := range text {
		width += imgui.CalcTextSize(t).X + 2*style.FramePadding().X
		if i > 0 {
			// space between buttons
			width += style.ItemSpacing().X
		}
	}
	offset := imgui.ContentRegionAvail().X - width
	imgui.SetCursorPos(imgui.Vec2{offset, imgui.CursorPosY()})
}

///////////////////////////////////////////////////////////////////////////

type ModalDialogBox struct {
	closed, isOpen bool
	client         ModalDialogClient
	platform       platform.Platform
}

type ModalDialogButton struct {
	text     string
	disabled bool
	action   func() bool
}

type ModalDialogClient interface {
	Title() string
	Opening()
	Buttons() []ModalDialogButton
	Draw() int /* returns index of equivalently-clicked button; out of range if none */
}

// FixedSizeDialogClient is an optional interface that dialog clients can
// implement to specify a fixed window size instead of auto-resizing based
// on content.
type FixedSizeDialogClient interface {
	FixedSize() [2]float32 // [width, height] in pixels, before DPI scaling
}

func NewModalDialogBox(c ModalDialogClient, p platform.Platform) *ModalDialogBox {
	return &ModalDialogBox{client: c, platform: p}
}

func (m *ModalDialogBox) Draw() {
	if m.closed {
		return
	}

	title := fmt.Sprintf("%s##%p", m.client.Title(), m)
	imgui.OpenPopupStr(title)

	dpiScale := util.Select(runtime.GOOS == "windows", m.platform.DPIScale(), float32(1))
	windowSize := m.platform.WindowSize()

	var flags imgui.WindowFlags
	if fixedSize, ok := m.client.(FixedSizeDialogClient); ok {
		flags = imgui.WindowFlagsNoResize | imgui.WindowFlagsNoSavedSettings | imgui.WindowFlagsNoScrollbar
		size := fixedSize.FixedSize()
		imgui.SetNextWindowSize(imgui.Vec2{dpiScale * size[0], dpiScale * size[1]})
	} else {
		flags = imgui.WindowFlagsNoResize | imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
		maxHeight := float32(windowSize[1]) * 19 / 20
		imgui.SetNextWindowSizeConstraints(imgui.Vec2{dpiScale * 500, dpiScale * 100}, imgui.Vec2{-1, maxHeight})
	}

	// Position the window near the top of the screen so that it doesn't
	// extend below the bottom.
	topMargin := float32(windowSize[1]) * 0.05
	imgui.SetNextWindowPosV(imgui.Vec2{float32(windowSize[0]) / 2, topMargin}, imgui.CondAlways, imgui.Vec2{0.5, 0})

	if imgui.BeginPopupModalV(title, nil, flags) {
		if !m.isOpen {
			imgui.SetKeyboardFocusHere()
			m.client.Opening()
			m.isOpen = true
		}

		selIndex := m.client.Draw()
		imgui.Text("\n") // spacing

		buttons := m.client.Buttons()

		if len(buttons) > 0 {
			// Figure out where to start drawing so the buttons end up
			// right-justified.
			// https://github.com/ocornut/imgui/discussions/3862
			var allButtonText []string
			for _, b := range buttons {
				allButtonText = append(allButtonText, b.text)
			}
			setCursorForRightButtons(allButtonText)
		}

		for i, b := range buttons {
			if b.disabled {
				imgui.BeginDisabled()
			}
			if i > 0 {
				imgui.SameLine()
			}
			if (imgui.Button(b.text) || i == selIndex) && !b.disabled {
				if b.action == nil || b.action() {
					imgui.CloseCurrentPopup()
					m.closed = true
					m.isOpen = false
				}
			}
			if b.disabled {
				imgui.EndDisabled()
			}
		}
		imgui.EndPopup()
	}
}

type YesOrNoModalClient struct {
	title, query string
	ok, notok    func()
}

func (yn *YesOrNoModalClient) Title() string { return yn.title }

func (yn *YesOrNoModalClient) Opening() {}

func (yn *YesOrNoModalClient) Buttons() []ModalDialogButton {
	var b []ModalDialogButton
	b = append(b, ModalDialogButton{text: "No", action: func() bool {
		if yn.notok != nil {
			yn.notok()
		}
		return true
	}})
	b = append(b, ModalDialogButton{text: "Yes", action: func() bool {
		if yn.ok != nil {
			yn.ok()
		}
		return true
	}})
	return b
}

func (yn *YesOrNoModalClient) Draw() int {
	imgui.Text(yn.query)
	return -1
}

func checkForNewRelease(newReleaseDialogChan chan *NewReleaseModalClient, lg *log.Logger) {
	defer close(newReleaseDialogChan)

	url := "https://api.github.com/repos/avdeck/skydeck/releases"

	resp, err := http.Get(url)
	if err != nil {
		lg.Warn("new release GET error", slog.String("url", url), slog.Any("error", err))
		return
	}
	defer resp.Body.Close()

	type Release struct {
		TagName string    `json:"tag_name"`
		Created time.Time `json:"created_at"`
	}

	decoder := json.NewDecoder(resp.Body)
	var releases []Release
	if err := decoder.Decode(&releases); err != nil {
		lg.Errorf("JSON decode error: %v", err)
		return
	}
	if len(releases) == 0 {
		return
	}

	var newestRelease *Release
	for i := range releases {
		if strings.HasSuffix(releases[i].TagName, "-beta") {
			continue
		}
		if newestRelease == nil || releases[i].Created.After(newestRelease.Created) {
			newestRelease = &releases[i]
		}
	}
	if newestRelease == nil {
		lg.Warnf("No skydeck releases found?")
		return
	}

	lg.Infof("newest release found: %v", newestRelease)

	buildTime := ""
	if bi, ok := debug.ReadBuildInfo(); !ok {
		lg.Errorf("unable to read build info")
		return
	} else {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.time" {
				buildTime = setting.Value
				break
			}
		}

		if buildTime == "" {
			lg.Errorf("build time unavailable in BuildInfo.Settings")
			return
		}
	}

	if bt, err := time.Parse(time.RFC3339, buildTime); err != nil {
		lg.Errorf("error parsing build time \"%s\": %v", buildTime, err)
	} else if newestRelease.Created.UTC().After(bt.UTC()) {
		lg.Infof("build time %s newest release %s -> release is newer",
			bt.UTC().String(), newestRelease.Created.UTC().String())
		newReleaseDialogChan <- &NewReleaseModalClient{
			version: newestRelease.TagName,
			date:    newestRelease.Created}
	} else {
		lg.Infof("build time %s newest release %s -> build is newer",
			bt.UTC().String(), newestRelease.Created.UTC().String())
	}
}

type NewReleaseModalClient struct {
	version string
	date    time.Time
}

func (nr *NewReleaseModalClient) Title() string {
	return "A new skydeck release is available"
}
func (nr *NewReleaseModalClient) Opening() {}

func (nr *NewReleaseModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{
		ModalDialogButton{
			text: "Quit and update",
			action: func() bool {
				browser.OpenURL("https://github.com/avdeck/skydeck/releases")
				os.Exit(0)
				return true
			},
		},
		ModalDialogButton{text: "Update later"}}
}

func (nr *NewReleaseModalClient) Draw() int {
	imgui.Text(fmt.Sprintf("skydeck version %s is the latest version", nr.version))
	imgui.Text("Would you like to quit and open the skydeck releases page?")
	return -1
}

// whatsNew is shown once after an upgrade; entries are appended at the
// end and WhatsNewIndex in the config records how many the user has seen.
var whatsNew = []string{
	"The status bar DUR command accepts h:m:s, m:s, and bare-seconds forms.",
	"Scroll wheel zoom on the map keeps the position under the cursor fixed.",
	"Command log export to CSV from the menu bar.",
}

type WhatsNewModalClient struct {
	config *Config
}

func (wn *WhatsNewModalClient) Title() string {
	return "What's new in this version of skydeck"
}

func (wn *WhatsNewModalClient) Opening() {}

func (wn *WhatsNewModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{
		ModalDialogButton{
			text: "Ok",
			action: func() bool {
				wn.config.WhatsNewIndex = len(whatsNew)
				return true
			},
		},
	}
}

func (wn *WhatsNewModalClient) Draw() int {
	for i := wn.config.WhatsNewIndex; i < len(whatsNew); i++ {
		imgui.Text(renderer.FontAwesomeIconSquare + " " + whatsNew[i])
	}
	return -1
}

type DiscordOptInModalClient struct {
	config *Config
}

func (d *DiscordOptInModalClient) Title() string {
	return "Discord Activity Updates"
}

func (d *DiscordOptInModalClient) Opening() {}

func (d *DiscordOptInModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{
		ModalDialogButton{
			text: "Ok",
			action: func() bool {
				d.config.AskedDiscordOptIn = true
				return true
			},
		},
	}
}

func (d *DiscordOptInModalClient) Draw() int {
	style := imgui.CurrentStyle()
	spc := style.ItemSpacing()
	spc.Y -= 4
	imgui.PushStyleVarVec2(imgui.StyleVarItemSpacing, spc)

	imgui.Text("By default, skydeck will automatically update your Discord Activity to say")
	imgui.Text("that you are running skydeck, using the name of your current mission plan.")
	imgui.Text("If you do not want it to do this, you can disable this feature using the")
	imgui.Text("checkbox below. You can also change this setting any time in the future")
	imgui.Text("in the settings window " + renderer.FontAwesomeIconCog + " via the menu bar.")

	imgui.PopStyleVar()

	imgui.Text("")

	update := !d.config.InhibitDiscordActivity.Load()
	imgui.Checkbox("Update Discord activity status", &update)
	d.config.InhibitDiscordActivity.Store(!update)

	return -1
}

///////////////////////////////////////////////////////////////////////////

type MessageModalClient struct {
	title   string
	message string
}

func (m *MessageModalClient) Title() string { return m.title }
func (m *MessageModalClient) Opening()      {}

func (m *MessageModalClient) Buttons() []ModalDialogButton {
	return []ModalDialogButton{{text: "Ok", action: func() bool { return true }}}
}

func (m *MessageModalClient) Draw() int {
	text, _ := util.WrapText(m.message, 80, 0, true)
	imgui.Text("\n\n" + text + "\n\n")
	return -1
}

type ErrorModalClient struct {
	message string
}

func (e *ErrorModalClient) Title() string { return "SkyDeck Error" }
func (e *ErrorModalClient) Opening()      {}

func (e *ErrorModalClient) Buttons() []ModalDialogButton {
	var b []ModalDialogButton
	b = append(b, ModalDialogButton{text: "Ok", action: func() bool {
		return true
	}})
	return b
}

func (e *ErrorModalClient) Draw() int {
	if imgui.BeginTableV("Error", 2, 0, imgui.Vec2{}, 0) {
		imgui.TableSetupColumn("icon")
		imgui.TableSetupColumn("text")

		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.PushFont(&ui.aboutFont.Ifont)
		imgui.PushStyleColorVec4(imgui.ColText, imgui.Vec4{1, 0.6, 0.1, 1})
		imgui.Text(renderer.FontAwesomeIconExclamationTriangle)
		imgui.PopStyleColor()
		imgui.PopFont()

		imgui.TableNextColumn()
		text, _ := util.WrapText(e.message, 80, 0, true)
		imgui.Text("\n\n" + text)

		imgui.EndTable()
	}
	return -1
}

func ShowErrorDialog(p platform.Platform, lg *log.Logger, s string, args ...any) {
	d := NewModalDialogBox(&ErrorModalClient{message: fmt.Sprintf(s, args...)}, p)
	uiShowModalDialog(d, true)

	lg.Errorf(s, args...)
}

// ShowFatalErrorDialog runs a minimal frame loop of its own so this works
// even before the main event loop has started; it does not return.
func ShowFatalErrorDialog(r renderer.Renderer, p platform.Platform, lg *log.Logger, s string, args ...any) {
	lg.Errorf(s, args...)

	d := NewModalDialogBox(&ErrorModalClient{message: fmt.Sprintf(s, args...)}, p)

	for !d.closed {
		p.ProcessEvents()
		p.NewFrame()
		imgui.NewFrame()
		imgui.PushFont(&ui.font.Ifont)
		d.Draw()
		imgui.PopFont()

		imgui.Render()
		var cb renderer.CommandBuffer
		renderer.GenerateImguiCommandBuffer(&cb, p.DisplaySize(), p.FramebufferSize(), lg)
		r.RenderCommandBuffer(&cb)

		p.PostRender()
	}
	os.Exit(1)
}
