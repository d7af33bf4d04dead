// cmd/skydeck/ui.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/ncruces/zenity"
	"github.com/pkg/browser"
)

var ui struct {
	font           *renderer.Font
	fixedFont      *renderer.Font
	aboutFont      *renderer.Font
	aboutFontSmall *renderer.Font

	menuBarHeight float32

	showAboutDialog bool

	newReleaseDialogChan chan *NewReleaseModalClient

	showSettings bool
}

func imguiInit() *imgui.Context {
	context := imgui.CreateContext()
	imgui.CurrentIO().SetIniFilename("")

	// Disable the nav windowing popup (Ctrl+Tab/Cmd+Tab window switcher) by
	// clearing the shortcut keys that trigger it.
	context.SetConfigNavWindowingKeyNext(imgui.KeyChord(imgui.KeyNone))
	context.SetConfigNavWindowingKeyPrev(imgui.KeyChord(imgui.KeyNone))

	// General imgui styling
	style := imgui.CurrentStyle()
	style.SetFrameRounding(2.)
	style.SetWindowRounding(4.)
	style.SetPopupRounding(4.)
	style.SetScrollbarSize(6.)
	style.ScaleAllSizes(1.25)

	return context
}

func uiInit(r renderer.Renderer, p platform.Platform, config *Config, lg *log.Logger) {
	if runtime.GOOS == "windows" {
		imgui.CurrentStyle().ScaleAllSizes(p.DPIScale())
	}

	ui.font = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: config.UIFontSize})
	ui.fixedFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Mono", Size: config.UIFontSize + 2 /* better match regular size */})
	ui.aboutFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 18})
	ui.aboutFontSmall = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: 14})

	// Do this asynchronously since it involves network traffic and may
	// take some time (or may even time out, etc.)
	ui.newReleaseDialogChan = make(chan *NewReleaseModalClient)
	go checkForNewRelease(ui.newReleaseDialogChan, lg)

	if config.WhatsNewIndex < len(whatsNew) {
		uiShowModalDialog(NewModalDialogBox(&WhatsNewModalClient{config: config}, p), false)
	}

	if !config.AskedDiscordOptIn {
		uiShowDiscordOptInDialog(p, config)
	}
}

func uiDraw(config *Config, p platform.Platform, r renderer.Renderer, session *mission.Session,
	lg *log.Logger) renderer.RendererStats {
	if ui.newReleaseDialogChan != nil {
		select {
		case dialog, ok := <-ui.newReleaseDialogChan:
			if ok {
				uiShowModalDialog(NewModalDialogBox(dialog, p), false)
			} else {
				// channel was closed
				ui.newReleaseDialogChan = nil
			}
		default:
			// don't block on the chan if there's nothing there and it's still open...
		}
	}

	imgui.PushFont(&ui.font.Ifont)
	if imgui.BeginMainMenuBar() {
		imgui.PushStyleColorVec4(imgui.ColButton, imgui.CurrentStyle().Colors()[imgui.ColMenuBarBg])

		if imgui.Button(renderer.FontAwesomeIconFolderOpen) {
			uiOpenPlan(config, session, p, lg)
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Open a mission plan file")
		}

		if imgui.Button(renderer.FontAwesomeIconSave) {
			uiSavePlan(config, session, lg)
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Save the mission plan")
		}

		if !session.CanUndo() {
			imgui.BeginDisabled()
		}
		if imgui.Button(renderer.FontAwesomeIconUndo) {
			session.Undo()
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Undo the most recent command")
		}
		if !session.CanUndo() {
			imgui.EndDisabled()
		}

		if !session.CanRedo() {
			imgui.BeginDisabled()
		}
		if imgui.Button(renderer.FontAwesomeIconRedo) {
			session.Redo()
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Redo an undone command")
		}
		if !session.CanRedo() {
			imgui.EndDisabled()
		}

		if imgui.Button(renderer.FontAwesomeIconCrosshairs) {
			config.MapPane.ArmPicker()
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Add a waypoint at the next map click")
		}

		if imgui.Button(renderer.FontAwesomeIconFileExport) {
			uiExportCommandLog(session, lg)
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Export the command log as CSV")
		}

		if imgui.Button(renderer.FontAwesomeIconCog) {
			ui.showSettings = !ui.showSettings
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Open settings window")
		}

		if imgui.Button(renderer.FontAwesomeIconKeyboard) {
			uiToggleShowKeyboardWindow()
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Show summary of keyboard commands")
		}

		if imgui.Button(renderer.FontAwesomeIconBook) {
			browser.OpenURL("https://github.com/avdeck/skydeck/blob/main/README.md")
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Display online skydeck documentation")
		}

		// Position for right-side icons
		width, _ := ui.font.BoundText(renderer.FontAwesomeIconInfoCircle, 0)
		numIcons := 3
		imgui.SetCursorPos(imgui.Vec2{p.DisplaySize()[0] - float32(numIcons*width+15), 0})

		if imgui.Button(renderer.FontAwesomeIconInfoCircle) {
			ui.showAboutDialog = !ui.showAboutDialog
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Display information about skydeck")
		}

		if imgui.Button(renderer.FontAwesomeIconBug) {
			browser.OpenURL("https://github.com/avdeck/skydeck/issues")
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip("Report a bug")
		}

		if imgui.Button(util.Select(p.IsFullScreen(), renderer.FontAwesomeIconCompressAlt, renderer.FontAwesomeIconExpandAlt)) {
			p.EnableFullScreen(!p.IsFullScreen())
		}
		if imgui.IsItemHovered() {
			imgui.SetTooltip(util.Select(p.IsFullScreen(), "Exit", "Enter") + " full-screen mode")
		}

		imgui.PopStyleColor()

		imgui.EndMainMenuBar()
	}
	ui.menuBarHeight = imgui.CursorPos().Y - 1

	uiDrawSettingsWindow(config, p, lg)

	drawActiveDialogBoxes()

	uiDrawKeyboardWindow(config, p)

	imgui.PopFont()

	// Finalize and submit the imgui draw lists
	imgui.Render()
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	renderer.GenerateImguiCommandBuffer(cb, p.DisplaySize(), p.FramebufferSize(), lg)
	return r.RenderCommandBuffer(cb)
}

func uiOpenPlan(config *Config, session *mission.Session, p platform.Platform, lg *log.Logger) {
	path, err := zenity.SelectFile(
		zenity.Title("Select Mission Plan JSON File"),
		zenity.FileFilters{
			{
				Name:     "JSON Files",
				Patterns: []string{"*.json"},
			},
		},
	)
	if err != nil {
		// Also returned when the user cancels the picker.
		lg.Infof("plan selection: %v", err)
		return
	}

	var e util.ErrorLogger
	plan, err := mission.LoadPlan(path, &e)
	if err != nil {
		ShowErrorDialog(p, lg, "%s: unable to load plan: %v", path, err)
		return
	}
	if e.HaveErrors() {
		ShowErrorDialog(p, lg, "Errors in plan file %s:\n%s", path, e.String())
		return
	}

	install := func() {
		session.ReplacePlan(plan)
		panes.LoadedPlan(config.DisplayRoot, session.Plan, p, lg)
		config.PlanFile = path
	}

	if session.CanUndo() {
		// There are changes from this session; make sure the user means
		// to drop them.
		uiShowModalDialog(NewModalDialogBox(&YesOrNoModalClient{
			title: "Replace current plan?",
			query: fmt.Sprintf("Load %q? Unsaved changes to the current plan will be lost.", plan.Name),
			ok:    install,
		}, p), true)
	} else {
		install()
	}
}

func uiSavePlan(config *Config, session *mission.Session, lg *log.Logger) {
	path := config.PlanFile
	if path == "" {
		var err error
		path, err = zenity.SelectFileSave(
			zenity.Title("Save Mission Plan"),
			zenity.ConfirmOverwrite(),
			zenity.Filename(session.Plan.Name+".json"),
			zenity.FileFilters{
				{
					Name:     "JSON Files",
					Patterns: []string{"*.json"},
				},
			},
		)
		if err != nil {
			lg.Infof("plan save selection: %v", err)
			return
		}
	}

	if err := session.Plan.Save(path); err != nil {
		session.PostStatus("error saving %s: %v", path, err)
		lg.Errorf("%s: %v", path, err)
		return
	}
	config.PlanFile = path
	session.PostStatus("saved plan to %s", path)
}

func uiExportCommandLog(session *mission.Session, lg *log.Logger) {
	if session.CommandLog.Len() == 0 {
		session.PostStatus("no commands to export")
		return
	}

	path, err := zenity.SelectFileSave(
		zenity.Title("Export Command Log"),
		zenity.ConfirmOverwrite(),
		zenity.Filename("commands.csv"),
		zenity.FileFilters{
			{
				Name:     "CSV Files",
				Patterns: []string{"*.csv"},
			},
		},
	)
	if err != nil {
		lg.Infof("command log export selection: %v", err)
		return
	}

	if err := session.CommandLog.Export(path); err != nil {
		session.PostStatus("error exporting %s: %v", path, err)
		lg.Errorf("%s: %v", path, err)
		return
	}
	session.PostStatus("exported %d commands to %s", session.CommandLog.Len(), path)
}

///////////////////////////////////////////////////////////////////////////
// "about" dialog box

func showAboutDialog() {
	flags := imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
	imgui.BeginV("About skydeck...", &ui.showAboutDialog, flags)

	center := func(s string) {
		// https://stackoverflow.com/a/67855985
		ww := imgui.WindowSize().X
		tw := imgui.CalcTextSize(s).X
		imgui.SetCursorPos(imgui.Vec2{(ww - tw) * 0.5, imgui.CursorPosY()})
		imgui.Text(s)
	}

	imgui.PushFont(&ui.aboutFont.Ifont)
	center("skydeck")
	center(renderer.FontAwesomeIconCopyright + "2025-2026 skydeck contributors")
	center("Licensed under the GPL, Version 3")
	if imgui.IsItemHovered() && imgui.IsMouseClickedBool(imgui.MouseButton(0)) {
		browser.OpenURL("https://www.gnu.org/licenses/gpl-3.0.html")
	}
	center("Source code: github.com/avdeck/skydeck")
	if imgui.IsItemHovered() && imgui.IsMouseClickedBool(imgui.MouseButton(0)) {
		browser.OpenURL("https://github.com/avdeck/skydeck")
	}
	imgui.PopFont()

	imgui.Separator()

	imgui.PushFont(&ui.aboutFontSmall.Ifont)
	credits := `Additional credits:
- The chart layers under resources/maps were derived from public domain survey data.
- Roboto fonts: Christian Robertson, Apache License 2.0.
- Font Awesome 5 Free icons: Fonticons, Inc., SIL OFL 1.1.
- See the file CREDITS.txt in the skydeck source code distribution for other third-party software.`

	imgui.PushTextWrapPos()
	imgui.Text(credits)
	imgui.PopTextWrapPos()

	imgui.PopFont()

	imgui.End()
}

///////////////////////////////////////////////////////////////////////////

var keyboardWindowVisible bool

func uiToggleShowKeyboardWindow() {
	keyboardWindowVisible = !keyboardWindowVisible
}

var instrumentCommands = [][2]string{
	{"PgUp / PgDn", "Select the previous / next instrument."},
	{"Up / Right", "Increase the selected value by one step; hold Shift for coarse steps."},
	{"Down / Left", "Decrease the selected value by one step; hold Shift for coarse steps."},
	{"Home / End", "Jump to the instrument's minimum / maximum value."},
	{"0-9 . -", "Type a value directly; the pending entry is shown on the dial."},
	{"Enter", "Commit the typed value."},
	{"Backspace", "Delete the last typed character."},
	{"Esc", "Clear a pending entry, or release keyboard focus."},
	{"u", "Cycle display units on the speed and altitude dials."},
	{"s", "Toggle snapping on the heading dial."},
}

var loiterCommands = [][2]string{
	{"Left / Right", "Select the hours, minutes, or seconds segment."},
	{"Up / Down", "Step the selected segment, carrying into its neighbors."},
	{"0-9", "Type a value for the selected segment."},
	{"Enter", "Commit the typed value; overflow carries upward."},
	{"Backspace", "Delete the last typed digit."},
	{"Esc", "Discard the typed value."},
}

var mapCommands = [][2]string{
	{"drag", "Pan the view."},
	{"wheel", "Zoom about the cursor; hold Ctrl to zoom faster."},
	{"arrows", "Pan by a fixed distance."},
	{"+ / -", "Zoom in / out."},
	{"g", "Toggle the latitude-longitude graticule."},
	{"p", "Arm the waypoint picker; the next click adds a waypoint."},
	{"Home", "Frame the whole plan."},
	{"Esc", "Disarm the picker, or release keyboard focus."},
}

// uiDrawKeyboardWindow shows the window summarizing the available
// keyboard commands.
func uiDrawKeyboardWindow(config *Config, p platform.Platform) {
	if !keyboardWindowVisible {
		return
	}

	imgui.SetNextWindowSizeConstraints(imgui.Vec2{300, 300}, imgui.Vec2{-1, float32(p.WindowSize()[1]) * 19 / 20})
	imgui.BeginV("Keyboard Command Reference", &keyboardWindowVisible, imgui.WindowFlagsAlwaysAutoResize)

	imgui.Text("Tab cycles keyboard focus between the instruments and the map;")
	imgui.Text("the focused pane is outlined in yellow.")

	style := imgui.CurrentStyle()
	spc := style.ItemSpacing()
	spc.Y -= 4
	imgui.PushStyleVarVec2(imgui.StyleVarItemSpacing, spc)

	flags := imgui.TableFlagsBordersV | imgui.TableFlagsBordersOuterH | imgui.TableFlagsRowBg |
		imgui.TableFlagsSizingStretchProp

	drawCommands := func(name string, cmds [][2]string) {
		imgui.Text("\n")
		imgui.Text(name)
		if imgui.BeginTableV(name, 2, flags, imgui.Vec2{}, 0.) {
			imgui.TableSetupColumn("Key")
			imgui.TableSetupColumn("Action")
			imgui.TableHeadersRow()

			for _, cmd := range cmds {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.PushFont(&ui.fixedFont.Ifont)
				imgui.Text(cmd[0])
				imgui.PopFont()
				imgui.TableNextColumn()
				imgui.Text(cmd[1])
			}
			imgui.EndTable()
		}
	}

	drawCommands("Instruments", instrumentCommands)
	drawCommands("Loiter duration", loiterCommands)
	drawCommands("Map", mapCommands)

	imgui.PopStyleVar()

	imgui.End()
}

func uiDrawSettingsWindow(config *Config, p platform.Platform, lg *log.Logger) {
	if !ui.showSettings {
		return
	}

	imgui.BeginV("Settings", &ui.showSettings, imgui.WindowFlagsAlwaysAutoResize)

	update := !config.InhibitDiscordActivity.Load()
	imgui.Checkbox("Update Discord activity status", &update)
	config.InhibitDiscordActivity.Store(!update)

	autosave := !config.InhibitAutosave
	imgui.Checkbox("Autosave the mission plan every minute", &autosave)
	config.InhibitAutosave = !autosave

	imgui.Separator()

	if imgui.BeginComboV("UI Font Size", strconv.Itoa(config.UIFontSize), imgui.ComboFlagsHeightLarge) {
		sizes := renderer.AvailableFontSizes("Roboto Regular")
		for _, size := range sizes {
			if imgui.SelectableBoolV(strconv.Itoa(size), size == config.UIFontSize, 0, imgui.Vec2{}) {
				config.UIFontSize = size
				ui.font = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Regular", Size: config.UIFontSize})
				ui.fixedFont = renderer.GetFont(renderer.FontIdentifier{Name: "Roboto Mono", Size: config.UIFontSize + 2})
			}
		}
		imgui.EndCombo()
	}

	imgui.Separator()

	if imgui.CollapsingHeaderBoolPtr("Display", nil) {
		if imgui.Checkbox("Enable anti-aliasing", &config.EnableMSAA) {
			uiShowModalDialog(NewModalDialogBox(
				&MessageModalClient{
					title: "Alert",
					message: "You must restart skydeck for changes to the anti-aliasing " +
						"mode to take effect.",
				}, p), true)
		}

		imgui.Checkbox("Start in full-screen", &config.StartInFullScreen)

		monitorNames := p.GetAllMonitorNames()
		if imgui.BeginComboV("Monitor", monitorNames[config.FullScreenMonitor], imgui.ComboFlagsHeightLarge) {
			for index, monitor := range monitorNames {
				if imgui.SelectableBoolV(monitor, monitor == monitorNames[config.FullScreenMonitor], 0, imgui.Vec2{}) {
					config.FullScreenMonitor = index

					p.EnableFullScreen(p.IsFullScreen())
				}
			}

			imgui.EndCombo()
		}
	}

	for pane := range config.AllPanes() {
		if draw, ok := pane.(panes.UIDrawer); ok {
			if imgui.CollapsingHeaderBoolPtr(draw.DisplayName(), nil) {
				draw.DrawUI(p, &config.Config)
			}
		}
	}

	imgui.End()
}
