// cmd/skydeck/main.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// Initializes the system and then runs the event loop until the system
// exits.

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/mission"
	"github.com/avdeck/skydeck/panes"
	"github.com/avdeck/skydeck/platform"
	"github.com/avdeck/skydeck/renderer"
	"github.com/avdeck/skydeck/util"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
)

var (
	// Command-line options are only used for developer features.
	cpuprofile   = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile   = flag.String("memprofile", "", "write memory profile to this file")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	devel        = flag.Bool("devel", false, "development mode: use a smaller log rotation budget")
	planFilename = flag.String("plan", "", "filename of JSON file with a mission plan")
	lintPlan     = flag.Bool("lint", false, "check the validity of the mission plan file and exit")
	dumpPlan     = flag.Bool("dumpplan", false, "print the parsed mission plan and exit")
	dumpConfig   = flag.Bool("dumpconfig", false, "print the active configuration and exit")
	resetPlan    = flag.Bool("resetplan", false, "discard the autosaved plan and do not try to resume it")
	listenAddr   = flag.String("listen", "", "address for HTTP status and profiling server (e.g. :6502)")
)

func setupSignalHandler(profiler *util.Profiler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Caught signal, cleaning up...")
		profiler.Cleanup()
		fmt.Fprintln(os.Stderr, "Cleanup complete, exiting")
		os.Exit(0)
	}()
}

func init() {
	// OpenGL and friends require that all calls be made from the primary
	// application thread, while by default, go allows the main thread to
	// run on different hardware threads over the course of
	// execution. Therefore, we must lock the main thread at startup time.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		// Not sure this will actually appear, but what else are we going
		// to do...
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*devel, *logLevel, *logDir)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	if *cpuprofile != "" || *memprofile != "" {
		setupSignalHandler(&profiler)
	}

	_ = imguiInit()
	config, configErr := LoadOrMakeDefaultConfig(lg)
	if *planFilename == "" && config.PlanFile != "" {
		*planFilename = config.PlanFile
	}

	if *lintPlan {
		if *planFilename == "" {
			fmt.Fprintln(os.Stderr, "-lint requires a plan file; give one with -plan")
			os.Exit(1)
		}

		var e util.ErrorLogger
		plan, err := mission.LoadPlan(*planFilename, &e)
		if err != nil {
			lg.Errorf("%s: %v", *planFilename, err)
			os.Exit(1)
		}
		if e.HaveErrors() {
			e.PrintErrors(nil)
			os.Exit(1)
		}

		fmt.Printf("%s: plan %q is valid: %d waypoints, %d geofence vertices\n", *planFilename,
			plan.Name, len(plan.Waypoints), len(plan.Geofence))
	} else if *dumpPlan {
		if *planFilename == "" {
			fmt.Fprintln(os.Stderr, "-dumpplan requires a plan file; give one with -plan")
			os.Exit(1)
		}

		var e util.ErrorLogger
		plan, err := mission.LoadPlan(*planFilename, &e)
		if err != nil {
			lg.Errorf("%s: %v", *planFilename, err)
			os.Exit(1)
		}
		if e.HaveErrors() {
			e.PrintErrors(nil)
			os.Exit(1)
		}

		godump.Dump(*plan)
	} else if *dumpConfig {
		if configErr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", configErr)
		}
		godump.Dump(*config)
	} else {
		var stats Stats
		var render renderer.Renderer
		var plat platform.Platform

		defer lg.CatchAndReportCrash()

		go func() {
			t := time.Tick(15 * time.Second)
			for {
				<-t
				// Try to more aggressively return freed memory to the OS.
				debug.FreeOSMemory()
			}
		}()

		///////////////////////////////////////////////////////////////////////////
		// Global initialization and set up. Note that there are some subtle
		// inter-dependencies in the following; the order is carefully crafted.

		plat, err = platform.New(&config.Config, lg)
		if err != nil {
			panic(fmt.Sprintf("Unable to create application window: %v", err))
		}

		imgui.CurrentPlatformIO().SetClipboardHandler(plat.GetClipboard())

		render, err = renderer.NewOpenGL2Renderer(lg)
		if err != nil {
			panic(fmt.Sprintf("Unable to initialize OpenGL: %v", err))
		}
		renderer.FontsInit(render, plat)

		// Figure out which plan to start with: the autosave from the last
		// session wins since it may carry unsaved edits, then the file from
		// -plan or the config, then the built-in default.
		var plan *mission.Plan
		var restored time.Time
		if !*resetPlan {
			if p, tm, err := mission.RestoreAutosave(); err == nil {
				plan, restored = p, tm
			} else if !os.IsNotExist(err) {
				lg.Warnf("autosave restore: %v", err)
			}
		}
		var planLoadError string
		if plan == nil && *planFilename != "" {
			var e util.ErrorLogger
			if p, err := mission.LoadPlan(*planFilename, &e); err != nil {
				planLoadError = fmt.Sprintf("%s: unable to load plan: %v", *planFilename, err)
			} else if e.HaveErrors() {
				planLoadError = fmt.Sprintf("Errors in plan file %s:\n%s", *planFilename, e.String())
			} else {
				plan = p
			}
		}
		if plan == nil {
			plan = mission.DefaultPlan()
		}

		session := mission.NewSession(plan, lg)
		defer session.Destroy()

		uiInit(render, plat, config, lg)

		// After we have plat and render
		if configErr != nil {
			ShowErrorDialog(plat, lg, "Saved configuration file is corrupt. Discarding. (%v)", configErr)
		}
		if planLoadError != "" {
			ShowErrorDialog(plat, lg, "%s", planLoadError)
		}

		config.Activate(render, plat, session.EventStream, lg)

		panes.LoadedPlan(config.DisplayRoot, session.Plan, plat, lg)
		if !restored.IsZero() {
			session.PostStatus("restored autosaved plan from %s", restored.Format("15:04:05"))
		}

		if *listenAddr != "" {
			launchHTTPServer(*listenAddr, lg)
		}

		///////////////////////////////////////////////////////////////////////////
		// Main event / rendering loop
		lg.Info("Starting main loop")

		stats.startTime = time.Now()
		sessionStart := time.Now()
		lastAutosave := time.Now()

		for {
			plat.SetWindowTitle("skydeck: " + session.Plan.Name)

			SetDiscordStatus(DiscordStatus{
				PlanName:  session.Plan.Name,
				Waypoints: len(session.Plan.Waypoints),
				Commands:  session.CommandLog.Len(),
				Start:     sessionStart,
			}, config, lg)

			if *listenAddr != "" {
				updateHTTPStats(session)
			}

			session.Update()

			// Inform imgui about input events from the user.
			plat.ProcessEvents()

			stats.redraws++

			plat.NewFrame()
			imgui.NewFrame()

			// Generate and render the pane draw lists
			stats.drawPanes = panes.DrawPanes(config.DisplayRoot, plat, render, session,
				ui.menuBarHeight, lg)

			// Draw the user interface
			stats.drawUI = uiDraw(config, plat, render, session, lg)

			// Wait for vsync
			plat.PostRender()

			// Periodically log current memory use, etc.
			if stats.redraws%18000 == 9000 { // Every 5min at 60fps, starting 2.5min after launch
				lg.Info("performance", "stats", stats)
			}

			if !config.InhibitAutosave && time.Since(lastAutosave) > time.Minute {
				session.Plan.Autosave(lg)
				lastAutosave = time.Now()
			}

			if plat.ShouldStop() && !hasActiveModalDialogs() {
				// Do this while we're still running the event loop.
				config.SaveIfChanged(render, plat, lg)
				if !config.InhibitAutosave {
					session.Plan.Autosave(lg)
				}
				break
			}
		}
	}
}
