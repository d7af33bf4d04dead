// platform/platform.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"github.com/avdeck/skydeck/math"

	"github.com/AllenDang/cimgui-go/imgui"
)

// Platform is the interface that abstracts platform-specific features like
// creating windows, mouse and keyboard handling, and audio playback.
type Platform interface {
	// NewFrame marks the begin of a render pass; it forwards all current state to imgui IO.
	NewFrame()
	// ProcessEvents handles all pending window events. Returns true if
	// there were any events and false otherwise.
	ProcessEvents() bool
	// PostRender performs the buffer swap.
	PostRender()
	// Dispose is called when the application is shutting down and is when
	// resources are freed.
	Dispose()
	// ShouldStop returns true if the window is to be closed.
	ShouldStop() bool
	// CancelShouldStop cancels a user's request to close the window.
	CancelShouldStop()
	// SetWindowTitle sets the title of the application window.
	SetWindowTitle(text string)
	// InputCharacters returns a string of all the characters (generally at most one!) that have
	// been entered since the last call to ProcessEvents.
	InputCharacters() string
	// EnableVSync specifies whether v-sync should be used when rendering;
	// v-sync is on by default and should only be disabled for benchmarking.
	EnableVSync(sync bool)
	// EnableFullScreen switches between the application running in windowed and fullscreen mode.
	EnableFullScreen(fullscreen bool)
	// IsFullScreen returns true if the application is in full-screen mode.
	IsFullScreen() bool
	// GetAllMonitorNames returns an array of all available monitors' names.
	GetAllMonitorNames() []string
	// DisplaySize returns the dimension of the display.
	DisplaySize() [2]float32
	// WindowSize returns the size of the window.
	WindowSize() [2]int
	// WindowPosition returns the position of the window on the screen.
	WindowPosition() [2]int
	// FramebufferSize returns the dimension of the framebuffer.
	FramebufferSize() [2]float32
	// GetClipboard returns an object that implements the
	// imgui.ClipboardHandler interface so that copy and paste can be
	// supported.
	GetClipboard() imgui.ClipboardHandler
	// StartCaptureMouse enables a mode where the mouse is constrained to
	// be within the specified pixel extent, specified in window
	// coordinates.
	StartCaptureMouse(e math.Extent2D)
	// EndCaptureMouse disables mouse capture.
	EndCaptureMouse()
	// DPIScale returns the scaling factor to account for Retina-style displays.
	DPIScale() float32

	GetMouse() *MouseState
	GetKeyboard() *KeyboardState

	// AddPCM registers a sound effect given via 16-bit mono PCM samples;
	// the returned index can then be passed to the PlayAudio methods.
	AddPCM(pcm []byte, rate int) (int, error)
	// AddMP3 decodes the provided MP3 and registers it as a sound effect.
	AddMP3(mp3 []byte) (int, error)
	PlayAudioOnce(index int)
	StartPlayAudioContinuous(index int)
	StopPlayAudioContinuous(index int)
}
