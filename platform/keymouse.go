// platform/keymouse.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"github.com/AllenDang/cimgui-go/imgui"
)

type MouseState struct {
	Pos           [2]float32
	Down          [MouseButtonCount]bool
	Clicked       [MouseButtonCount]bool
	Released      [MouseButtonCount]bool
	DoubleClicked [MouseButtonCount]bool
	Dragging      [MouseButtonCount]bool
	DragDelta     [2]float32
	Wheel         [2]float32
}

const (
	MouseButtonPrimary imgui.MouseButton = iota
	MouseButtonSecondary
	MouseButtonTertiary
	MouseButtonCount
)

func (ms *MouseState) SetCursor(id imgui.MouseCursor) {
	imgui.SetMouseCursor(id)
}

func (g *glfwPlatform) GetMouse() *MouseState {
	io := imgui.CurrentIO()
	pos := imgui.MousePos()
	wx, wy := io.MouseWheelH(), io.MouseWheel()

	m := &MouseState{
		Pos:   [2]float32{pos.X, pos.Y},
		Wheel: [2]float32{wx, wy},
	}

	for b := MouseButtonPrimary; b < MouseButtonCount; b++ {
		m.Down[b] = imgui.IsMouseDown(b)
		m.Released[b] = imgui.IsMouseReleased(b)
		m.Clicked[b] = imgui.IsMouseClickedBool(b)
		m.DoubleClicked[b] = imgui.IsMouseDoubleClicked(b)
		m.Dragging[b] = imgui.IsMouseDraggingV(b, 0)
		if m.Dragging[b] {
			delta := imgui.MouseDragDeltaV(b, 0.)
			m.DragDelta = [2]float32{delta.X, delta.Y}
			imgui.ResetMouseDragDeltaV(b)
		}
	}

	return m
}

type KeyboardState struct {
	Input string
	// A key shows up here once each time it is pressed (though repeatedly
	// if key repeat kicks in.)
	Pressed map[imgui.Key]interface{}

	// Modifier state is captured at poll time so that consumers (and
	// tests) never need to reach back into imgui.
	shift, control, alt, superKey bool
}

func (g *glfwPlatform) GetKeyboard() *KeyboardState {
	io := imgui.CurrentIO()
	keyboard := &KeyboardState{
		Pressed:  make(map[imgui.Key]interface{}),
		shift:    io.KeyShift(),
		control:  io.KeyCtrl(),
		alt:      io.KeyAlt(),
		superKey: io.KeySuper(),
	}

	keyboard.Input = g.InputCharacters()

	if imgui.IsKeyPressedBool(imgui.KeyEnter) ||
		imgui.IsKeyPressedBool(imgui.KeyKeypadEnter) {
		keyboard.Pressed[imgui.KeyEnter] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyDownArrow) {
		keyboard.Pressed[imgui.KeyDownArrow] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyUpArrow) {
		keyboard.Pressed[imgui.KeyUpArrow] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyLeftArrow) {
		keyboard.Pressed[imgui.KeyLeftArrow] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyRightArrow) {
		keyboard.Pressed[imgui.KeyRightArrow] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyHome) {
		keyboard.Pressed[imgui.KeyHome] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyEnd) {
		keyboard.Pressed[imgui.KeyEnd] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyBackspace) {
		keyboard.Pressed[imgui.KeyBackspace] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyDelete) {
		keyboard.Pressed[imgui.KeyDelete] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyEscape) {
		keyboard.Pressed[imgui.KeyEscape] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyTab) {
		keyboard.Pressed[imgui.KeyTab] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyPageUp) {
		keyboard.Pressed[imgui.KeyPageUp] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyPageDown) {
		keyboard.Pressed[imgui.KeyPageDown] = nil
	}
	if imgui.IsKeyPressedBool(imgui.KeyV) {
		keyboard.Pressed[imgui.KeyV] = nil
	}

	return keyboard
}

func (k *KeyboardState) KeyShift() bool   { return k.shift }
func (k *KeyboardState) KeyControl() bool { return k.control }
func (k *KeyboardState) KeyAlt() bool     { return k.alt }
func (k *KeyboardState) KeySuper() bool   { return k.superKey }

func (k *KeyboardState) WasPressed(key imgui.Key) bool {
	_, ok := k.Pressed[key]
	return ok
}
