package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/camera"
)

// HandleInput processes keyboard and mouse input for one frame.
func HandleInput(state *ControlState, overlays *OverlayRegistry, cam *camera.Camera) {
	if rl.IsKeyPressed(rl.KeySpace) {
		state.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		state.Paused = true
		state.RequestStep()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		state.Slower()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		state.Faster()
	}

	for _, desc := range overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			overlays.Toggle(desc.ID)
		}
	}

	handleCameraInput(cam)
}

// handleCameraInput processes camera pan/zoom controls.
func handleCameraInput(cam *camera.Camera) {
	if cam == nil {
		return
	}

	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
