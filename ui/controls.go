package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxStepsPerUpdate caps the speed slider and the period key.
const MaxStepsPerUpdate = 10

// ControlState is the viewer's run state, shared by the panel and the keyboard.
type ControlState struct {
	Paused         bool
	StepsPerUpdate int
	stepOnce       bool
}

// NewControlState creates a running state with the given speed.
func NewControlState(stepsPerUpdate int) *ControlState {
	s := &ControlState{}
	s.SetSteps(stepsPerUpdate)
	return s
}

// TogglePause flips between paused and running.
func (s *ControlState) TogglePause() {
	s.Paused = !s.Paused
}

// SetSteps sets the ticks run per frame, clamped to [1, MaxStepsPerUpdate].
func (s *ControlState) SetSteps(n int) {
	s.StepsPerUpdate = min(max(n, 1), MaxStepsPerUpdate)
}

// Faster increases the ticks per frame by one.
func (s *ControlState) Faster() { s.SetSteps(s.StepsPerUpdate + 1) }

// Slower decreases the ticks per frame by one.
func (s *ControlState) Slower() { s.SetSteps(s.StepsPerUpdate - 1) }

// RequestStep asks for a single tick while paused.
func (s *ControlState) RequestStep() {
	s.stepOnce = true
}

// StepsThisFrame returns how many ticks to run this frame and consumes any
// pending single-step request.
func (s *ControlState) StepsThisFrame() int {
	if !s.Paused {
		s.stepOnce = false
		return s.StepsPerUpdate
	}
	if s.stepOnce {
		s.stepOnce = false
		return 1
	}
	return 0
}

// ControlsPanel renders the side panel with run controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel, applies any clicks to state and overlays, and
// returns the Y below the panel.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Pad
	lineHeight := r.Theme.Row
	inner := float32(c.width - padding*2)
	descs := overlays.All()

	panelHeight := padding*3 + lineHeight*3 + 30 + 24 + int32(len(descs))*26
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := c.y + padding

	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += lineHeight + 4

	half := (inner - 10) / 2
	pauseLabel := "Pause"
	if state.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 26}, pauseLabel) {
		state.TogglePause()
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: float32(y), Width: half, Height: 26}, "Step") {
		if !state.Paused {
			state.Paused = true
		}
		state.RequestStep()
	}
	y += 30

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.StepsPerUpdate), int32(x), y, r.Theme.TextSize, r.Theme.Text)
	y += lineHeight
	speed := gui.SliderBar(
		rl.Rectangle{X: x + 14, Y: float32(y), Width: inner - 40, Height: 16},
		"1", fmt.Sprint(MaxStepsPerUpdate),
		float32(state.StepsPerUpdate), 1, MaxStepsPerUpdate,
	)
	state.SetSteps(int(speed + 0.5))
	y += 24

	y = r.DrawSectionHeader(int32(x), y, "Overlays")
	for _, desc := range descs {
		label := fmt.Sprintf("%s %s [%s]", toggleMark(overlays.IsEnabled(desc.ID)), desc.Name, desc.KeyLabel)
		if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 22}, label) {
			overlays.Toggle(desc.ID)
		}
		y += 26
	}

	return c.y + panelHeight
}

func toggleMark(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
