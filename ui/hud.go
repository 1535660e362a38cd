package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Tick           int32
	Prey           int
	Predators      int
	StepsPerUpdate int
	FPS            int32
	Paused         bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y}
}

// Draw renders the HUD and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	y := h.y
	rl.DrawText("Grid Soup", h.x, y, 20, rl.White)
	y += 26

	rl.DrawText(fmt.Sprintf("Prey: %d | Predators: %d", data.Prey, data.Predators), h.x, y, 14, rl.LightGray)
	y += 18
	rl.DrawText(fmt.Sprintf("Tick: %d | %dx | FPS: %d", data.Tick, data.StepsPerUpdate, data.FPS), h.x, y, 14, rl.LightGray)
	y += 18

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, h.x, y, 14, rl.Yellow)
	return y + 22
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-20, 12, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{registry: systems.NewSystemRegistry(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s | %.0f t/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16

	for _, ph := range telemetry.Phases {
		timing := stats.Phase(ph)
		avg, pct := timing.Avg, timing.Pct

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-13s %7s %5.1f%%", p.registry.GetName(ph.String()), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
