package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/camera"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/renderer"
	"github.com/pthm-cable/gridsoup/stream"
	"github.com/pthm-cable/gridsoup/ui"
)

const (
	maxViewport = 900
	minHeight   = 560
	controlHelp = "SPACE pause | N step | , . speed | arrows/wheel pan+zoom | G E R P overlays"
)

// runWindow runs the graphical viewer until the window closes or the tick
// limit is reached.
func runWindow(g *game.Game, cfg *config.Config, hub *stream.Hub, maxTicks, stepsPerUpdate int) error {
	cellSize := cfg.Screen.CellSize
	worldPx := float32(g.Size() * cellSize)
	viewport := int32(min(worldPx, maxViewport))
	panelW := int32(cfg.Screen.PanelWidth)
	screenW := viewport + panelW
	screenH := max(viewport, minHeight)

	rl.InitWindow(screenW, screenH, "Grid Soup")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	cam := camera.New(float32(viewport), float32(viewport), worldPx, worldPx)
	grid := renderer.NewGridRenderer(cellSize, cam, cfg)
	state := ui.NewControlState(stepsPerUpdate)
	overlays := ui.NewOverlayRegistry()

	panelX := viewport + 10
	hud := ui.NewHUD(panelX, 10)
	controls := ui.NewControlsPanel(panelX, 0, panelW-20)
	inspector := ui.NewInspector(panelX, 0, panelW-20)
	perf := ui.NewPerfPanel(panelX, 0)

	for !rl.WindowShouldClose() {
		ui.HandleInput(state, overlays, cam)

		for range state.StepsThisFrame() {
			done, err := step(g, hub, maxTicks)
			if err != nil {
				return err
			}
			if done {
				slog.Info("max ticks reached", "tick", g.Tick())
				return nil
			}
		}
		g.RecordFrame()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 30, G: 32, B: 36, A: 255})

		rl.BeginScissorMode(0, 0, viewport, viewport)
		grid.Draw(g, overlays.RenderOptions())
		mouse := rl.GetMousePosition()
		hx, hy, hovered := -1, -1, false
		if mouse.X < float32(viewport) && mouse.Y < float32(viewport) {
			hx, hy, hovered = cam.CellAt(mouse.X, mouse.Y, grid.CellSize(), g.Size())
		}
		if hovered {
			grid.Highlight(hx, hy)
		}
		rl.EndScissorMode()

		prey, pred := g.Counts()
		y := hud.Draw(ui.HUDData{
			Tick:           g.Tick(),
			Prey:           prey,
			Predators:      pred,
			StepsPerUpdate: state.StepsPerUpdate,
			FPS:            rl.GetFPS(),
			Paused:         state.Paused,
		})
		controls.SetPosition(panelX, y)
		y = controls.Draw(state, overlays) + 8

		if hovered {
			inspector.SetPosition(panelX, y)
			y = inspector.Draw(ui.Lookup(hx, hy, g.Cell(hx, hy), g.Agents())) + 16
		}
		if overlays.IsEnabled(ui.OverlayPerf) {
			perf.SetPosition(panelX, y)
			perf.Draw(g.PerfStats())
		}
		hud.DrawControls(screenH, controlHelp)

		rl.EndDrawing()
	}
	return nil
}
