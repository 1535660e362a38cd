// Package renderer draws the simulation grid with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/camera"
	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

// Source is the read-only view of the world the renderer draws.
type Source interface {
	Size() int
	Cell(x, y int) game.CellView
}

var (
	emptyColor     = rl.Color{R: 235, G: 235, B: 230, A: 255}
	gridLineColor  = rl.Color{R: 200, G: 200, B: 195, A: 255}
	predatorColor  = rl.Color{R: 200, G: 40, B: 40, A: 255}
	preyColor      = rl.Color{R: 40, G: 90, B: 210, A: 255}
	foodColor      = rl.Color{R: 60, G: 170, B: 70, A: 255}
	obstacleColor  = rl.Color{R: 20, G: 20, B: 20, A: 255}
	barBgColor     = rl.Color{R: 40, G: 40, B: 40, A: 200}
	barLowColor    = rl.Color{R: 220, G: 80, B: 60, A: 255}
	barMediumColor = rl.Color{R: 230, G: 190, B: 60, A: 255}
	barHighColor   = rl.Color{R: 90, G: 210, B: 90, A: 255}
)

// CellColor returns the fill color for a cell.
func CellColor(v game.CellView) rl.Color {
	switch v.Content {
	case systems.ContentFood:
		return foodColor
	case systems.ContentObstacle:
		return obstacleColor
	case systems.ContentAgent:
		if v.Kind == components.KindPredator {
			return predatorColor
		}
		return preyColor
	default:
		return emptyColor
	}
}

// EnergyRatio returns the cell agent's energy as a fraction of its maximum,
// clamped to [0, 1]. Cells without an agent read as 0.
func EnergyRatio(v game.CellView) float32 {
	if v.Content != systems.ContentAgent || v.MaxEnergy <= 0 {
		return 0
	}
	r := float32(v.Energy / v.MaxEnergy)
	return min(max(r, 0), 1)
}

// EnergyBarColor picks the bar fill for an energy ratio.
func EnergyBarColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return barLowColor
	case ratio < 0.6:
		return barMediumColor
	default:
		return barHighColor
	}
}

// Options toggles the optional layers drawn over the grid.
type Options struct {
	GridLines    bool
	EnergyBars   bool
	SpawnRegions bool
}

// GridRenderer draws the grid through a camera.
type GridRenderer struct {
	cellSize float32
	cam      *camera.Camera
	regions  [2]config.Region // predator, prey
}

// NewGridRenderer creates a renderer for cells of cellSize pixels.
func NewGridRenderer(cellSize int, cam *camera.Camera, cfg *config.Config) *GridRenderer {
	return &GridRenderer{
		cellSize: float32(cellSize),
		cam:      cam,
		regions:  [2]config.Region{cfg.Derived.PredatorSpawn, cfg.Derived.PreySpawn},
	}
}

// CellSize returns the cell edge in world pixels.
func (r *GridRenderer) CellSize() float32 {
	return r.cellSize
}

// Draw renders every visible cell, then the enabled overlays.
func (r *GridRenderer) Draw(src Source, opts Options) {
	size := src.Size()
	half := r.cellSize / 2
	edge := r.cellSize * r.cam.Zoom

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			wx := float32(x) * r.cellSize
			wy := float32(y) * r.cellSize
			if !r.cam.IsVisible(wx+half, wy+half, half) {
				continue
			}
			sx, sy := r.cam.WorldToScreen(wx, wy)
			v := src.Cell(x, y)

			rect := rl.Rectangle{X: sx, Y: sy, Width: edge, Height: edge}
			rl.DrawRectangleRec(rect, emptyColor)
			switch v.Content {
			case systems.ContentAgent:
				inset := edge * 0.1
				rl.DrawRectangleRec(rl.Rectangle{
					X: sx + inset, Y: sy + inset,
					Width: edge - 2*inset, Height: edge - 2*inset,
				}, CellColor(v))
				if opts.EnergyBars {
					r.drawEnergyBar(sx, sy, edge, EnergyRatio(v))
				}
			case systems.ContentFood:
				rl.DrawCircleV(rl.Vector2{X: sx + edge/2, Y: sy + edge/2}, edge*0.3, foodColor)
			case systems.ContentObstacle:
				rl.DrawRectangleRec(rect, obstacleColor)
			}
			if opts.GridLines {
				rl.DrawRectangleLinesEx(rect, 1, gridLineColor)
			}
		}
	}

	if opts.SpawnRegions {
		r.drawRegion(r.regions[0], predatorColor)
		r.drawRegion(r.regions[1], preyColor)
	}
}

// drawEnergyBar draws a thin bar along the top of an agent cell.
func (r *GridRenderer) drawEnergyBar(sx, sy, edge, ratio float32) {
	h := max(edge*0.12, 2)
	rl.DrawRectangleRec(rl.Rectangle{X: sx, Y: sy, Width: edge, Height: h}, barBgColor)
	rl.DrawRectangleRec(rl.Rectangle{X: sx, Y: sy, Width: edge * ratio, Height: h}, EnergyBarColor(ratio))
}

// drawRegion outlines an inclusive cell rectangle.
func (r *GridRenderer) drawRegion(reg config.Region, color rl.Color) {
	sx, sy := r.cam.WorldToScreen(float32(reg.MinX)*r.cellSize, float32(reg.MinY)*r.cellSize)
	w := float32(reg.MaxX-reg.MinX+1) * r.cellSize * r.cam.Zoom
	h := float32(reg.MaxY-reg.MinY+1) * r.cellSize * r.cam.Zoom
	color.A = 160
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: w, Height: h}, 2, color)
}

// Highlight outlines a single cell, used for the hovered cell.
func (r *GridRenderer) Highlight(x, y int) {
	sx, sy := r.cam.WorldToScreen(float32(x)*r.cellSize, float32(y)*r.cellSize)
	edge := r.cellSize * r.cam.Zoom
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: edge, Height: edge}, 2, rl.Orange)
}
