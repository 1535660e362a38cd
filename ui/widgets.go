package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/renderer"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.TitleSize, r.Theme.Header)
	return y + r.Theme.Row
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.TextSize, r.Theme.Text)
	rl.DrawText(value, x+r.Theme.ValueCol, y, r.Theme.TextSize, r.Theme.Text)
	return y + r.Theme.Row
}

// DrawEnergyBar draws an energy bar with color thresholds.
func (r *Renderer) DrawEnergyBar(x, y int32, label string, current, maxVal float32, width int32) int32 {
	ratio := float32(0)
	if maxVal > 0 {
		ratio = min(current/maxVal, 1)
	}

	barX := x + r.Theme.ValueCol
	barWidth := width - r.Theme.ValueCol - 60

	rl.DrawText(label+":", x, y, r.Theme.TextSize, r.Theme.Text)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarTrack)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, renderer.EnergyBarColor(ratio))
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", current, maxVal), barX+barWidth+5, y, r.Theme.TextSize, r.Theme.Text)

	return y + r.Theme.Row + 2
}
