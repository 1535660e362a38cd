package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

// InspectorData describes the hovered cell.
type InspectorData struct {
	X, Y  int
	Cell  game.CellView
	Agent *game.AgentView // nil unless the cell holds an agent
}

// Inspector renders details of the cell under the mouse.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Pad
	lines := int32(3)
	if data.Agent != nil {
		lines += 4
	}
	panelHeight := padding*2 + lines*r.Theme.Row + 8
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := r.DrawSectionHeader(x, ins.y+padding, "Cell")
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%d, %d)", data.X, data.Y))

	content := data.Cell.Content.String()
	if data.Cell.Content == systems.ContentAgent {
		content = data.Cell.Kind.String()
	}
	y = r.DrawLabelValue(x, y, "Content", content)

	if data.Agent != nil {
		a := data.Agent
		y = r.DrawLabelValue(x, y, "ID", fmt.Sprint(a.ID))
		y = r.DrawLabelValue(x, y, "Generation", fmt.Sprint(a.Generation))
		y = r.DrawEnergyBar(x, y, "Energy", float32(a.Energy), float32(a.MaxEnergy), ins.width-padding*2)
		y = r.DrawLabelValue(x, y, "Ratio", fmt.Sprintf("%.2f", a.EnergyRatio()))
	}
	return y
}

// Lookup builds inspector data for (x, y) from the agent list.
func Lookup(x, y int, cell game.CellView, agents []game.AgentView) InspectorData {
	data := InspectorData{X: x, Y: y, Cell: cell}
	if cell.Content != systems.ContentAgent {
		return data
	}
	for i := range agents {
		if agents[i].ID == cell.AgentID {
			data.Agent = &agents[i]
			break
		}
	}
	return data
}
