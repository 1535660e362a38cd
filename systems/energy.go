package systems

import "github.com/pthm-cable/gridsoup/components"

var neighbours = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}

// FoodAdjacent reports whether any of the eight cells around (x, y) holds food.
func FoodAdjacent(g *Grid, x, y int) bool {
	for _, d := range neighbours {
		if g.At(x+d[0], y+d[1]).Content == ContentFood {
			return true
		}
	}
	return false
}

// Forage updates the agent's food counter for this tick and returns the
// energy gained. Energy is awarded from the second consecutive tick next
// to food onwards.
func Forage(g *Grid, pos components.Position, agent *components.Agent, energy *components.Energy) float64 {
	if !FoodAdjacent(g, pos.X, pos.Y) {
		agent.FoodTicks = 0
		return 0
	}
	agent.FoodTicks++
	if agent.FoodTicks <= 1 {
		return 0
	}
	before := energy.Value
	energy.Gain(agent.Gain)
	return energy.Value - before
}
