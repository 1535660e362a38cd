package systems

import (
	"testing"

	"github.com/pthm-cable/gridsoup/components"
)

func TestFoodAdjacent(t *testing.T) {
	g := NewGrid(10)
	g.PlaceAt(5, 5, Cell{Content: ContentFood})

	tests := []struct {
		x, y int
		want bool
	}{
		{4, 4, true},
		{6, 6, true},
		{5, 4, true},
		{3, 3, false},
		{5, 7, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := FoodAdjacent(g, tt.x, tt.y); got != tt.want {
			t.Errorf("FoodAdjacent(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestForageSecondTickGain(t *testing.T) {
	g := NewGrid(10)
	g.PlaceAt(5, 5, Cell{Content: ContentFood})
	pos := components.Position{X: 4, Y: 4}
	agent := components.Agent{Kind: components.KindPrey, Gain: 10}
	energy := components.Energy{Value: 50, Max: 100, Initial: 100}

	if got := Forage(g, pos, &agent, &energy); got != 0 || energy.Value != 50 {
		t.Fatalf("first tick: gained %v, energy %v; want no gain", got, energy.Value)
	}
	if got := Forage(g, pos, &agent, &energy); got != 10 || energy.Value != 60 {
		t.Fatalf("second tick: gained %v, energy %v; want +10", got, energy.Value)
	}

	energy.Value = 95
	if got := Forage(g, pos, &agent, &energy); got != 5 || energy.Value != 100 {
		t.Errorf("third tick: gained %v, energy %v; want clamp at 100", got, energy.Value)
	}

	away := components.Position{X: 1, Y: 1}
	Forage(g, away, &agent, &energy)
	if agent.FoodTicks != 0 {
		t.Errorf("FoodTicks = %d after leaving food, want 0", agent.FoodTicks)
	}
}
