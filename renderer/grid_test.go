package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

func TestCellColor(t *testing.T) {
	tests := []struct {
		name string
		view game.CellView
		want rl.Color
	}{
		{"empty", game.CellView{}, emptyColor},
		{"food", game.CellView{Content: systems.ContentFood}, foodColor},
		{"obstacle", game.CellView{Content: systems.ContentObstacle}, obstacleColor},
		{"predator", game.CellView{Content: systems.ContentAgent, Kind: components.KindPredator}, predatorColor},
		{"prey", game.CellView{Content: systems.ContentAgent, Kind: components.KindPrey}, preyColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CellColor(tt.view); got != tt.want {
				t.Errorf("CellColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnergyRatio(t *testing.T) {
	agent := func(e, m float64) game.CellView {
		return game.CellView{Content: systems.ContentAgent, Energy: e, MaxEnergy: m}
	}
	tests := []struct {
		name string
		view game.CellView
		want float32
	}{
		{"half", agent(50, 100), 0.5},
		{"full", agent(100, 100), 1},
		{"zero max", agent(10, 0), 0},
		{"not an agent", game.CellView{Content: systems.ContentFood, Energy: 5, MaxEnergy: 10}, 0},
		{"over max clamps", agent(150, 100), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnergyRatio(tt.view); got != tt.want {
				t.Errorf("EnergyRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnergyBarColor(t *testing.T) {
	if EnergyBarColor(0.1) != barLowColor {
		t.Error("0.1 should be low")
	}
	if EnergyBarColor(0.45) != barMediumColor {
		t.Error("0.45 should be medium")
	}
	if EnergyBarColor(0.9) != barHighColor {
		t.Error("0.9 should be high")
	}
}
