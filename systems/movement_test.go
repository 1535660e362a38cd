package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{-0.9, -1},
		{-0.34, -1},
		{-0.33, 0},
		{0, 0},
		{0.329, 0},
		{0.33, 0},
		{0.331, 1},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Delta(tt.v, 0.33); got != tt.want {
			t.Errorf("Delta(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestResolveMove(t *testing.T) {
	g := NewGrid(5)
	g.PlaceAt(2, 2, AgentCell(ecs.Entity{}, components.KindPredator))
	g.PlaceAt(3, 2, AgentCell(ecs.Entity{}, components.KindPrey))
	g.PlaceAt(2, 3, Cell{Content: ContentFood})
	g.PlaceAt(1, 2, Cell{Content: ContentObstacle})
	g.PlaceAt(1, 1, AgentCell(ecs.Entity{}, components.KindPredator))

	tests := []struct {
		name   string
		kind   components.Kind
		x, y   int
		dx, dy int
		want   MoveResult
	}{
		{"predator onto prey", components.KindPredator, 2, 2, 1, 0, MoveAttack},
		{"prey onto predator", components.KindPrey, 3, 2, -1, 0, MoveNone},
		{"predator onto predator", components.KindPredator, 2, 2, -1, -1, MoveNone},
		{"onto food", components.KindPredator, 2, 2, 0, 1, MoveNone},
		{"onto obstacle", components.KindPredator, 2, 2, -1, 0, MoveNone},
		{"into empty", components.KindPredator, 2, 2, 1, 1, MoveStep},
		{"zero step", components.KindPredator, 2, 2, 0, 0, MoveNone},
		{"off the edge", components.KindPrey, 3, 2, 2, 0, MoveNone},
		{"off the corner", components.KindPrey, 0, 0, -1, -1, MoveNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ResolveMove(g, tt.kind, tt.x, tt.y, tt.dx, tt.dy)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
