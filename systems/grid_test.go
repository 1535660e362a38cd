package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
)

func TestPlaceScattersItems(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(20)

	if err := g.Place(rng, ContentFood, 10); err != nil {
		t.Fatalf("Place food: %v", err)
	}
	if err := g.Place(rng, ContentObstacle, 30); err != nil {
		t.Fatalf("Place obstacles: %v", err)
	}

	if got := g.Count(ContentFood); got != 10 {
		t.Errorf("food count = %d, want 10", got)
	}
	if got := g.Count(ContentObstacle); got != 30 {
		t.Errorf("obstacle count = %d, want 30", got)
	}
	if got := len(g.Obstacles()); got != 30 {
		t.Errorf("obstacle set size = %d, want 30", got)
	}
	for _, p := range g.Obstacles() {
		if g.At(p.X, p.Y).Content != ContentObstacle {
			t.Errorf("obstacle list entry %v is %v", p, g.At(p.X, p.Y).Content)
		}
	}
	if got := g.FreeCells(); got != 400-40 {
		t.Errorf("free cells = %d, want %d", got, 360)
	}
}

func TestPlaceRejectsOverfill(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGrid(3)
	if err := g.Place(rng, ContentObstacle, 9); err != nil {
		t.Fatalf("filling grid exactly: %v", err)
	}
	if err := g.Place(rng, ContentFood, 1); !errors.Is(err, ErrGridFull) {
		t.Errorf("err = %v, want ErrGridFull", err)
	}
	if err := g.Place(rng, ContentAgent, 0); err == nil {
		t.Error("scattering agents should fail")
	}
}

func TestPlaceAtAndClear(t *testing.T) {
	g := NewGrid(5)
	agent := AgentCell(ecs.Entity{}, components.KindPrey)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"empty cell", 1, 1, true},
		{"occupied cell", 1, 1, false},
		{"negative", -1, 0, false},
		{"past edge", 5, 0, false},
	}
	for _, tt := range tests {
		if got := g.PlaceAt(tt.x, tt.y, agent); got != tt.want {
			t.Errorf("%s: PlaceAt(%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}

	g.PlaceAt(2, 2, Cell{Content: ContentObstacle})
	if g.Clear(2, 2) {
		t.Error("Clear removed an obstacle")
	}
	if !g.Clear(1, 1) || !g.IsEmpty(1, 1) {
		t.Error("Clear did not empty agent cell")
	}
}

func TestMove(t *testing.T) {
	g := NewGrid(4)
	g.PlaceAt(0, 0, AgentCell(ecs.Entity{}, components.KindPredator))
	g.PlaceAt(1, 0, Cell{Content: ContentFood})

	if g.Move(0, 0, 1, 0) {
		t.Error("moved onto food")
	}
	if !g.Move(0, 0, 0, 1) {
		t.Fatal("move into empty cell failed")
	}
	if !g.IsEmpty(0, 0) || g.At(0, 1).Content != ContentAgent || g.At(0, 1).Kind != components.KindPredator {
		t.Errorf("unexpected cells after move: %v / %v", g.At(0, 0), g.At(0, 1))
	}
	if g.Move(3, 3, 2, 2) {
		t.Error("moved from an empty cell")
	}
}

func TestEmptyCellsIn(t *testing.T) {
	g := NewGrid(20)
	region := config.Region{MinX: 15, MaxX: 19, MinY: 15, MaxY: 19}
	g.PlaceAt(15, 15, Cell{Content: ContentFood})

	cells := g.EmptyCellsIn(region)
	if len(cells) != 24 {
		t.Fatalf("got %d empty cells, want 24", len(cells))
	}
	for _, c := range cells {
		if !region.Contains(c.X, c.Y) {
			t.Errorf("%v outside region", c)
		}
	}

	clipped := g.EmptyCellsIn(config.Region{MinX: 18, MaxX: 25, MinY: -3, MaxY: 0})
	if len(clipped) != 2 {
		t.Errorf("clipped region: got %d cells, want 2", len(clipped))
	}
	if n := len(g.EmptyCellsIn(g.Whole())); n != 399 {
		t.Errorf("whole grid: got %d cells, want 399", n)
	}
}
