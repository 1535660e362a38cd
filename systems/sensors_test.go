package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
)

func closeness(dx, dy, r int) float64 {
	return 1 - (math.Hypot(float64(dx), float64(dy))/float64(r))*0.9
}

func TestScanEmptyGrid(t *testing.T) {
	g := NewGrid(20)
	out := Scan(g, 10, 10, 8, 4)
	if len(out) != 16 {
		t.Fatalf("len = %d, want 16", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v on empty grid", i, v)
		}
	}
}

func TestScanSectors(t *testing.T) {
	const x, y, r = 10, 10, 8
	g := NewGrid(20)
	g.PlaceAt(x+2, y, Cell{Content: ContentFood})                         // 0°, sector 0
	g.PlaceAt(x, y+3, AgentCell(ecs.Entity{}, components.KindPrey))       // 90°, sector 1
	g.PlaceAt(x-3, y, Cell{Content: ContentFood})                         // 180°, sector 2
	g.PlaceAt(x-1, y-1, Cell{Content: ContentObstacle})                   // 225°, sector 2, closer
	g.PlaceAt(x+1, y-4, AgentCell(ecs.Entity{}, components.KindPredator)) // ~284°, sector 3
	g.PlaceAt(x+7, y-7, AgentCell(ecs.Entity{}, components.KindPrey))     // beyond range

	out := Scan(g, x, y, r, 4)
	want := make([]float64, 16)
	want[0*NumCategories+SenseFood] = closeness(2, 0, r)
	want[1*NumCategories+SensePrey] = closeness(0, 3, r)
	want[2*NumCategories+SenseObstacle] = closeness(-1, -1, r)
	want[3*NumCategories+SensePredator] = closeness(1, -4, r)

	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestScanTiesKeepFirst(t *testing.T) {
	g := NewGrid(10)
	// Both at distance 1 in sector 0 of 1; dx=-1 is visited first.
	g.PlaceAt(4, 5, Cell{Content: ContentObstacle})
	g.PlaceAt(6, 5, Cell{Content: ContentFood})

	out := Scan(g, 5, 5, 3, 1)
	if out[SenseObstacle] == 0 || out[SenseFood] != 0 {
		t.Errorf("got %v, want obstacle kept over equally close food", out)
	}
}

func TestScanDegenerateArguments(t *testing.T) {
	g := NewGrid(5)
	g.PlaceAt(1, 0, Cell{Content: ContentFood})

	if out := Scan(g, 0, 0, 3, 0); len(out) != 0 {
		t.Errorf("zero sectors: len = %d, want 0", len(out))
	}
	out := Scan(g, 0, 0, 0, 4)
	if len(out) != 16 {
		t.Fatalf("zero range: len = %d, want 16", len(out))
	}
	for _, v := range out {
		if v != 0 {
			t.Fatalf("zero range produced %v", out)
		}
	}
}

func TestScanRangeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		g := NewGrid(15)
		g.Place(rng, ContentFood, 20)
		g.Place(rng, ContentObstacle, 20)
		for i := 0; i < 20; i++ {
			g.PlaceAt(rng.Intn(15), rng.Intn(15), AgentCell(ecs.Entity{}, components.Kind(rng.Intn(2))))
		}

		sectors := 1 + rng.Intn(8)
		out := Scan(g, rng.Intn(15), rng.Intn(15), 1+rng.Intn(10), sectors)
		if len(out) != sectors*NumCategories {
			t.Fatalf("len = %d, want %d", len(out), sectors*NumCategories)
		}
		for s := 0; s < sectors; s++ {
			nonZero := 0
			for _, v := range out[s*NumCategories : (s+1)*NumCategories] {
				if v < 0 || v > 1 {
					t.Fatalf("value %v outside [0, 1]", v)
				}
				if v != 0 {
					nonZero++
				}
			}
			if nonZero > 1 {
				t.Fatalf("sector %d has %d active categories", s, nonZero)
			}
		}
	}
}

func BenchmarkScan(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	g := NewGrid(20)
	g.Place(rng, ContentFood, 10)
	g.Place(rng, ContentObstacle, 30)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Scan(g, 10, 10, 10, 4)
	}
}
