// Package systems implements the grid world and the per-agent rules that
// operate on it: sensing, movement resolution and foraging.
package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
)

// ErrGridFull is returned when there are fewer free cells than items to place.
var ErrGridFull = errors.New("grid has too few free cells")

// Content identifies what occupies a cell.
type Content uint8

const (
	ContentEmpty Content = iota
	ContentFood
	ContentObstacle
	ContentAgent
)

func (c Content) String() string {
	switch c {
	case ContentEmpty:
		return "empty"
	case ContentFood:
		return "food"
	case ContentObstacle:
		return "obstacle"
	case ContentAgent:
		return "agent"
	default:
		return fmt.Sprintf("content(%d)", c)
	}
}

// Cell is one grid square. Entity and Kind are set only for ContentAgent.
type Cell struct {
	Content Content
	Entity  ecs.Entity
	Kind    components.Kind
}

// AgentCell returns the cell value for an agent occupant.
func AgentCell(e ecs.Entity, kind components.Kind) Cell {
	return Cell{Content: ContentAgent, Entity: e, Kind: kind}
}

// Grid is a size×size board indexed by (x, y). Each cell has at most one
// occupant and obstacle cells never change once placed.
type Grid struct {
	size      int
	cells     []Cell
	obstacles []components.Position
}

// NewGrid creates an empty grid.
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// Size returns the grid's side length.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// At returns the cell at (x, y). Out-of-bounds coordinates read as empty.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Cell{}
	}
	return g.cells[x*g.size+y]
}

// IsEmpty reports whether (x, y) is on the grid and unoccupied.
func (g *Grid) IsEmpty(x, y int) bool {
	return g.InBounds(x, y) && g.cells[x*g.size+y].Content == ContentEmpty
}

// PlaceAt puts cell at (x, y) if the target is on the grid and empty.
// It reports whether the placement happened.
func (g *Grid) PlaceAt(x, y int, cell Cell) bool {
	if !g.IsEmpty(x, y) {
		return false
	}
	g.cells[x*g.size+y] = cell
	if cell.Content == ContentObstacle {
		g.obstacles = append(g.obstacles, components.Position{X: x, Y: y})
	}
	return true
}

// Clear empties (x, y). Obstacles are permanent and are left in place.
func (g *Grid) Clear(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	c := &g.cells[x*g.size+y]
	if c.Content == ContentObstacle {
		return false
	}
	*c = Cell{}
	return true
}

// Move relocates the agent at (fx, fy) to the empty cell (tx, ty).
func (g *Grid) Move(fx, fy, tx, ty int) bool {
	from := g.At(fx, fy)
	if from.Content != ContentAgent || !g.IsEmpty(tx, ty) {
		return false
	}
	g.cells[tx*g.size+ty] = from
	g.cells[fx*g.size+fy] = Cell{}
	return true
}

// Place scatters count markers of the given content over uniformly random
// empty cells.
func (g *Grid) Place(rng *rand.Rand, content Content, count int) error {
	if content == ContentAgent || content == ContentEmpty {
		return fmt.Errorf("place %v: only food and obstacles can be scattered", content)
	}
	if free := g.FreeCells(); free < count {
		return fmt.Errorf("%w: placing %d %v on %d free cells", ErrGridFull, count, content, free)
	}
	for placed := 0; placed < count; {
		x, y := rng.Intn(g.size), rng.Intn(g.size)
		if g.PlaceAt(x, y, Cell{Content: content}) {
			placed++
		}
	}
	return nil
}

// FreeCells counts empty cells.
func (g *Grid) FreeCells() int {
	n := 0
	for _, c := range g.cells {
		if c.Content == ContentEmpty {
			n++
		}
	}
	return n
}

// EmptyCellsIn lists the empty cells inside r in x-major order.
func (g *Grid) EmptyCellsIn(r config.Region) []components.Position {
	var out []components.Position
	for x := max(r.MinX, 0); x <= min(r.MaxX, g.size-1); x++ {
		for y := max(r.MinY, 0); y <= min(r.MaxY, g.size-1); y++ {
			if g.cells[x*g.size+y].Content == ContentEmpty {
				out = append(out, components.Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Whole returns the region covering the entire grid.
func (g *Grid) Whole() config.Region {
	return config.Region{MinX: 0, MaxX: g.size - 1, MinY: 0, MaxY: g.size - 1}
}

// Obstacles returns the obstacle positions in placement order.
func (g *Grid) Obstacles() []components.Position {
	out := make([]components.Position, len(g.obstacles))
	copy(out, g.obstacles)
	return out
}

// Count returns the number of cells holding the given content.
func (g *Grid) Count(content Content) int {
	n := 0
	for _, c := range g.cells {
		if c.Content == content {
			n++
		}
	}
	return n
}
