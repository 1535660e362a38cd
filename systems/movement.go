package systems

import "github.com/pthm-cable/gridsoup/components"

// Delta maps one brain output to a step of -1, 0 or +1. Outputs exactly
// on either threshold stay put.
func Delta(v, threshold float64) int {
	switch {
	case v < -threshold:
		return -1
	case v > threshold:
		return 1
	default:
		return 0
	}
}

// MoveResult describes what a resolved move does.
type MoveResult uint8

const (
	MoveNone   MoveResult = iota // blocked, out of bounds or zero step
	MoveStep                     // relocate into an empty cell
	MoveAttack                   // predator onto prey
)

func (m MoveResult) String() string {
	switch m {
	case MoveStep:
		return "step"
	case MoveAttack:
		return "attack"
	default:
		return "none"
	}
}

// ResolveMove decides the outcome of an agent of the given kind at (x, y)
// stepping by (dx, dy). The grid is not modified.
func ResolveMove(g *Grid, kind components.Kind, x, y, dx, dy int) (MoveResult, Cell) {
	if dx == 0 && dy == 0 {
		return MoveNone, Cell{}
	}
	tx, ty := x+dx, y+dy
	if !g.InBounds(tx, ty) {
		return MoveNone, Cell{}
	}
	target := g.At(tx, ty)
	switch {
	case kind == components.KindPredator && target.Content == ContentAgent && target.Kind == components.KindPrey:
		return MoveAttack, target
	case target.Content == ContentEmpty:
		return MoveStep, target
	}
	return MoveNone, target
}
