package systems

import (
	"math"

	"github.com/pthm-cable/gridsoup/components"
)

// Radar categories, in the order they appear within each sector's slots.
const (
	SensePredator = iota
	SensePrey
	SenseFood
	SenseObstacle
	NumCategories
)

// Scan sweeps the square of side 2r+1 around (x, y) and returns
// sectors*NumCategories closeness values. Each sector reports only its
// closest occupant, as 1-(d/r)*0.9 in the slot of that occupant's
// category. Nothing blocks line of sight.
func Scan(g *Grid, x, y, detectRange, sectors int) []float64 {
	if sectors <= 0 {
		return []float64{}
	}
	out := make([]float64, sectors*NumCategories)
	if detectRange <= 0 {
		return out
	}

	r := float64(detectRange)
	width := 360 / float64(sectors)
	best := make([]float64, sectors)
	for dx := -detectRange; dx <= detectRange; dx++ {
		for dy := -detectRange; dy <= detectRange; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cx, cy := x+dx, y+dy
			if !g.InBounds(cx, cy) {
				continue
			}
			d := math.Hypot(float64(dx), float64(dy))
			if d > r {
				continue
			}
			cat, ok := category(g.At(cx, cy))
			if !ok {
				continue
			}

			angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi
			if angle < 0 {
				angle += 360
			}
			sector := min(int(angle/width), sectors-1)

			closeness := 1 - (d/r)*0.9
			if closeness > best[sector] {
				best[sector] = closeness
				base := sector * NumCategories
				clear(out[base : base+NumCategories])
				out[base+cat] = closeness
			}
		}
	}
	return out
}

func category(c Cell) (int, bool) {
	switch c.Content {
	case ContentAgent:
		if c.Kind == components.KindPredator {
			return SensePredator, true
		}
		return SensePrey, true
	case ContentFood:
		return SenseFood, true
	case ContentObstacle:
		return SenseObstacle, true
	}
	return 0, false
}
