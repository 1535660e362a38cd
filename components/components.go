// Package components defines ECS components for the simulation.
package components

// Position is an agent's grid cell.
type Position struct {
	X, Y int
}

// Energy holds an agent's energy and its bounds. Value stays in [0, Max].
type Energy struct {
	Value   float64
	Max     float64
	Initial float64
}

// Ratio returns Value/Max, or 0 when Max is zero.
func (e Energy) Ratio() float64 {
	if e.Max == 0 {
		return 0
	}
	return e.Value / e.Max
}

// Spend subtracts cost, clamping at zero.
func (e *Energy) Spend(cost float64) {
	e.Value -= cost
	if e.Value < 0 {
		e.Value = 0
	}
}

// Gain adds amount, clamping at Max.
func (e *Energy) Gain(amount float64) {
	e.Value += amount
	if e.Value > e.Max {
		e.Value = e.Max
	}
}

// Agent holds per-agent identity and the kind's behavioural parameters.
type Agent struct {
	ID          uint32
	Kind        Kind
	Speed       float64 // probability of acting on a tick
	MoveCost    float64
	IdleCost    float64
	Gain        float64 // energy gained from foraging
	DetectRange int
	FoodTicks   int // consecutive ticks adjacent to food
	Generation  int
	BornTick    int32
}
