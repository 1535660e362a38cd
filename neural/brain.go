package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInputWidth is returned when Forward receives the wrong number of inputs.
	ErrInputWidth = errors.New("input width mismatch")
	// ErrTopology is returned for an unusable layer layout.
	ErrTopology = errors.New("invalid brain topology")
)

// Brain is an ordered stack of layers. Hidden layer sizes follow the
// config convention: positive is dense, negative is recurrent. The
// output layer is always dense with tanh.
type Brain struct {
	layers []Layer
}

// NewBrain builds a randomly initialized brain.
func NewBrain(rng *rand.Rand, inputs int, hidden []int, outputs int, act Activation) (*Brain, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, fmt.Errorf("%w: inputs=%d outputs=%d", ErrTopology, inputs, outputs)
	}

	b := &Brain{layers: make([]Layer, 0, len(hidden)+1)}
	width := inputs
	for i, n := range hidden {
		switch {
		case n > 0:
			b.layers = append(b.layers, NewDense(rng, width, n, act))
			width = n
		case n < 0:
			b.layers = append(b.layers, NewRecurrent(rng, width, -n))
			width = -n
		default:
			return nil, fmt.Errorf("%w: hidden layer %d has zero units", ErrTopology, i)
		}
	}
	b.layers = append(b.layers, NewDense(rng, width, outputs, Tanh))
	return b, nil
}

// Forward normalizes the inputs to [-1, 1] and runs them through every
// layer in order. Recurrent layers update their hidden state.
func (b *Brain) Forward(inputs []float64) ([]float64, error) {
	if len(inputs) != b.InputWidth() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputWidth, len(inputs), b.InputWidth())
	}
	x := Normalize(inputs)
	for _, l := range b.layers {
		x = l.Step(x)
	}
	return x, nil
}

// Normalize rescales v linearly so that its minimum maps to -1 and its
// maximum to 1. A constant vector is returned unchanged.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	if len(v) == 0 {
		return out
	}
	lo, hi := floats.Min(v), floats.Max(v)
	if lo == hi {
		return out
	}
	floats.AddConst(-lo, out)
	floats.Scale(2/(hi-lo), out)
	floats.AddConst(-1, out)
	return out
}

// Reset clears the hidden state of every recurrent layer.
func (b *Brain) Reset() {
	for _, l := range b.layers {
		if r, ok := l.(*Recurrent); ok {
			r.Reset()
		}
	}
}

// Clone returns a deep copy, including recurrent state.
func (b *Brain) Clone() *Brain {
	c := &Brain{layers: make([]Layer, len(b.layers))}
	for i, l := range b.layers {
		c.layers[i] = l.clone()
	}
	return c
}

// Layers returns the brain's layers in evaluation order.
func (b *Brain) Layers() []Layer { return b.layers }

func (b *Brain) InputWidth() int { return b.layers[0].InputWidth() }

func (b *Brain) OutputWidth() int { return b.layers[len(b.layers)-1].OutputWidth() }
