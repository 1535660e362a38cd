package neural

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrGenomeMismatch is returned when two genomes, or a genome and a brain,
// do not share the same shape.
var ErrGenomeMismatch = errors.New("genome shape mismatch")

// Genome is a tree of weights. A leaf holds a single weight; a node holds
// an ordered list of sub-genomes. A brain's genome has one node per dense
// layer, each with one node per neuron whose leaves are that neuron's
// input weights.
type Genome struct {
	Weight   float64
	Children []Genome
}

// Leaf returns a genome holding a single weight.
func Leaf(w float64) Genome { return Genome{Weight: w} }

// Node returns a genome with the given children. Node() with no children
// is an empty node, not a leaf.
func Node(children ...Genome) Genome {
	c := make([]Genome, len(children))
	copy(c, children)
	return Genome{Children: c}
}

// IsLeaf reports whether g holds a single weight.
func (g Genome) IsLeaf() bool { return g.Children == nil }

// Weights returns every leaf weight in depth-first order.
func (g Genome) Weights() []float64 {
	var out []float64
	g.walk(func(w float64) { out = append(out, w) })
	return out
}

func (g Genome) walk(fn func(float64)) {
	if g.IsLeaf() {
		fn(g.Weight)
		return
	}
	for _, c := range g.Children {
		c.walk(fn)
	}
}

// CrossoverOptions controls Crossover.
type CrossoverOptions struct {
	SwapProb      float64 // chance a leaf pair is exchanged
	MutationRate  float64 // per-child, per-leaf mutation chance
	MutationRange float64 // mutation adds uniform noise in [-range, range)
}

// DefaultCrossoverOptions returns the standard crossover settings.
func DefaultCrossoverOptions() CrossoverOptions {
	return CrossoverOptions{SwapProb: 0.5, MutationRate: 0.01, MutationRange: 0.1}
}

// Crossover produces two children of the same shape as a and b. At each
// leaf the parents' weights are swapped with probability SwapProb, then
// each child's weight is independently mutated with probability
// MutationRate.
func Crossover(rng *rand.Rand, a, b Genome, opts CrossoverOptions) (Genome, Genome, error) {
	switch {
	case a.IsLeaf() && b.IsLeaf():
		c1, c2 := a.Weight, b.Weight
		if rng.Float64() < opts.SwapProb {
			c1, c2 = c2, c1
		}
		c1 = mutate(rng, c1, opts)
		c2 = mutate(rng, c2, opts)
		return Leaf(c1), Leaf(c2), nil
	case a.IsLeaf() || b.IsLeaf():
		return Genome{}, Genome{}, fmt.Errorf("%w: leaf paired with node", ErrGenomeMismatch)
	case len(a.Children) != len(b.Children):
		return Genome{}, Genome{}, fmt.Errorf("%w: %d vs %d children", ErrGenomeMismatch, len(a.Children), len(b.Children))
	}

	c1 := Genome{Children: make([]Genome, len(a.Children))}
	c2 := Genome{Children: make([]Genome, len(a.Children))}
	for i := range a.Children {
		x, y, err := Crossover(rng, a.Children[i], b.Children[i], opts)
		if err != nil {
			return Genome{}, Genome{}, err
		}
		c1.Children[i], c2.Children[i] = x, y
	}
	return c1, c2, nil
}

func mutate(rng *rand.Rand, w float64, opts CrossoverOptions) float64 {
	if rng.Float64() < opts.MutationRate {
		w += (rng.Float64()*2 - 1) * opts.MutationRange
	}
	return w
}

// Genome extracts the brain's dense weights. Recurrent parameters are not
// part of the genome.
func (b *Brain) Genome() Genome {
	var layers []Genome
	for _, l := range b.layers {
		d, ok := l.(*Dense)
		if !ok {
			continue
		}
		neurons := make([]Genome, d.OutputWidth())
		for i := range neurons {
			w := d.Weights(i)
			leaves := make([]Genome, len(w))
			for j, v := range w {
				leaves[j] = Leaf(v)
			}
			neurons[i] = Genome{Children: leaves}
		}
		layers = append(layers, Genome{Children: neurons})
	}
	return Node(layers...)
}

// SetGenome writes g into the brain's dense weights. The brain is left
// untouched if g does not match its shape.
func (b *Brain) SetGenome(g Genome) error {
	dense := b.denseLayers()
	if g.IsLeaf() || len(g.Children) != len(dense) {
		return fmt.Errorf("%w: want %d dense layers", ErrGenomeMismatch, len(dense))
	}
	for li, d := range dense {
		lg := g.Children[li]
		if lg.IsLeaf() || len(lg.Children) != d.OutputWidth() {
			return fmt.Errorf("%w: layer %d wants %d neurons", ErrGenomeMismatch, li, d.OutputWidth())
		}
		for ni, ng := range lg.Children {
			if ng.IsLeaf() || len(ng.Children) != d.InputWidth() {
				return fmt.Errorf("%w: layer %d neuron %d wants %d weights", ErrGenomeMismatch, li, ni, d.InputWidth())
			}
			for _, leaf := range ng.Children {
				if !leaf.IsLeaf() {
					return fmt.Errorf("%w: layer %d neuron %d has nested weights", ErrGenomeMismatch, li, ni)
				}
			}
		}
	}

	for li, d := range dense {
		for ni, ng := range g.Children[li].Children {
			w := d.Weights(ni)
			for j, leaf := range ng.Children {
				w[j] = leaf.Weight
			}
		}
	}
	return nil
}

func (b *Brain) denseLayers() []*Dense {
	var out []*Dense
	for _, l := range b.layers {
		if d, ok := l.(*Dense); ok {
			out = append(out, d)
		}
	}
	return out
}
