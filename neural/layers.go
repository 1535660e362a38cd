package neural

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Layer is one stage of a Brain. Concrete layers are *Dense and *Recurrent.
type Layer interface {
	// Step maps an input vector to the layer's output vector.
	Step(in []float64) []float64
	InputWidth() int
	OutputWidth() int
	clone() Layer
}

// Dense is a fully connected layer without bias terms.
// Row i of the weight matrix holds neuron i's input weights.
type Dense struct {
	weights *mat.Dense
	act     Activation
}

// NewDense creates a dense layer with weights drawn uniformly from [-1, 1).
func NewDense(rng *rand.Rand, inputs, units int, act Activation) *Dense {
	return &Dense{weights: randomMatrix(rng, units, inputs), act: act}
}

func (d *Dense) Step(in []float64) []float64 {
	x := mat.NewVecDense(len(in), in)
	var sum mat.VecDense
	sum.MulVec(d.weights, x)

	out := make([]float64, sum.Len())
	for i := range out {
		out[i] = d.act.Apply(sum.AtVec(i))
	}
	return out
}

func (d *Dense) InputWidth() int {
	_, c := d.weights.Dims()
	return c
}

func (d *Dense) OutputWidth() int {
	r, _ := d.weights.Dims()
	return r
}

// Activation returns the layer's transfer function.
func (d *Dense) Activation() Activation { return d.act }

// Weights returns neuron i's input weights. The slice aliases the layer.
func (d *Dense) Weights(i int) []float64 {
	return d.weights.RawRowView(i)
}

func (d *Dense) clone() Layer {
	return &Dense{weights: mat.DenseCopyOf(d.weights), act: d.act}
}

// Recurrent is a GRU layer. Its hidden state persists across Step calls
// until Reset.
//
//	z  = sigmoid(Wz·x + Uz·h + bz)
//	r  = sigmoid(Wr·x + Ur·h + br)
//	ĥ  = tanh(Wh·x + Uh·(r⊙h) + bh)
//	h' = (1-z)⊙h + z⊙ĥ
type Recurrent struct {
	wz, wr, wh *mat.Dense
	uz, ur, uh *mat.Dense
	bz, br, bh *mat.VecDense
	hidden     *mat.VecDense
}

// NewRecurrent creates a GRU layer with parameters drawn uniformly from
// [-1, 1) and a zero hidden state.
func NewRecurrent(rng *rand.Rand, inputs, units int) *Recurrent {
	return &Recurrent{
		wz:     randomMatrix(rng, units, inputs),
		wr:     randomMatrix(rng, units, inputs),
		wh:     randomMatrix(rng, units, inputs),
		uz:     randomMatrix(rng, units, units),
		ur:     randomMatrix(rng, units, units),
		uh:     randomMatrix(rng, units, units),
		bz:     mat.NewVecDense(units, uniform(rng, units)),
		br:     mat.NewVecDense(units, uniform(rng, units)),
		bh:     mat.NewVecDense(units, uniform(rng, units)),
		hidden: mat.NewVecDense(units, nil),
	}
}

func (r *Recurrent) Step(in []float64) []float64 {
	x := mat.NewVecDense(len(in), in)

	z := gate(r.wz, r.uz, r.bz, x, r.hidden, Sigmoid)
	reset := gate(r.wr, r.ur, r.br, x, r.hidden, Sigmoid)

	var rh mat.VecDense
	rh.MulElemVec(reset, r.hidden)
	cand := gate(r.wh, r.uh, r.bh, x, &rh, Tanh)

	out := make([]float64, r.hidden.Len())
	for i := range out {
		zi := z.AtVec(i)
		out[i] = (1-zi)*r.hidden.AtVec(i) + zi*cand.AtVec(i)
		r.hidden.SetVec(i, out[i])
	}
	return out
}

func (r *Recurrent) InputWidth() int {
	_, c := r.wz.Dims()
	return c
}

func (r *Recurrent) OutputWidth() int {
	return r.hidden.Len()
}

// Hidden returns a copy of the current hidden state.
func (r *Recurrent) Hidden() []float64 {
	out := make([]float64, r.hidden.Len())
	copy(out, r.hidden.RawVector().Data)
	return out
}

// Reset zeroes the hidden state.
func (r *Recurrent) Reset() {
	r.hidden.Zero()
}

func (r *Recurrent) clone() Layer {
	return &Recurrent{
		wz:     mat.DenseCopyOf(r.wz),
		wr:     mat.DenseCopyOf(r.wr),
		wh:     mat.DenseCopyOf(r.wh),
		uz:     mat.DenseCopyOf(r.uz),
		ur:     mat.DenseCopyOf(r.ur),
		uh:     mat.DenseCopyOf(r.uh),
		bz:     mat.VecDenseCopyOf(r.bz),
		br:     mat.VecDenseCopyOf(r.br),
		bh:     mat.VecDenseCopyOf(r.bh),
		hidden: mat.VecDenseCopyOf(r.hidden),
	}
}

// gate computes act(w·x + u·h + b).
func gate(w, u *mat.Dense, b, x, h *mat.VecDense, act Activation) *mat.VecDense {
	var wx, uh mat.VecDense
	wx.MulVec(w, x)
	uh.MulVec(u, h)
	wx.AddVec(&wx, &uh)
	wx.AddVec(&wx, b)
	for i := 0; i < wx.Len(); i++ {
		wx.SetVec(i, act.Apply(wx.AtVec(i)))
	}
	return &wx
}

func randomMatrix(rng *rand.Rand, rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, uniform(rng, rows*cols))
}

func uniform(rng *rand.Rand, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return data
}
