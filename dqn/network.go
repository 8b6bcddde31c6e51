package dqn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// network is a fully-connected Q-network with ReLU hidden layers and a
// linear output head. All math runs on gonum matrices.
type network struct {
	sizes   []int
	weights []*mat.Dense // layer l: [sizes[l+1] x sizes[l]]
	biases  []*mat.VecDense
}

func newNetwork(sizes []int, rng *rand.Rand) *network {
	n := &network{sizes: sizes}
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		// He initialization keeps ReLU activations from dying early.
		scale := math.Sqrt(2.0 / float64(in))
		data := make([]float64, in*out)
		for i := range data {
			data[i] = rng.NormFloat64() * scale
		}
		n.weights = append(n.weights, mat.NewDense(out, in, data))
		n.biases = append(n.biases, mat.NewVecDense(out, nil))
	}
	return n
}

// Forward computes the Q-values for a single observation.
func (n *network) Forward(obs []float64) []float64 {
	_, activations := n.forward(obs)
	out := activations[len(activations)-1]
	q := make([]float64, out.Len())
	for i := range q {
		q[i] = out.AtVec(i)
	}
	return q
}

// forward returns the pre-activations and activations of every layer; the
// first activation is the input itself.
func (n *network) forward(obs []float64) (zs, activations []*mat.VecDense) {
	a := mat.NewVecDense(len(obs), append([]float64(nil), obs...))
	activations = append(activations, a)
	for l := range n.weights {
		z := mat.NewVecDense(n.sizes[l+1], nil)
		z.MulVec(n.weights[l], a)
		z.AddVec(z, n.biases[l])
		zs = append(zs, z)
		if l == len(n.weights)-1 {
			activations = append(activations, z)
			break
		}
		a = mat.NewVecDense(z.Len(), nil)
		for i := 0; i < z.Len(); i++ {
			if v := z.AtVec(i); v > 0 {
				a.SetVec(i, v)
			}
		}
		activations = append(activations, a)
	}
	return zs, activations
}

// gradients accumulates parameter gradients over a batch.
type gradients struct {
	weights []*mat.Dense
	biases  []*mat.VecDense
}

func newGradients(n *network) *gradients {
	g := &gradients{}
	for l := range n.weights {
		g.weights = append(g.weights, mat.NewDense(n.sizes[l+1], n.sizes[l], nil))
		g.biases = append(g.biases, mat.NewVecDense(n.sizes[l+1], nil))
	}
	return g
}

// accumulate backpropagates the TD error of one transition. Only the output
// unit of the taken action carries loss.
func (n *network) accumulate(g *gradients, obs []float64, action int, tdErr float64) {
	zs, activations := n.forward(obs)
	last := len(n.weights) - 1

	delta := mat.NewVecDense(n.sizes[last+1], nil)
	delta.SetVec(action, tdErr)

	for l := last; l >= 0; l-- {
		var dW mat.Dense
		dW.Outer(1, delta, activations[l])
		g.weights[l].Add(g.weights[l], &dW)
		g.biases[l].AddVec(g.biases[l], delta)
		if l == 0 {
			break
		}
		prev := mat.NewVecDense(n.sizes[l], nil)
		prev.MulVec(n.weights[l].T(), delta)
		for i := 0; i < prev.Len(); i++ {
			if zs[l-1].AtVec(i) <= 0 {
				prev.SetVec(i, 0)
			}
		}
		delta = prev
	}
}

// apply performs one SGD step with the accumulated gradients, scaled by
// 1/batch and clipped to maxNorm.
func (n *network) apply(g *gradients, lr float64, batch int, maxNorm float64) {
	scale := 1.0 / float64(batch)
	var sq float64
	for l := range g.weights {
		sq += mat.Norm(g.weights[l], 2) * mat.Norm(g.weights[l], 2)
		sq += mat.Norm(g.biases[l], 2) * mat.Norm(g.biases[l], 2)
	}
	norm := math.Sqrt(sq) * scale
	if maxNorm > 0 && norm > maxNorm {
		scale *= maxNorm / norm
	}
	for l := range n.weights {
		var step mat.Dense
		step.Scale(lr*scale, g.weights[l])
		n.weights[l].Sub(n.weights[l], &step)
		var bstep mat.VecDense
		bstep.ScaleVec(lr*scale, g.biases[l])
		n.biases[l].SubVec(n.biases[l], &bstep)
	}
}

// copyFrom overwrites this network's parameters with src's. Used to sync
// the target network.
func (n *network) copyFrom(src *network) {
	for l := range n.weights {
		n.weights[l].Copy(src.weights[l])
		n.biases[l].CopyVec(src.biases[l])
	}
}

func (n *network) clone() *network {
	c := &network{sizes: append([]int(nil), n.sizes...)}
	for l := range n.weights {
		c.weights = append(c.weights, mat.DenseCopyOf(n.weights[l]))
		c.biases = append(c.biases, mat.VecDenseCopyOf(n.biases[l]))
	}
	return c
}

// netState is the serializable form of a network.
type netState struct {
	Sizes   []int
	Weights [][]float64
	Biases  [][]float64
}

func (n *network) state() netState {
	s := netState{Sizes: append([]int(nil), n.sizes...)}
	for l := range n.weights {
		s.Weights = append(s.Weights, append([]float64(nil), n.weights[l].RawMatrix().Data...))
		s.Biases = append(s.Biases, append([]float64(nil), n.biases[l].RawVector().Data...))
	}
	return s
}

func networkFromState(s netState) (*network, error) {
	if len(s.Sizes) < 2 || len(s.Weights) != len(s.Sizes)-1 || len(s.Biases) != len(s.Sizes)-1 {
		return nil, fmt.Errorf("malformed network state")
	}
	n := &network{sizes: append([]int(nil), s.Sizes...)}
	for l := 0; l < len(s.Sizes)-1; l++ {
		in, out := s.Sizes[l], s.Sizes[l+1]
		if len(s.Weights[l]) != in*out || len(s.Biases[l]) != out {
			return nil, fmt.Errorf("layer %d has wrong parameter count", l)
		}
		n.weights = append(n.weights, mat.NewDense(out, in, append([]float64(nil), s.Weights[l]...)))
		n.biases = append(n.biases, mat.NewVecDense(out, append([]float64(nil), s.Biases[l]...)))
	}
	return n, nil
}
