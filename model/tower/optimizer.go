// Copyright 2026 courserec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tower

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"github.com/courserec/courserec/common/floats"
)

// adamState holds the moment estimates of one weight vector.
type adamState struct {
	m []float32
	v []float32
}

func newAdamState(n int) adamState {
	return adamState{m: make([]float32, n), v: make([]float32, n)}
}

// Adam implements the Adam optimizer over weight vectors addressed by the caller.
type Adam struct {
	alpha float32
	beta1 float32
	beta2 float32
	eps   float32
	t     float32
	lr    float32 // bias-corrected step size of the current step
}

func NewAdam(alpha float32) *Adam {
	return &Adam{
		alpha: alpha,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-7,
	}
}

// Step starts a new optimization step.
func (a *Adam) Step() {
	a.t++
	fix1 := 1 - math32.Pow(a.beta1, a.t)
	fix2 := 1 - math32.Pow(a.beta2, a.t)
	a.lr = a.alpha * math32.Sqrt(fix2) / fix1
}

// Update applies the current step to a weight vector.
func (a *Adam) Update(param, grad []float32, state adamState) {
	m, v := state.m, state.v
	for i := range param {
		g := grad[i]
		// m += (1 - beta1) * (grad - m)
		m[i] += (1 - a.beta1) * (g - m[i])
		// v += (1 - beta2) * (grad * grad - v)
		v[i] += (1 - a.beta2) * (g*g - v[i])
		param[i] -= a.lr * m[i] / (math32.Sqrt(v[i]) + a.eps)
	}
}

// embeddingTable is a lookup table trained with Adam. Rows that never received a
// gradient keep zero moments, so the optimizer skips them.
type embeddingTable struct {
	weights [][]float32
	grads   [][]float32
	states  []adamState
	touched *bitset.BitSet // rows with a gradient in the current batch
	trained *bitset.BitSet // rows with non-zero moments
}

func newEmbeddingTable(weights [][]float32) *embeddingTable {
	n := len(weights)
	table := &embeddingTable{
		weights: weights,
		grads:   make([][]float32, n),
		states:  make([]adamState, n),
		touched: bitset.New(uint(n)),
		trained: bitset.New(uint(n)),
	}
	for i := range weights {
		table.grads[i] = make([]float32, len(weights[i]))
		table.states[i] = newAdamState(len(weights[i]))
	}
	return table
}

// Grad returns the gradient row of index i and marks it as touched.
func (t *embeddingTable) Grad(i int32) []float32 {
	t.touched.Set(uint(i))
	return t.grads[i]
}

// Apply updates every trained row and clears the batch gradients.
func (t *embeddingTable) Apply(opt *Adam) {
	t.trained.InPlaceUnion(t.touched)
	for i, ok := t.trained.NextSet(0); ok; i, ok = t.trained.NextSet(i + 1) {
		opt.Update(t.weights[i], t.grads[i], t.states[i])
	}
	for i, ok := t.touched.NextSet(0); ok; i, ok = t.touched.NextSet(i + 1) {
		floats.Zero(t.grads[i])
	}
	t.touched.ClearAll()
}
