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

// Package floats holds the small float32 vector kernels used by the trainer and the ranker.
package floats

func panicIfLengthMismatch(a, b []float32) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
}

// Zero fills a vector with zeros.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}

// MatZero fills a matrix with zeros.
func MatZero(x [][]float32) {
	for i := range x {
		Zero(x[i])
	}
}

// Dot two vectors.
func Dot(a, b []float32) (ret float32) {
	panicIfLengthMismatch(a, b)
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// MulConstAdd accumulates a scaled vector: dst = dst + a * c
func MulConstAdd(a []float32, c float32, dst []float32) {
	panicIfLengthMismatch(a, dst)
	for i := range a {
		dst[i] += a[i] * c
	}
}
