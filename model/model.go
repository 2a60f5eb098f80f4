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

package model

import "github.com/courserec/courserec/base"

// Model is implemented by every trainable model.
type Model interface {
	SetParams(params Params)
	GetParams() Params
	// Clear drops the trained weights.
	Clear()
}

// BaseModel keeps the hyper-parameters and a random generator seeded from
// RandomState, so that training is reproducible.
type BaseModel struct {
	Params Params
	seed   int64
	rng    base.RandomGenerator
}

func (model *BaseModel) SetParams(params Params) {
	model.Params = params
	model.seed = params.GetInt64(RandomState, 0)
	model.ResetRandomGenerator()
}

func (model *BaseModel) GetParams() Params {
	return model.Params
}

func (model *BaseModel) GetRandomGenerator() base.RandomGenerator {
	return model.rng
}

// ResetRandomGenerator restarts the random generator from the seed.
func (model *BaseModel) ResetRandomGenerator() {
	model.rng = base.NewRandomGenerator(model.seed)
}
