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

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/courserec/courserec/base/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

const (
	Lr          ParamName = "Lr"          // learning rate
	NEpochs     ParamName = "NEpochs"     // number of epochs
	BatchSize   ParamName = "BatchSize"   // mini-batch size
	NFactors    ParamName = "NFactors"    // embedding dimension
	NHidden     ParamName = "NHidden"     // width of the hidden layer
	InitRange   ParamName = "InitRange"   // range of uniform initial embeddings
	RandomState ParamName = "RandomState" // random seed
)

// Params stores hyper-parameters of a model, e.g.:
//
//	model.Params{
//		model.Lr:        0.001,
//		model.NEpochs:   5,
//		model.BatchSize: 256,
//	}
type Params map[ParamName]any

// Copy returns a shallow copy.
func (params Params) Copy() Params {
	return lo.Assign(params)
}

// Overwrite returns a copy of params with the values of other applied.
func (params Params) Overwrite(other Params) Params {
	return lo.Assign(params, other)
}

func typeMismatch(getter string, name ParamName, val any) {
	log.Logger().Error("type mismatch of hyper-parameter",
		zap.String("getter", getter),
		zap.String("name", string(name)),
		zap.Stringer("type", reflect.TypeOf(val)))
}

// GetInt returns an int parameter, or fallback if it is missing or not an int.
func (params Params) GetInt(name ParamName, fallback int) int {
	val, exist := params[name]
	if !exist {
		return fallback
	}
	if v, ok := val.(int); ok {
		return v
	}
	typeMismatch("GetInt", name, val)
	return fallback
}

// GetInt64 returns an int64 parameter. Plain ints are converted.
func (params Params) GetInt64(name ParamName, fallback int64) int64 {
	val, exist := params[name]
	if !exist {
		return fallback
	}
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	typeMismatch("GetInt64", name, val)
	return fallback
}

// GetFloat32 returns a float32 parameter. Other float and int types are converted.
func (params Params) GetFloat32(name ParamName, fallback float32) float32 {
	val, exist := params[name]
	if !exist {
		return fallback
	}
	switch v := val.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	}
	typeMismatch("GetFloat32", name, val)
	return fallback
}

// MarshalLogObject logs the parameters in name order.
func (params Params) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	names := lo.Keys(params)
	slices.Sort(names)
	for _, name := range names {
		enc.AddString(string(name), fmt.Sprint(params[name]))
	}
	return nil
}
