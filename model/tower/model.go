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

// Package tower implements a two-tower rating model. A user tower and a course tower
// map ids to embeddings; the concatenated embeddings feed a small regression head
// that predicts the rating.
package tower

import (
	"context"
	"time"

	"github.com/chewxy/math32"
	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/common/floats"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/model"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	DefaultNFactors  = 32
	DefaultNHidden   = 8
	DefaultNEpochs   = 5
	DefaultBatchSize = 256
	DefaultLr        = 0.001
	DefaultInitRange = 0.05
)

// Score is the training result.
type Score struct {
	Loss float32 // mean squared error of the last epoch
}

type FitConfig struct {
	Verbose int                           // log the loss every Verbose epochs, 0 disables
	OnEpoch func(epoch int, loss float32) // called after every epoch
}

func NewFitConfig() *FitConfig {
	return &FitConfig{Verbose: 1}
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetOnEpoch(fn func(epoch int, loss float32)) *FitConfig {
	config.OnEpoch = fn
	return config
}

var _ model.Model = (*TwoTower)(nil)

// TwoTower is the two-tower rating model.
type TwoTower struct {
	model.BaseModel
	// hyper-parameters
	nFactors  int
	nHidden   int
	nEpochs   int
	batchSize int
	lr        float32
	initRange float32
	// indices
	userIndex   *dataset.FreqDict
	courseIndex *dataset.FreqDict
	// towers
	UserFactor   [][]float32 // nUsers * nFactors
	CourseFactor [][]float32 // nCourses * nFactors
	// head: Dense(nHidden, relu) -> Dense(1)
	W1 [][]float32 // nHidden * (2 * nFactors)
	B1 []float32   // nHidden
	W2 []float32   // nHidden
	B2 float32
}

func NewTwoTower(params model.Params) *TwoTower {
	m := new(TwoTower)
	m.SetParams(params)
	return m
}

func (m *TwoTower) SetParams(params model.Params) {
	m.BaseModel.SetParams(params)
	m.nFactors = m.Params.GetInt(model.NFactors, DefaultNFactors)
	m.nHidden = m.Params.GetInt(model.NHidden, DefaultNHidden)
	m.nEpochs = m.Params.GetInt(model.NEpochs, DefaultNEpochs)
	m.batchSize = m.Params.GetInt(model.BatchSize, DefaultBatchSize)
	m.lr = m.Params.GetFloat32(model.Lr, DefaultLr)
	m.initRange = m.Params.GetFloat32(model.InitRange, DefaultInitRange)
}

// Clear removes the trained weights.
func (m *TwoTower) Clear() {
	m.userIndex = nil
	m.courseIndex = nil
	m.UserFactor = nil
	m.CourseFactor = nil
	m.W1, m.B1, m.W2, m.B2 = nil, nil, nil, 0
}

// Invalid reports whether the model has not been trained.
func (m *TwoTower) Invalid() bool {
	return m.userIndex == nil || m.courseIndex == nil
}

// NFactors returns the embedding dimension.
func (m *TwoTower) NFactors() int {
	return m.nFactors
}

func (m *TwoTower) init(interactions *dataset.Interactions) {
	m.ResetRandomGenerator()
	rng := m.GetRandomGenerator()
	m.userIndex = interactions.UserIndex()
	m.courseIndex = interactions.CourseIndex()
	m.UserFactor = rng.UniformMatrix(m.userIndex.Count(), m.nFactors, -m.initRange, m.initRange)
	m.CourseFactor = rng.UniformMatrix(m.courseIndex.Count(), m.nFactors, -m.initRange, m.initRange)
	// glorot uniform kernels, zero biases
	limit1 := math32.Sqrt(6 / float32(2*m.nFactors+m.nHidden))
	m.W1 = rng.UniformMatrix(m.nHidden, 2*m.nFactors, -limit1, limit1)
	m.B1 = make([]float32, m.nHidden)
	limit2 := math32.Sqrt(6 / float32(m.nHidden+1))
	m.W2 = rng.UniformVector(m.nHidden, -limit2, limit2)
	m.B2 = 0
}

// forward evaluates the head. hidden receives the activations of the hidden layer.
func (m *TwoTower) forward(userFactor, courseFactor, hidden []float32) float32 {
	y := m.B2
	for j := 0; j < m.nHidden; j++ {
		w := m.W1[j]
		z := m.B1[j] + floats.Dot(w[:m.nFactors], userFactor) + floats.Dot(w[m.nFactors:], courseFactor)
		hidden[j] = max(z, 0)
		y += m.W2[j] * hidden[j]
	}
	return y
}

// Fit trains the model by mini-batch Adam on the mean squared error of ratings.
// Batches are reshuffled every epoch.
func (m *TwoTower) Fit(ctx context.Context, interactions *dataset.Interactions, config *FitConfig) (Score, error) {
	if config == nil {
		config = NewFitConfig()
	}
	log.Logger().Info("fit two-tower model",
		zap.Int("n_users", interactions.CountUsers()),
		zap.Int("n_courses", interactions.CountCourses()),
		zap.Int("n_interactions", interactions.Len()),
		zap.Object("params", m.GetParams()))
	m.init(interactions)
	users, courses, ratings := interactions.Triples()
	if len(ratings) == 0 {
		return Score{}, nil
	}

	opt := NewAdam(m.lr)
	userTable := newEmbeddingTable(m.UserFactor)
	courseTable := newEmbeddingTable(m.CourseFactor)
	w1States := make([]adamState, m.nHidden)
	gradW1 := make([][]float32, m.nHidden)
	for j := range gradW1 {
		gradW1[j] = make([]float32, 2*m.nFactors)
		w1States[j] = newAdamState(2 * m.nFactors)
	}
	gradB1 := make([]float32, m.nHidden)
	gradW2 := make([]float32, m.nHidden)
	gradB2 := make([]float32, 1)
	b1State, w2State, b2State := newAdamState(m.nHidden), newAdamState(m.nHidden), newAdamState(1)
	hidden := make([]float32, m.nHidden)
	gradHidden := make([]float32, m.nHidden)
	rng := m.GetRandomGenerator()

	var score Score
	for epoch := 1; epoch <= m.nEpochs; epoch++ {
		start := time.Now()
		perm := rng.Permutation(len(ratings))
		var sumLoss float32
		for begin := 0; begin < len(perm); begin += m.batchSize {
			if err := ctx.Err(); err != nil {
				return score, errors.Trace(err)
			}
			end := min(begin+m.batchSize, len(perm))
			scale := 2 / float32(end-begin)
			for _, i := range perm[begin:end] {
				u, c := users[i], courses[i]
				userFactor, courseFactor := m.UserFactor[u], m.CourseFactor[c]
				diff := m.forward(userFactor, courseFactor, hidden) - ratings[i]
				sumLoss += diff * diff
				dy := scale * diff
				// output layer
				gradB2[0] += dy
				floats.MulConstAdd(hidden, dy, gradW2)
				// hidden layer
				for j := 0; j < m.nHidden; j++ {
					if hidden[j] > 0 {
						gradHidden[j] = dy * m.W2[j]
					} else {
						gradHidden[j] = 0
					}
				}
				gradUser, gradCourse := userTable.Grad(u), courseTable.Grad(c)
				for j := 0; j < m.nHidden; j++ {
					g := gradHidden[j]
					if g == 0 {
						continue
					}
					gradB1[j] += g
					floats.MulConstAdd(userFactor, g, gradW1[j][:m.nFactors])
					floats.MulConstAdd(courseFactor, g, gradW1[j][m.nFactors:])
					floats.MulConstAdd(m.W1[j][:m.nFactors], g, gradUser)
					floats.MulConstAdd(m.W1[j][m.nFactors:], g, gradCourse)
				}
			}
			// apply gradients
			opt.Step()
			for j := range m.W1 {
				opt.Update(m.W1[j], gradW1[j], w1States[j])
			}
			opt.Update(m.B1, gradB1, b1State)
			opt.Update(m.W2, gradW2, w2State)
			b2 := []float32{m.B2}
			opt.Update(b2, gradB2, b2State)
			m.B2 = b2[0]
			userTable.Apply(opt)
			courseTable.Apply(opt)
			floats.MatZero(gradW1)
			floats.Zero(gradB1)
			floats.Zero(gradW2)
			floats.Zero(gradB2)
		}
		score.Loss = sumLoss / float32(len(ratings))
		if config.Verbose > 0 && epoch%config.Verbose == 0 {
			log.Logger().Debug("fit two-tower model",
				zap.Int("epoch", epoch),
				zap.Int("n_epochs", m.nEpochs),
				zap.Float32("loss", score.Loss),
				log.Since(start))
		}
		if config.OnEpoch != nil {
			config.OnEpoch(epoch, score.Loss)
		}
	}
	log.Logger().Info("fit two-tower model complete",
		zap.Int("n_epochs", m.nEpochs),
		zap.Float32("loss", score.Loss))
	return score, nil
}

// UserEmbedding returns a copy of the user tower output. It is absent for users not
// seen in training.
func (m *TwoTower) UserEmbedding(userId string) ([]float32, bool) {
	if m.Invalid() {
		return nil, false
	}
	u, ok := m.userIndex.Lookup(userId)
	if !ok {
		return nil, false
	}
	return append([]float32(nil), m.UserFactor[u]...), true
}

// CourseEmbedding returns a copy of the course tower output. It is absent for courses
// not seen in training.
func (m *TwoTower) CourseEmbedding(courseId string) ([]float32, bool) {
	if m.Invalid() {
		return nil, false
	}
	c, ok := m.courseIndex.Lookup(courseId)
	if !ok {
		return nil, false
	}
	return append([]float32(nil), m.CourseFactor[c]...), true
}

// Predict returns the predicted rating. Unknown ids predict zero.
func (m *TwoTower) Predict(userId, courseId string) float32 {
	if m.Invalid() {
		log.Logger().Warn("two-tower model not trained")
		return 0
	}
	u, ok := m.userIndex.Lookup(userId)
	if !ok {
		log.Logger().Debug("unknown user", zap.String("user_id", userId))
		return 0
	}
	c, ok := m.courseIndex.Lookup(courseId)
	if !ok {
		log.Logger().Debug("unknown course", zap.String("course_id", courseId))
		return 0
	}
	return m.forward(m.UserFactor[u], m.CourseFactor[c], make([]float32, m.nHidden))
}
