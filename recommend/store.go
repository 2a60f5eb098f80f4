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

package recommend

import (
	"slices"

	"github.com/courserec/courserec/base/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Dim is the dimension of embedding vectors.
const Dim = 32

// Vector is an embedding vector.
type Vector [Dim]float32

// EmbeddingStore maps ids to embedding vectors. It is filled once and read-only
// afterwards.
type EmbeddingStore struct {
	vectors map[string]Vector
}

func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{vectors: make(map[string]Vector)}
}

// Put stores the vector of id.
func (s *EmbeddingStore) Put(id string, vector Vector) {
	s.vectors[id] = vector
}

// Get returns the vector of id.
func (s *EmbeddingStore) Get(id string) (Vector, bool) {
	vector, ok := s.vectors[id]
	return vector, ok
}

// Len returns the number of vectors.
func (s *EmbeddingStore) Len() int {
	return len(s.vectors)
}

// Ids returns all ids in ascending order.
func (s *EmbeddingStore) Ids() []string {
	ids := lo.Keys(s.vectors)
	slices.Sort(ids)
	return ids
}

// ToVector converts a slice into a Vector.
func ToVector(values []float32) (Vector, error) {
	var vector Vector
	if len(values) != Dim {
		return vector, errors.NotValidf("embedding of dimension %d (expect %d)", len(values), Dim)
	}
	copy(vector[:], values)
	return vector, nil
}

// Embedder produces embeddings of users and courses.
type Embedder interface {
	UserEmbedding(userId string) ([]float32, bool)
	CourseEmbedding(courseId string) ([]float32, bool)
}

func extract(ids []string, embed func(string) ([]float32, bool)) (*EmbeddingStore, error) {
	store := NewEmbeddingStore()
	for _, id := range ids {
		values, ok := embed(id)
		if !ok {
			log.Logger().Debug("skip id without embedding", zap.String("id", id))
			continue
		}
		vector, err := ToVector(values)
		if err != nil {
			return nil, errors.Annotatef(err, "id %s", id)
		}
		store.Put(id, vector)
	}
	return store, nil
}

// ExtractUsers evaluates the user tower on every id.
func ExtractUsers(embedder Embedder, ids []string) (*EmbeddingStore, error) {
	return extract(ids, embedder.UserEmbedding)
}

// ExtractCourses evaluates the course tower on every id. Courses unknown to the model
// are skipped.
func ExtractCourses(embedder Embedder, ids []string) (*EmbeddingStore, error) {
	return extract(ids, embedder.CourseEmbedding)
}
