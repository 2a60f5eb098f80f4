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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func vec(values ...float32) Vector {
	var v Vector
	copy(v[:], values)
	return v
}

type mockEmbedder struct {
	users   map[string][]float32
	courses map[string][]float32
}

func (m *mockEmbedder) UserEmbedding(userId string) ([]float32, bool) {
	v, ok := m.users[userId]
	return v, ok
}

func (m *mockEmbedder) CourseEmbedding(courseId string) ([]float32, bool) {
	v, ok := m.courses[courseId]
	return v, ok
}

func TestEmbeddingStore(t *testing.T) {
	store := NewEmbeddingStore()
	_, ok := store.Get("1")
	assert.False(t, ok)
	store.Put("2", vec(1))
	store.Put("1", vec(0, 1))
	v, ok := store.Get("1")
	assert.True(t, ok)
	assert.Equal(t, vec(0, 1), v)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"1", "2"}, store.Ids())
}

func TestToVector(t *testing.T) {
	values := make([]float32, Dim)
	values[3] = 1
	v, err := ToVector(values)
	assert.NoError(t, err)
	assert.Equal(t, float32(1), v[3])
	values[3] = 2
	assert.Equal(t, float32(1), v[3])
	_, err = ToVector([]float32{1, 2})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestExtract(t *testing.T) {
	embedder := &mockEmbedder{
		users:   map[string][]float32{"user_0": make([]float32, Dim)},
		courses: map[string][]float32{"1": make([]float32, Dim), "bad": {1}},
	}
	users, err := ExtractUsers(embedder, []string{"user_0", "user_1"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"user_0"}, users.Ids())
	courses, err := ExtractCourses(embedder, []string{"1", "2"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"1"}, courses.Ids())
	_, err = ExtractCourses(embedder, []string{"bad"})
	assert.Error(t, err)
}
