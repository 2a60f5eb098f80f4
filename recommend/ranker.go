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
	"github.com/courserec/courserec/common/floats"
	"github.com/courserec/courserec/common/heap"
)

// ScoredCourse is a course id with its score.
type ScoredCourse struct {
	CourseId string  `json:"course_id"`
	Score    float32 `json:"score"`
}

// Ranker ranks courses by dot product of embeddings.
type Ranker struct {
	users   *EmbeddingStore
	courses *EmbeddingStore
	ids     []string // course ids in ascending order
}

func NewRanker(users, courses *EmbeddingStore) *Ranker {
	return &Ranker{users: users, courses: courses, ids: courses.Ids()}
}

// HasUser reports whether the user has an embedding.
func (r *Ranker) HasUser(userId string) bool {
	_, ok := r.users.Get(userId)
	return ok
}

// HasCourse reports whether the course has an embedding.
func (r *Ranker) HasCourse(courseId string) bool {
	_, ok := r.courses.Get(courseId)
	return ok
}

func (r *Ranker) rank(query Vector, exclude string, k int) []ScoredCourse {
	filter := heap.NewTopKFilter[string, float32](k)
	for _, id := range r.ids {
		if id == exclude {
			continue
		}
		vector, _ := r.courses.Get(id)
		filter.Push(id, floats.Dot(query[:], vector[:]))
	}
	elems := filter.PopAll()
	scored := make([]ScoredCourse, len(elems))
	for i, elem := range elems {
		scored[i] = ScoredCourse{CourseId: elem.Value, Score: elem.Weight}
	}
	return scored
}

// RankForUser returns the top k courses for a user, sorted by score descending and
// then by id ascending. Unknown users get nothing.
func (r *Ranker) RankForUser(userId string, k int) []ScoredCourse {
	query, ok := r.users.Get(userId)
	if !ok || k <= 0 {
		return []ScoredCourse{}
	}
	return r.rank(query, "", k)
}

// RankSimilar returns the top k courses most similar to a course, excluding itself.
func (r *Ranker) RankSimilar(courseId string, k int) []ScoredCourse {
	query, ok := r.courses.Get(courseId)
	if !ok || k <= 0 {
		return []ScoredCourse{}
	}
	return r.rank(query, courseId, k)
}
