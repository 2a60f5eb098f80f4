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
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/samber/lo"
)

// Recommender answers recommendation queries.
type Recommender interface {
	// Name returns the model name.
	Name() string
	// Recommend returns up to n courses for a user.
	Recommend(userId string, n int) []dataset.Course
	// Similar returns up to n courses similar to a course.
	Similar(courseId string, n int) []dataset.Course
}

// TwoTowerRecommender serves the embeddings of a two-tower model.
type TwoTowerRecommender struct {
	catalog *dataset.Catalog
	ranker  *Ranker
}

func NewTwoTowerRecommender(catalog *dataset.Catalog, ranker *Ranker) *TwoTowerRecommender {
	return &TwoTowerRecommender{catalog: catalog, ranker: ranker}
}

func (r *TwoTowerRecommender) Name() string {
	return config.ModelTwoTower
}

func (r *TwoTowerRecommender) join(scored []ScoredCourse) []dataset.Course {
	return lo.FilterMap(scored, func(s ScoredCourse, _ int) (dataset.Course, bool) {
		return r.catalog.Get(s.CourseId)
	})
}

// Recommend joins the ranked ids back to the catalog in ranked order.
func (r *TwoTowerRecommender) Recommend(userId string, n int) []dataset.Course {
	return r.join(r.ranker.RankForUser(userId, n))
}

// Similar falls back to metadata for courses without an embedding.
func (r *TwoTowerRecommender) Similar(courseId string, n int) []dataset.Course {
	if !r.ranker.HasCourse(courseId) {
		return MetadataSimilar(r.catalog, courseId, n)
	}
	return r.join(r.ranker.RankSimilar(courseId, n))
}

// PopularRecommender serves the popularity heuristic.
type PopularRecommender struct {
	catalog *dataset.Catalog
	popular *Popular
}

func NewPopularRecommender(catalog *dataset.Catalog, popular *Popular) *PopularRecommender {
	return &PopularRecommender{catalog: catalog, popular: popular}
}

func (r *PopularRecommender) Name() string {
	return config.ModelPopular
}

func (r *PopularRecommender) Recommend(userId string, n int) []dataset.Course {
	return r.popular.Recommend(userId, n)
}

func (r *PopularRecommender) Similar(courseId string, n int) []dataset.Course {
	return MetadataSimilar(r.catalog, courseId, n)
}
