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
	"github.com/courserec/courserec/dataset"
)

// Popular recommends popular courses, preferring the subjects a user has
// interacted with.
type Popular struct {
	ranked       []dataset.Course
	interactions *dataset.Interactions
}

// NewPopular ranks the catalog once with the leaderboard.
func NewPopular(catalog *dataset.Catalog, interactions *dataset.Interactions, board *LeaderBoard) *Popular {
	return &Popular{
		ranked:       board.Rank(catalog.Courses()),
		interactions: interactions,
	}
}

// Top returns the k most popular courses.
func (p *Popular) Top(k int) []dataset.Course {
	if k <= 0 {
		return []dataset.Course{}
	}
	return append([]dataset.Course(nil), p.ranked[:min(k, len(p.ranked))]...)
}

// Recommend returns k courses for a user. Users without interactions get the most
// popular courses. Otherwise courses in the user's subjects come first and the
// remaining courses fill up to k, both in popularity order.
func (p *Popular) Recommend(userId string, k int) []dataset.Course {
	if k <= 0 {
		return []dataset.Course{}
	}
	subjects := p.interactions.UserSubjects(userId)
	if subjects.Cardinality() == 0 {
		return p.Top(k)
	}
	recommended := make([]dataset.Course, 0, min(k, len(p.ranked)))
	for _, course := range p.ranked {
		if len(recommended) == k {
			return recommended
		}
		if subjects.Contains(course.Subject) {
			recommended = append(recommended, course)
		}
	}
	for _, course := range p.ranked {
		if len(recommended) == k {
			break
		}
		if !subjects.Contains(course.Subject) {
			recommended = append(recommended, course)
		}
	}
	return recommended
}
