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
	"github.com/samber/lo"
)

// MetadataSimilar returns up to k courses sharing both subject and level with the
// query course, most subscribed first. Unknown courses get nothing.
func MetadataSimilar(catalog *dataset.Catalog, courseId string, k int) []dataset.Course {
	query, ok := catalog.Get(courseId)
	if !ok || k <= 0 {
		return []dataset.Course{}
	}
	similar := lo.Filter(catalog.BySubject(query.Subject), func(course dataset.Course, _ int) bool {
		return course.Level == query.Level && course.CourseId != query.CourseId
	})
	dataset.SortByPopularity(similar)
	if len(similar) > k {
		similar = similar[:k]
	}
	return similar
}
