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

	"github.com/courserec/courserec/dataset"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func newTestCatalog(t *testing.T) *dataset.Catalog {
	catalog, err := dataset.NewCatalog([]dataset.Course{
		{CourseId: "1", Subject: "Web Development", Level: "All Levels", NumSubscribers: 100, Price: 20},
		{CourseId: "2", Subject: "Web Development", Level: "All Levels", NumSubscribers: 300, Price: 0},
		{CourseId: "3", Subject: "Web Development", Level: "Beginner Level", NumSubscribers: 500, Price: 50},
		{CourseId: "4", Subject: "Web Development", Level: "All Levels", NumSubscribers: 300, Price: 30},
		{CourseId: "5", Subject: "Business Finance", Level: "All Levels", NumSubscribers: 1000, Price: 200},
		{CourseId: "6", Subject: "Business Finance", Level: "Expert Level", NumSubscribers: 50, Price: 0},
		{CourseId: "7", Subject: "Graphic Design", Level: "All Levels", NumSubscribers: 700, Price: 10},
	})
	assert.NoError(t, err)
	return catalog
}

func courseIds(courses []dataset.Course) []string {
	return lo.Map(courses, func(c dataset.Course, _ int) string { return c.CourseId })
}

func TestMetadataSimilar(t *testing.T) {
	catalog := newTestCatalog(t)
	// 2 and 4 tie on subscribers and are ordered by id
	assert.Equal(t, []string{"2", "4"}, courseIds(MetadataSimilar(catalog, "1", 2)))
	assert.Equal(t, []string{"2", "4"}, courseIds(MetadataSimilar(catalog, "1", 10)))
	assert.Equal(t, []string{"4", "1"}, courseIds(MetadataSimilar(catalog, "2", 10)))
	// same subject but different level is excluded
	assert.NotContains(t, courseIds(MetadataSimilar(catalog, "1", 10)), "3")
	// same level but different subject is excluded
	assert.NotContains(t, courseIds(MetadataSimilar(catalog, "1", 10)), "5")
	// nothing shares subject and level
	assert.Empty(t, MetadataSimilar(catalog, "3", 10))
	assert.Empty(t, MetadataSimilar(catalog, "404", 10))
	assert.Empty(t, MetadataSimilar(catalog, "1", 0))
}
