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

package dataset

import (
	"path/filepath"
	"testing"

	"github.com/courserec/courserec/config"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SynthesizeTestSuite struct {
	suite.Suite
	catalog      *Catalog
	config       config.SamplerConfig
	interactions *Interactions
}

func (suite *SynthesizeTestSuite) SetupSuite() {
	var err error
	suite.catalog, err = LoadCatalog(filepath.Join("testdata", "courses.csv"))
	suite.NoError(err)
	suite.config = config.GetDefaultConfig().Sampler
	suite.config.NumUsers = 200
	suite.interactions = Synthesize(suite.catalog, suite.config)
}

func (suite *SynthesizeTestSuite) TestUsers() {
	users := suite.interactions.Users()
	suite.Len(users, 200)
	for i, userId := range users {
		suite.Equal(UserId(i), userId)
	}
	suite.True(suite.interactions.HasUser("user_199"))
	suite.False(suite.interactions.HasUser("user_200"))
}

func (suite *SynthesizeTestSuite) TestRecords() {
	for _, userId := range suite.interactions.Users() {
		records := suite.interactions.ByUser(userId)
		subjects := suite.interactions.UserSubjects(userId)
		suite.GreaterOrEqual(subjects.Cardinality(), 1)
		suite.LessOrEqual(subjects.Cardinality(), 2)
		for _, subject := range subjects.ToSlice() {
			n := lo.CountBy(records, func(r Interaction) bool { return r.Subject == subject })
			suite.Equal(min(3, len(suite.catalog.BySubject(subject))), n)
		}
		// courses are sampled without replacement
		ids := lo.Map(records, func(r Interaction, _ int) string { return r.CourseId })
		suite.Equal(len(ids), len(lo.Uniq(ids)))
		for _, record := range records {
			suite.GreaterOrEqual(record.Rating, float32(3))
			suite.LessOrEqual(record.Rating, float32(5))
			course, ok := suite.catalog.Get(record.CourseId)
			suite.True(ok)
			suite.Equal(course.Subject, record.Subject)
			suite.Equal(course.Level, record.Level)
		}
	}
}

func (suite *SynthesizeTestSuite) TestDeterministic() {
	again := Synthesize(suite.catalog, suite.config)
	suite.Equal(suite.interactions.Records(), again.Records())

	cfg := suite.config
	cfg.RandomState = 7
	other := Synthesize(suite.catalog, cfg)
	suite.NotEqual(suite.interactions.Records(), other.Records())
}

func (suite *SynthesizeTestSuite) TestTriples() {
	users, courses, ratings := suite.interactions.Triples()
	suite.Len(users, suite.interactions.Len())
	for i, record := range suite.interactions.Records() {
		userId, _ := suite.interactions.UserIndex().String(int(users[i]))
		courseId, _ := suite.interactions.CourseIndex().String(int(courses[i]))
		suite.Equal(record.UserId, userId)
		suite.Equal(record.CourseId, courseId)
		suite.Equal(record.Rating, ratings[i])
	}
}

func TestSynthesize(t *testing.T) {
	suite.Run(t, new(SynthesizeTestSuite))
}

func TestSynthesizeEmptyCatalog(t *testing.T) {
	catalog, err := NewCatalog(nil)
	assert.NoError(t, err)
	interactions := Synthesize(catalog, config.GetDefaultConfig().Sampler)
	assert.Zero(t, interactions.Len())
	assert.Empty(t, interactions.Users())
}

func TestSynthesizeSingleSubject(t *testing.T) {
	catalog, err := NewCatalog([]Course{
		{CourseId: "1", Subject: "Go"},
		{CourseId: "2", Subject: "Go"},
	})
	assert.NoError(t, err)
	interactions := Synthesize(catalog, config.GetDefaultConfig().Sampler)
	assert.Equal(t, 2000, interactions.Len())
	assert.ElementsMatch(t, []string{"1", "2"}, lo.Uniq(lo.Map(interactions.ByUser("user_0"), func(r Interaction, _ int) string {
		return r.CourseId
	})))
	assert.ElementsMatch(t, []string{"1", "2"}, interactions.Courses())
}

func TestUserSubjects(t *testing.T) {
	interactions := NewInteractions([]Interaction{
		{UserId: "a", CourseId: "1", Subject: "Go"},
		{UserId: "a", CourseId: "2", Subject: "Rust"},
		{UserId: "b", CourseId: "1", Subject: "Go"},
	})
	assert.ElementsMatch(t, []string{"Go", "Rust"}, interactions.UserSubjects("a").ToSlice())
	assert.Zero(t, interactions.UserSubjects("c").Cardinality())
	// returned sets are copies
	interactions.UserSubjects("b").Add("Rust")
	assert.Equal(t, 1, interactions.UserSubjects("b").Cardinality())
	assert.Equal(t, []string{"a", "b"}, interactions.Users())
	assert.Equal(t, []string{"1", "2"}, interactions.Courses())
	assert.Equal(t, 2, interactions.CourseIndex().Freq(0))
}
