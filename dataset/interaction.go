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
	"fmt"
	"time"

	"github.com/courserec/courserec/base"
	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/config"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// Interaction is a synthetic rating of a course by a user.
type Interaction struct {
	UserId   string
	CourseId string
	Rating   float32
	Subject  string
	Level    string
}

// Interactions is an indexed list of interactions. Users and courses are indexed
// densely in first-appearance order.
type Interactions struct {
	records      []Interaction
	userDict     *FreqDict
	courseDict   *FreqDict
	userRecords  map[string][]int
	userSubjects map[string]mapset.Set[string]
}

// NewInteractions indexes a list of interactions.
func NewInteractions(records []Interaction) *Interactions {
	interactions := &Interactions{
		records:      records,
		userDict:     NewFreqDict(),
		courseDict:   NewFreqDict(),
		userRecords:  make(map[string][]int),
		userSubjects: make(map[string]mapset.Set[string]),
	}
	for i, record := range records {
		interactions.userDict.Id(record.UserId)
		interactions.courseDict.Id(record.CourseId)
		interactions.userRecords[record.UserId] = append(interactions.userRecords[record.UserId], i)
		subjects, exist := interactions.userSubjects[record.UserId]
		if !exist {
			subjects = mapset.NewThreadUnsafeSet[string]()
			interactions.userSubjects[record.UserId] = subjects
		}
		subjects.Add(record.Subject)
	}
	return interactions
}

// UserId formats the id of the i-th synthetic user.
func UserId(i int) string {
	return fmt.Sprintf("user_%d", i)
}

// Synthesize samples interactions for cfg.NumUsers users. For each user in id order the
// sampler draws a subject count, the subjects, then for each subject a sample of its
// courses followed by one rating per course. The output depends only on the catalog and
// the random state.
func Synthesize(catalog *Catalog, cfg config.SamplerConfig) *Interactions {
	start := time.Now()
	rng := base.NewRandomGenerator(cfg.RandomState)
	subjects := catalog.Subjects()
	var records []Interaction
	if len(subjects) > 0 {
		maxSubjects := min(cfg.MaxSubjects, len(subjects))
		for i := 0; i < cfg.NumUsers; i++ {
			userId := UserId(i)
			k := rng.IntRange(1, maxSubjects)
			for _, s := range rng.Choice(len(subjects), k) {
				pool := catalog.BySubject(subjects[s])
				for _, c := range rng.Choice(len(pool), cfg.CoursesPerSubject) {
					course := pool[c]
					records = append(records, Interaction{
						UserId:   userId,
						CourseId: course.CourseId,
						Rating:   float32(rng.Uniform(cfg.MinRating, cfg.MaxRating)),
						Subject:  course.Subject,
						Level:    course.Level,
					})
				}
			}
		}
	}
	interactions := NewInteractions(records)
	log.Logger().Info("synthesize interactions",
		zap.Int("n_interactions", interactions.Len()),
		zap.Int("n_users", interactions.CountUsers()),
		zap.Int("n_courses", interactions.CountCourses()),
		log.Since(start))
	return interactions
}

// Len returns the number of interactions.
func (d *Interactions) Len() int {
	return len(d.records)
}

// Records returns all interactions in sampling order.
func (d *Interactions) Records() []Interaction {
	return d.records
}

func (d *Interactions) CountUsers() int {
	return d.userDict.Count()
}

func (d *Interactions) CountCourses() int {
	return d.courseDict.Count()
}

// Users returns the distinct user ids in first-appearance order.
func (d *Interactions) Users() []string {
	return d.userDict.Strings()
}

// Courses returns the distinct course ids in first-appearance order.
func (d *Interactions) Courses() []string {
	return d.courseDict.Strings()
}

// UserIndex returns the dense index of users.
func (d *Interactions) UserIndex() *FreqDict {
	return d.userDict
}

// CourseIndex returns the dense index of courses.
func (d *Interactions) CourseIndex() *FreqDict {
	return d.courseDict
}

// HasUser reports whether the user has any interaction.
func (d *Interactions) HasUser(userId string) bool {
	_, ok := d.userRecords[userId]
	return ok
}

// ByUser returns the interactions of a user.
func (d *Interactions) ByUser(userId string) []Interaction {
	indices := d.userRecords[userId]
	records := make([]Interaction, len(indices))
	for i, j := range indices {
		records[i] = d.records[j]
	}
	return records
}

// UserSubjects returns the subjects a user has interacted with. The set is empty for
// unknown users.
func (d *Interactions) UserSubjects(userId string) mapset.Set[string] {
	if subjects, ok := d.userSubjects[userId]; ok {
		return subjects.Clone()
	}
	return mapset.NewThreadUnsafeSet[string]()
}

// Triples returns parallel arrays of user indices, course indices and ratings.
func (d *Interactions) Triples() (users, courses []int32, ratings []float32) {
	users = make([]int32, len(d.records))
	courses = make([]int32, len(d.records))
	ratings = make([]float32, len(d.records))
	for i, record := range d.records {
		u, _ := d.userDict.Lookup(record.UserId)
		c, _ := d.courseDict.Lookup(record.CourseId)
		users[i], courses[i], ratings[i] = int32(u), int32(c), record.Rating
	}
	return
}
