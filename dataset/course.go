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
	"bufio"
	"cmp"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/courserec/courserec/base"
	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/common/util"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Course is a row of the catalog.
type Course struct {
	CourseId        string  `json:"course_id"`
	CourseTitle     string  `json:"course_title"`
	Subject         string  `json:"subject"`
	Level           string  `json:"level"`
	Price           float64 `json:"price"`
	NumSubscribers  int     `json:"num_subscribers"`
	NumReviews      int     `json:"num_reviews"`
	NumLectures     int     `json:"num_lectures"`
	ContentDuration float64 `json:"content_duration"`
	Description     string  `json:"description,omitempty"`
}

var requiredColumns = []string{
	"course_id",
	"course_title",
	"subject",
	"level",
	"price",
	"num_subscribers",
	"num_reviews",
	"num_lectures",
	"content_duration",
}

// ComparePopularity orders courses by subscribers descending, then by id ascending.
func ComparePopularity(a, b Course) int {
	if c := cmp.Compare(b.NumSubscribers, a.NumSubscribers); c != 0 {
		return c
	}
	return cmp.Compare(a.CourseId, b.CourseId)
}

// SortByPopularity sorts courses in place with ComparePopularity.
func SortByPopularity(courses []Course) {
	slices.SortStableFunc(courses, ComparePopularity)
}

// Catalog is the immutable course table.
type Catalog struct {
	courses   []Course
	index     map[string]int
	subjects  []string
	bySubject map[string][]int
}

// NewCatalog indexes courses. Course ids must be valid and unique.
func NewCatalog(courses []Course) (*Catalog, error) {
	catalog := &Catalog{
		courses:   courses,
		index:     make(map[string]int, len(courses)),
		bySubject: make(map[string][]int),
	}
	for i, course := range courses {
		if err := base.ValidateId(course.CourseId); err != nil {
			return nil, errors.Annotatef(err, "course %d", i)
		}
		if _, exist := catalog.index[course.CourseId]; exist {
			return nil, errors.NotValidf("duplicate course id %s", course.CourseId)
		}
		catalog.index[course.CourseId] = i
		if _, exist := catalog.bySubject[course.Subject]; !exist {
			catalog.subjects = append(catalog.subjects, course.Subject)
		}
		catalog.bySubject[course.Subject] = append(catalog.bySubject[course.Subject], i)
	}
	return catalog, nil
}

// LoadCatalog reads the catalog from a CSV file.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	catalog, err := ReadCatalog(file)
	if err != nil {
		return nil, errors.Annotatef(err, "load catalog %s", path)
	}
	log.Logger().Info("load course catalog",
		zap.String("path", path),
		zap.Int("n_courses", catalog.Len()),
		zap.Int("n_subjects", len(catalog.subjects)))
	return catalog, nil
}

// ReadCatalog parses CSV with a header row. Columns are matched by name, extra columns
// are ignored and description is optional.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var (
		columns  map[string]int
		nColumns int
		courses  []Course
	)
	err := base.ReadLines(sc, ',', func(i int, fields []string) error {
		if columns == nil {
			nColumns = len(fields)
			columns = make(map[string]int, len(fields))
			for j, name := range fields {
				columns[strings.TrimSpace(name)] = j
			}
			if missing := lo.Filter(requiredColumns, func(name string, _ int) bool {
				_, ok := columns[name]
				return !ok
			}); len(missing) > 0 {
				return errors.NotValidf("missing columns %v", missing)
			}
			return nil
		}
		if len(fields) != nColumns {
			return errors.NotValidf("record %d with %d fields (expect %d)", i, len(fields), nColumns)
		}
		course, err := parseCourse(columns, fields)
		if err != nil {
			return errors.Annotatef(err, "record %d", i)
		}
		courses = append(courses, course)
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if columns == nil {
		return nil, errors.NotValidf("empty catalog file")
	}
	return NewCatalog(courses)
}

func parseCourse(columns map[string]int, fields []string) (course Course, err error) {
	get := func(name string) string {
		if j, ok := columns[name]; ok {
			return strings.TrimSpace(fields[j])
		}
		return ""
	}
	course.CourseId = get("course_id")
	course.CourseTitle = get("course_title")
	course.Subject = get("subject")
	course.Level = get("level")
	course.Description = get("description")
	if price := get("price"); strings.EqualFold(price, "free") {
		course.Price = 0
	} else if course.Price, err = util.ParseFloat[float64](price); err != nil {
		return course, errors.Annotate(err, "price")
	}
	if course.NumSubscribers, err = util.ParseInt[int](get("num_subscribers")); err != nil {
		return course, errors.Annotate(err, "num_subscribers")
	}
	if course.NumReviews, err = util.ParseInt[int](get("num_reviews")); err != nil {
		return course, errors.Annotate(err, "num_reviews")
	}
	if course.NumLectures, err = util.ParseInt[int](get("num_lectures")); err != nil {
		return course, errors.Annotate(err, "num_lectures")
	}
	if course.ContentDuration, err = util.ParseFloat[float64](get("content_duration")); err != nil {
		return course, errors.Annotate(err, "content_duration")
	}
	return course, nil
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Get returns the course by id.
func (c *Catalog) Get(courseId string) (Course, bool) {
	if i, ok := c.index[courseId]; ok {
		return c.courses[i], true
	}
	return Course{}, false
}

// Contains reports whether the course exists.
func (c *Catalog) Contains(courseId string) bool {
	_, ok := c.index[courseId]
	return ok
}

// Courses returns a copy of all courses in file order.
func (c *Catalog) Courses() []Course {
	return slices.Clone(c.courses)
}

// Subjects returns the distinct subjects in first-appearance order.
func (c *Catalog) Subjects() []string {
	return slices.Clone(c.subjects)
}

// SortedSubjects returns the distinct subjects in alphabetical order.
func (c *Catalog) SortedSubjects() []string {
	subjects := c.Subjects()
	slices.Sort(subjects)
	return subjects
}

// BySubject returns the courses of a subject in file order.
func (c *Catalog) BySubject(subject string) []Course {
	return lo.Map(c.bySubject[subject], func(i int, _ int) Course {
		return c.courses[i]
	})
}

// Popular returns all courses sorted by popularity.
func (c *Catalog) Popular() []Course {
	courses := c.Courses()
	SortByPopularity(courses)
	return courses
}
