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
	"reflect"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/common/heap"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// LeaderBoard ranks courses by a score expression, optionally restricted by a filter
// expression. Both expressions see the course as `course`.
type LeaderBoard struct {
	scoreFunc  *vm.Program
	filterFunc *vm.Program
}

func NewLeaderBoard(cfg config.PopularConfig) (*LeaderBoard, error) {
	env := expr.Env(map[string]any{"course": dataset.Course{}})
	// Compile score expression
	scoreFunc, err := expr.Compile(cfg.Score, env)
	if err != nil {
		return nil, errors.Annotatef(err, "compile score %q", cfg.Score)
	}
	switch scoreFunc.Node().Type().Kind() {
	case reflect.Float64, reflect.Float32, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return nil, errors.NotValidf("score %q (must return a number)", cfg.Score)
	}
	// Compile filter expression
	var filterFunc *vm.Program
	if cfg.Filter != "" {
		filterFunc, err = expr.Compile(cfg.Filter, env, expr.AsBool())
		if err != nil {
			return nil, errors.Annotatef(err, "compile filter %q", cfg.Filter)
		}
	}
	return &LeaderBoard{
		scoreFunc:  scoreFunc,
		filterFunc: filterFunc,
	}, nil
}

// Score evaluates a course. The second result is false if the course is filtered out
// or the score expression fails.
func (l *LeaderBoard) Score(course dataset.Course) (float64, bool) {
	env := map[string]any{"course": course}
	// Evaluate filter function
	if l.filterFunc != nil {
		result, err := expr.Run(l.filterFunc, env)
		if err != nil {
			log.Logger().Error("evaluate filter function", zap.String("course_id", course.CourseId), zap.Error(err))
			return 0, false
		}
		if !result.(bool) {
			return 0, false
		}
	}
	// Evaluate score function
	result, err := expr.Run(l.scoreFunc, env)
	if err != nil {
		log.Logger().Error("evaluate score function", zap.String("course_id", course.CourseId), zap.Error(err))
		return 0, false
	}
	switch score := result.(type) {
	case int:
		return float64(score), true
	case int64:
		return float64(score), true
	case float32:
		return float64(score), true
	case float64:
		return score, true
	default:
		log.Logger().Error("score function returns non-numeric value",
			zap.String("course_id", course.CourseId), zap.Any("result", result))
		return 0, false
	}
}

// Rank orders courses by score descending, then by id ascending.
func (l *LeaderBoard) Rank(courses []dataset.Course) []dataset.Course {
	index := make(map[string]dataset.Course, len(courses))
	filter := heap.NewTopKFilter[string, float64](len(courses))
	for _, course := range courses {
		if score, ok := l.Score(course); ok {
			filter.Push(course.CourseId, score)
			index[course.CourseId] = course
		}
	}
	elems := filter.PopAll()
	ranked := make([]dataset.Course, len(elems))
	for i, elem := range elems {
		ranked[i] = index[elem.Value]
	}
	return ranked
}
