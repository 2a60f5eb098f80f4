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
	"context"
	"math/rand"
	"time"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/model/tower"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Service holds everything built at startup. It is never modified afterwards, so
// it is safe for concurrent use.
type Service struct {
	Config       *config.Config
	Catalog      *dataset.Catalog
	Interactions *dataset.Interactions
	Recommender  Recommender
	users        []string
	userSet      mapset.Set[string]
}

// NewService synthesizes interactions and builds the configured recommender.
func NewService(ctx context.Context, cfg *config.Config, catalog *dataset.Catalog, fitConfig *tower.FitConfig) (*Service, error) {
	interactions := dataset.Synthesize(catalog, cfg.Sampler)
	InteractionsTotal.Set(float64(interactions.Len()))
	UsersTotal.Set(float64(interactions.CountUsers()))

	s := &Service{
		Config:       cfg,
		Catalog:      catalog,
		Interactions: interactions,
		users:        interactions.Users(),
		userSet:      mapset.NewThreadUnsafeSet(interactions.Users()...),
	}
	var err error
	switch cfg.Model.Name {
	case config.ModelTwoTower:
		s.Recommender, err = newTwoTower(ctx, cfg, catalog, interactions, fitConfig)
	case config.ModelPopular:
		s.Recommender, err = newPopular(cfg, catalog, interactions)
	default:
		err = errors.NotSupportedf("model %s", cfg.Model.Name)
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return s, nil
}

func newTwoTower(ctx context.Context, cfg *config.Config, catalog *dataset.Catalog,
	interactions *dataset.Interactions, fitConfig *tower.FitConfig) (*TwoTowerRecommender, error) {
	start := time.Now()
	m := tower.NewTwoTower(cfg.Model.GetParams())
	score, err := m.Fit(ctx, interactions, fitConfig)
	if err != nil {
		return nil, errors.Annotate(err, "fit two-tower model")
	}
	FitSeconds.Set(time.Since(start).Seconds())
	FitLoss.Set(float64(score.Loss))

	users, err := ExtractUsers(m, interactions.Users())
	if err != nil {
		return nil, errors.Trace(err)
	}
	courseIds := make([]string, 0, catalog.Len())
	for _, course := range catalog.Courses() {
		courseIds = append(courseIds, course.CourseId)
	}
	courses, err := ExtractCourses(m, courseIds)
	if err != nil {
		return nil, errors.Trace(err)
	}
	EmbeddedCoursesTotal.Set(float64(courses.Len()))
	log.Logger().Info("generate embeddings",
		zap.Int("n_users", users.Len()),
		zap.Int("n_courses", courses.Len()),
		log.Since(start))
	return NewTwoTowerRecommender(catalog, NewRanker(users, courses)), nil
}

func newPopular(cfg *config.Config, catalog *dataset.Catalog, interactions *dataset.Interactions) (*PopularRecommender, error) {
	board, err := NewLeaderBoard(cfg.Popular)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewPopularRecommender(catalog, NewPopular(catalog, interactions, board)), nil
}

// Users returns the synthetic user ids in id order.
func (s *Service) Users() []string {
	return append([]string(nil), s.users...)
}

// IsUser reports whether the user exists.
func (s *Service) IsUser(userId string) bool {
	return s.userSet.Contains(userId)
}

// RandomUser picks a user with rng. It returns false if there are no users.
func (s *Service) RandomUser(rng *rand.Rand) (string, bool) {
	if len(s.users) == 0 {
		return "", false
	}
	return s.users[rng.Intn(len(s.users))], true
}
