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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/model/tower"
	"github.com/courserec/courserec/recommend"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/suite"
)

func newTestCatalog() (*dataset.Catalog, error) {
	return dataset.NewCatalog([]dataset.Course{
		{CourseId: "1", CourseTitle: "HTML Basics", Subject: "Web Development", Level: "All Levels", NumSubscribers: 100, Price: 20},
		{CourseId: "2", CourseTitle: "CSS Basics", Subject: "Web Development", Level: "All Levels", NumSubscribers: 300},
		{CourseId: "3", CourseTitle: "React", Subject: "Web Development", Level: "Beginner Level", NumSubscribers: 500, Price: 50},
		{CourseId: "4", CourseTitle: "Vue", Subject: "Web Development", Level: "All Levels", NumSubscribers: 300, Price: 30},
		{CourseId: "5", CourseTitle: "Accounting", Subject: "Business Finance", Level: "All Levels", NumSubscribers: 1000, Price: 200},
		{CourseId: "6", CourseTitle: "Trading", Subject: "Business Finance", Level: "Expert Level", NumSubscribers: 50},
		{CourseId: "7", CourseTitle: "Photoshop", Subject: "Graphic Design", Level: "All Levels", NumSubscribers: 700, Price: 10},
	})
}

type ServerTestSuite struct {
	suite.Suite
	RestServer
	model   string
	handler *restful.Container
}

func (suite *ServerTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	cfg.Model.Name = suite.model
	cfg.Sampler.NumUsers = 30
	catalog, err := newTestCatalog()
	suite.NoError(err)
	suite.Service, err = recommend.NewService(context.Background(), cfg, catalog, tower.NewFitConfig().SetVerbose(0))
	suite.NoError(err)
	suite.Config = cfg.Server

	suite.WebService = new(restful.WebService)
	suite.CreateWebService()
	// create handler
	suite.handler = suite.CreateContainer()
	ws := new(restful.WebService)
	ws.Path("/panic")
	ws.Route(ws.GET("").To(func(*restful.Request, *restful.Response) {
		panic("boom")
	}))
	suite.handler.Add(ws)
}

func (suite *ServerTestSuite) marshal(v interface{}) string {
	s, err := json.Marshal(v)
	suite.NoError(err)
	return string(s)
}

func (suite *ServerTestSuite) TestRecommend() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"userId": "user_1", "topK": 3}`).
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(RecommendResponse{
			Recommendations: suite.Service.Recommender.Recommend("user_1", 3),
			UserId:          "user_1",
			TopK:            3,
		})).
		End()
	// defaults
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(RecommendResponse{
			Recommendations: suite.Service.Recommender.Recommend("user_0", 10),
			UserId:          "user_0",
			TopK:            10,
		})).
		End()
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{}`).
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(RecommendResponse{
			Recommendations: suite.Service.Recommender.Recommend("user_0", 10),
			UserId:          "user_0",
			TopK:            10,
		})).
		End()
}

func (suite *ServerTestSuite) TestRecommendEmpty() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"userId": "user_0", "topK": 0}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"recommendations": [], "message": "No recommendations found for user user_0"}`).
		End()
}

func (suite *ServerTestSuite) TestRecommendMalformed() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"topK": "five"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(hasError).
		End()
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		Body(`{"userId": `).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(hasError).
		End()
}

func hasError(res *http.Response, _ *http.Request) error {
	var body ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return err
	}
	if body.Error == "" {
		return errors.New("missing error message")
	}
	return nil
}

func (suite *ServerTestSuite) TestCourses() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Get("/courses").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(CoursesResponse{Courses: suite.Service.Catalog.Courses()})).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses").
		Query("subject", "Business Finance").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(CoursesResponse{Courses: suite.Service.Catalog.BySubject("Business Finance")})).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses").
		Query("subject", "Cooking").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"courses": []}`).
		End()
}

func (suite *ServerTestSuite) TestCourse() {
	t := suite.T()
	course, _ := suite.Service.Catalog.Get("7")
	apitest.New().
		Handler(suite.handler).
		Get("/courses/7").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(CourseResponse{Course: course})).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses/404").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"error": "Course not found"}`).
		End()
}

func (suite *ServerTestSuite) TestSimilar() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Get("/courses/1/similar").
		Query("n", "2").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(SimilarResponse{
			CourseId: "1",
			Similar:  suite.Service.Recommender.Similar("1", 2),
		})).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses/1/similar").
		Expect(t).
		Status(http.StatusOK).
		Body(suite.marshal(SimilarResponse{
			CourseId: "1",
			Similar:  suite.Service.Recommender.Similar("1", 5),
		})).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses/1/similar").
		Query("n", "many").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(hasError).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/courses/404/similar").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"error": "Course not found"}`).
		End()
}

func (suite *ServerTestSuite) TestSubjects() {
	apitest.New().
		Handler(suite.handler).
		Get("/subjects").
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(`{"subjects": ["Business Finance", "Graphic Design", "Web Development"]}`).
		End()
}

func (suite *ServerTestSuite) TestUsers() {
	apitest.New().
		Handler(suite.handler).
		Get("/users").
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(suite.marshal(UsersResponse{Users: suite.Service.Users()})).
		End()
	suite.Len(suite.Service.Users(), 30)
}

func (suite *ServerTestSuite) TestRequestId() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Get("/users").
		Header("X-Request-ID", "abc").
		Expect(t).
		Status(http.StatusOK).
		Header("X-Request-ID", "abc").
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/users").
		Expect(t).
		Status(http.StatusOK).
		HeaderPresent("X-Request-ID").
		End()
}

func (suite *ServerTestSuite) TestCORS() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Get("/health").
		Header("Origin", "http://localhost:3000").
		Expect(t).
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin", "http://localhost:3000").
		End()
	apitest.New().
		Handler(suite.handler).
		Method(http.MethodOptions).
		URL("/recommend").
		Header("Origin", "http://localhost:3000").
		Header("Access-Control-Request-Method", "POST").
		Expect(t).
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin", "http://localhost:3000").
		End()
}

func (suite *ServerTestSuite) TestPanic() {
	apitest.New().
		Handler(suite.handler).
		Get("/panic").
		Expect(suite.T()).
		Status(http.StatusInternalServerError).
		Body(`{"error": "boom"}`).
		End()
}

func (suite *ServerTestSuite) TestDocsAndMetrics() {
	t := suite.T()
	apitest.New().
		Handler(suite.handler).
		Get("/apidocs.json").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			var doc map[string]any
			if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
				return err
			}
			paths, _ := doc["paths"].(map[string]any)
			if _, ok := paths["/recommend"]; !ok {
				return errors.New("missing /recommend")
			}
			return nil
		}).
		End()
	apitest.New().
		Handler(suite.handler).
		Get("/metrics").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(res *http.Response, _ *http.Request) error {
			var builder bytes.Buffer
			if _, err := builder.ReadFrom(res.Body); err != nil {
				return err
			}
			if !strings.Contains(builder.String(), "courserec_server_recommend_seconds") {
				return errors.New("missing courserec_server_recommend_seconds")
			}
			return nil
		}).
		End()
}

type TwoTowerServerTestSuite struct {
	ServerTestSuite
}

func (suite *TwoTowerServerTestSuite) SetupSuite() {
	suite.model = config.ModelTwoTower
	suite.ServerTestSuite.SetupSuite()
}

func (suite *TwoTowerServerTestSuite) TestHealth() {
	apitest.New().
		Handler(suite.handler).
		Get("/health").
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(`{"status": "healthy", "message": "Course Recommender API is running"}`).
		End()
}

func (suite *TwoTowerServerTestSuite) TestUnknownUser() {
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"userId": "user_404"}`).
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(`{"recommendations": [], "message": "No recommendations found for user user_404"}`).
		End()
}

func TestTwoTowerServer(t *testing.T) {
	suite.Run(t, new(TwoTowerServerTestSuite))
}

type PopularServerTestSuite struct {
	ServerTestSuite
}

func (suite *PopularServerTestSuite) SetupSuite() {
	suite.model = config.ModelPopular
	suite.ServerTestSuite.SetupSuite()
}

func (suite *PopularServerTestSuite) TestHealth() {
	apitest.New().
		Handler(suite.handler).
		Get("/health").
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(`{"status": "healthy", "message": "Simple Course Recommender API is running"}`).
		End()
}

func (suite *PopularServerTestSuite) TestUnknownUser() {
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"userId": "user_404", "topK": 2}`).
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(suite.marshal(RecommendResponse{
			Recommendations: suite.Service.Recommender.Recommend("user_404", 2),
			UserId:          "user_404",
			TopK:            2,
		})).
		End()
	suite.Len(suite.Service.Recommender.Recommend("user_404", 2), 2)
}

func (suite *PopularServerTestSuite) TestLargeTopK() {
	apitest.New().
		Handler(suite.handler).
		Post("/recommend").
		JSON(`{"userId": "user_0", "topK": 1099511627776}`).
		Expect(suite.T()).
		Status(http.StatusOK).
		Body(suite.marshal(RecommendResponse{
			Recommendations: suite.Service.Recommender.Recommend("user_0", 1<<40),
			UserId:          "user_0",
			TopK:            1 << 40,
		})).
		End()
	suite.Len(suite.Service.Recommender.Recommend("user_0", 1<<40), suite.Service.Catalog.Len())
}

func TestPopularServer(t *testing.T) {
	suite.Run(t, new(PopularServerTestSuite))
}
