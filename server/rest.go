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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/dataset"
	"github.com/courserec/courserec/recommend"
	"github.com/emicklei/go-restful/v3"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	"go.uber.org/zap"
)

const (
	apiDocsPath  = "/apidocs/"
	apiSpecPath  = "/apidocs.json"
	metricsPath  = "/metrics"
	requestIdKey = "X-Request-ID"
)

// RestServer implements the REST-ful API of the recommender.
type RestServer struct {
	Service    *recommend.Service
	Config     config.ServerConfig
	WebService *restful.WebService

	cache *ResultCache
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RecommendRequest struct {
	UserId *string `json:"userId"`
	TopK   *int    `json:"topK"`
}

type RecommendResponse struct {
	Recommendations []dataset.Course `json:"recommendations"`
	UserId          string           `json:"userId"`
	TopK            int              `json:"topK"`
}

type EmptyRecommendResponse struct {
	Recommendations []dataset.Course `json:"recommendations"`
	Message         string           `json:"message"`
}

type CoursesResponse struct {
	Courses []dataset.Course `json:"courses"`
}

type CourseResponse struct {
	Course dataset.Course `json:"course"`
}

type SimilarResponse struct {
	CourseId string           `json:"courseId"`
	Similar  []dataset.Course `json:"similar"`
}

type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

type UsersResponse struct {
	Users []string `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestIdFilter propagates or assigns the request id.
func RequestIdFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestId := req.HeaderParameter(requestIdKey)
	if requestId == "" {
		requestId = uuid.New().String()
	}
	resp.Header().Set(requestIdKey, requestId)
	chain.ProcessFilter(req, resp)
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	RestAPIRequestSecondsVec.WithLabelValues(req.Request.Method, req.SelectedRoutePath()).
		Observe(time.Since(start).Seconds())
	log.ResponseLogger(resp).Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()),
		log.Since(start))
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Produces(restful.MIME_JSON)
	ws.Path("/")
	ws.Filter(LogFilter)

	ws.Route(ws.GET("/health").To(s.health).
		Doc("Health check.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Returns(http.StatusOK, "OK", HealthResponse{}).
		Writes(HealthResponse{}))

	ws.Route(ws.POST("/recommend").To(s.recommend).
		Doc("Recommend courses to a user. userId defaults to the default user and topK to the default count.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Reads(RecommendRequest{}).
		Returns(http.StatusOK, "OK", RecommendResponse{}).
		Returns(http.StatusInternalServerError, "malformed request", ErrorResponse{}).
		Writes(RecommendResponse{}))

	ws.Route(ws.GET("/courses").To(s.getCourses).
		Doc("List courses in catalog order.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"course"}).
		Param(ws.QueryParameter("subject", "only list courses of the subject").DataType("string")).
		Returns(http.StatusOK, "OK", CoursesResponse{}).
		Writes(CoursesResponse{}))
	ws.Route(ws.GET("/courses/{course-id}").To(s.getCourse).
		Doc("Get a course.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"course"}).
		Param(ws.PathParameter("course-id", "identifier of the course").DataType("string")).
		Returns(http.StatusOK, "OK", CourseResponse{}).
		Returns(http.StatusNotFound, "course not found", ErrorResponse{}).
		Writes(CourseResponse{}))
	ws.Route(ws.GET("/courses/{course-id}/similar").To(s.getSimilar).
		Doc("Get courses similar to a course.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("course-id", "identifier of the course").DataType("string")).
		Param(ws.QueryParameter("n", "number of returned courses").DataType("integer")).
		Returns(http.StatusOK, "OK", SimilarResponse{}).
		Returns(http.StatusBadRequest, "invalid n", ErrorResponse{}).
		Returns(http.StatusNotFound, "course not found", ErrorResponse{}).
		Writes(SimilarResponse{}))

	ws.Route(ws.GET("/subjects").To(s.getSubjects).
		Doc("List subjects in alphabetical order.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"course"}).
		Returns(http.StatusOK, "OK", SubjectsResponse{}).
		Writes(SubjectsResponse{}))

	ws.Route(ws.GET("/users").To(s.getUsers).
		Doc("List synthetic users.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"user"}).
		Returns(http.StatusOK, "OK", UsersResponse{}).
		Writes(UsersResponse{}))
}

// CreateContainer registers the web service, the API docs and the metrics endpoint
// on a new container.
func (s *RestServer) CreateContainer() *restful.Container {
	if s.WebService == nil {
		s.WebService = new(restful.WebService)
		s.CreateWebService()
	}
	if s.cache == nil && s.Config.CacheTTL > 0 {
		s.cache = NewResultCache(s.Config.CacheTTL, s.Config.CacheSize)
	}
	container := restful.NewContainer()
	container.DoNotRecover(false)
	container.RecoverHandler(recoverHandler)
	container.Filter(RequestIdFilter)
	container.Filter(restful.CrossOriginResourceSharing{
		AllowedHeaders: []string{"Content-Type", "Accept", requestIdKey},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		ExposeHeaders:  []string{requestIdKey},
		CookiesAllowed: false,
		Container:      container,
	}.Filter)
	container.Filter(container.OPTIONSFilter)
	container.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     apiSpecPath,
	}
	container.Add(restfulspec.NewOpenAPIService(specConfig))
	container.Handle(apiDocsPath, v5emb.New("Course Recommender", apiSpecPath, apiDocsPath))
	// register prometheus
	container.Handle(metricsPath, promhttp.Handler())
	return container
}

func recoverHandler(issue interface{}, w http.ResponseWriter) {
	log.Logger().Error("panic in handler", zap.Any("issue", issue), zap.Stack("stack"))
	w.Header().Set("Content-Type", restful.MIME_JSON)
	w.WriteHeader(http.StatusInternalServerError)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: fmt.Sprint(issue)}); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

func (s *RestServer) health(_ *restful.Request, response *restful.Response) {
	message := "Course Recommender API is running"
	if s.Service.Recommender.Name() == config.ModelPopular {
		message = "Simple Course Recommender API is running"
	}
	Ok(response, HealthResponse{Status: "healthy", Message: message})
}

func (s *RestServer) recommend(request *restful.Request, response *restful.Response) {
	var body RecommendRequest
	if err := json.NewDecoder(request.Request.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		InternalServerError(response, errors.Annotate(err, "decode request"))
		return
	}
	userId, topK := s.Config.DefaultUser, s.Config.DefaultN
	if body.UserId != nil {
		userId = *body.UserId
	}
	if body.TopK != nil {
		topK = *body.TopK
	}

	start := time.Now()
	recommendations := s.cached(recommendKey(userId, topK), func() []dataset.Course {
		return s.Service.Recommender.Recommend(userId, topK)
	})
	RecommendSeconds.Observe(time.Since(start).Seconds())
	if len(recommendations) == 0 {
		EmptyRecommendationsTotal.Inc()
		log.ResponseLogger(response).Info("no recommendations",
			zap.String("user_id", userId), zap.Int("top_k", topK))
		Ok(response, EmptyRecommendResponse{
			Recommendations: []dataset.Course{},
			Message:         fmt.Sprintf("No recommendations found for user %s", userId),
		})
		return
	}
	Ok(response, RecommendResponse{
		Recommendations: recommendations,
		UserId:          userId,
		TopK:            topK,
	})
}

func (s *RestServer) getCourses(request *restful.Request, response *restful.Response) {
	var courses []dataset.Course
	if subject := request.QueryParameter("subject"); subject != "" {
		courses = s.Service.Catalog.BySubject(subject)
	} else {
		courses = s.Service.Catalog.Courses()
	}
	if courses == nil {
		courses = []dataset.Course{}
	}
	Ok(response, CoursesResponse{Courses: courses})
}

func (s *RestServer) getCourse(request *restful.Request, response *restful.Response) {
	courseId := request.PathParameter("course-id")
	course, ok := s.Service.Catalog.Get(courseId)
	if !ok {
		PageNotFound(response, errors.New("Course not found"))
		return
	}
	Ok(response, CourseResponse{Course: course})
}

func (s *RestServer) getSimilar(request *restful.Request, response *restful.Response) {
	courseId := request.PathParameter("course-id")
	n, err := ParseInt(request, "n", s.Config.SimilarN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	if !s.Service.Catalog.Contains(courseId) {
		PageNotFound(response, errors.New("Course not found"))
		return
	}
	start := time.Now()
	similar := s.cached(similarKey(courseId, n), func() []dataset.Course {
		return s.Service.Recommender.Similar(courseId, n)
	})
	SimilarSeconds.Observe(time.Since(start).Seconds())
	Ok(response, SimilarResponse{CourseId: courseId, Similar: similar})
}

func (s *RestServer) cached(key string, load func() []dataset.Course) []dataset.Course {
	if s.cache == nil {
		return load()
	}
	return s.cache.GetOrLoad(key, load)
}

func (s *RestServer) getSubjects(_ *restful.Request, response *restful.Response) {
	Ok(response, SubjectsResponse{Subjects: s.Service.Catalog.SortedSubjects()})
}

func (s *RestServer) getUsers(_ *restful.Request, response *restful.Response) {
	Ok(response, UsersResponse{Users: s.Service.Users()})
}

// ParseInt parses integers from the query parameter.
func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := request.QueryParameter(name)
	if valueString == "" {
		return fallback, nil
	}
	value, err = strconv.Atoi(valueString)
	if err != nil {
		return 0, errors.NotValidf("%s %q", name, valueString)
	}
	return value, nil
}

func writeError(response *restful.Response, status int, err error) {
	if err := response.WriteHeaderAndJson(status, ErrorResponse{Error: err.Error()}, restful.MIME_JSON); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	writeError(response, http.StatusBadRequest, err)
}

// InternalServerError returns a internal server error.
func InternalServerError(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	writeError(response, http.StatusInternalServerError, err)
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	writeError(response, http.StatusNotFound, err)
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}
