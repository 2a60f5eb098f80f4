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
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/courserec/courserec/base/log"
	"github.com/courserec/courserec/config"
	"github.com/courserec/courserec/recommend"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Server serves the REST-ful API over HTTP.
type Server struct {
	RestServer
	httpServer *http.Server
}

// NewServer creates a server for a service that is already built.
func NewServer(service *recommend.Service, cfg config.ServerConfig) *Server {
	s := &Server{
		RestServer: RestServer{
			Service: service,
			Config:  cfg,
		},
	}
	s.httpServer = &http.Server{Handler: s.CreateContainer()}
	return s
}

// Address returns the listen address.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Address())
	if err != nil {
		return errors.Annotatef(err, "listen %s", s.Address())
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s", listener.Addr())),
		zap.String("model", s.Service.Recommender.Name()))
	if s.cache != nil {
		go s.cache.Start()
		defer s.cache.Stop()
	}
	stopped := make(chan struct{})
	defer close(stopped)
	done := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
		defer cancel()
		log.Logger().Info("shutdown http server", zap.Duration("timeout", s.Config.ShutdownTimeout))
		done <- s.httpServer.Shutdown(shutdownCtx)
	}()
	if err := s.httpServer.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Trace(err)
	}
	if err := <-done; err != nil {
		return errors.Annotate(err, "shutdown http server")
	}
	return nil
}
