/*
 * Copyright 2025 The Scriptorium Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package httpapi provides the JSON HTTP surface of the document store.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/scriptorium-team/scriptorium/server/backend"
	"github.com/scriptorium-team/scriptorium/server/logging"
)

// Server is the HTTP API server of the document store.
type Server struct {
	conf       *Config
	httpServer *http.Server
}

// NewServer creates a new instance of Server.
func NewServer(conf *Config, be *backend.Backend) *Server {
	return &Server{
		conf: conf,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", conf.Port),
			Handler: NewRouter(conf, be),
		},
	}
}

// NewRouter creates the gin engine serving the API routes.
func NewRouter(conf *Config, be *backend.Backend) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware(be))

	corsConf := cors.DefaultConfig()
	if len(conf.AllowedOrigins) > 0 {
		corsConf.AllowOrigins = conf.AllowedOrigins
	} else {
		corsConf.AllowAllOrigins = true
	}
	corsConf.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConf.AllowHeaders = []string{"Content-Type", "X-Requested-With"}
	router.Use(cors.New(corsConf))

	handler := NewHandler(be)

	router.GET("/healthcheck", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/documents", handler.CreateDocument)
		api.POST("/documents/preview", handler.PreviewDocument)
		api.GET("/documents", handler.ListDocuments)
		api.GET("/documents/:id", handler.GetDocument)
		api.PATCH("/documents/:id", handler.UpdateDocument)
		api.DELETE("/documents/:id", handler.DeleteDocument)
		api.GET("/stats", handler.Stats)
	}

	return router
}

// metricsMiddleware counts completed requests by method, route and status.
func metricsMiddleware(be *backend.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		be.Metrics.AddRequestsHandled(
			c.Request.Method,
			route,
			fmt.Sprintf("%d", c.Writer.Status()),
		)
	}
}

// Start starts the server. It returns once the listener is accepting
// requests; serve errors are logged from the serving goroutine.
func (s *Server) Start() error {
	go func() {
		logging.DefaultLogger().Infof("HTTP API server started: %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.DefaultLogger().Errorf("HTTP API server: %v", err)
		}
	}()

	return nil
}

// Shutdown shuts down the server. When graceful is true, in-flight requests
// are drained first.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			logging.DefaultLogger().Warnf("HTTP API server shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		logging.DefaultLogger().Warnf("HTTP API server close: %v", err)
	}
}
