// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server exposes the resolution cascade over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/answerdesk/services/knowledge"
	"github.com/AleutianAI/answerdesk/services/resolver"
	"github.com/AleutianAI/answerdesk/services/server/misslog"
)

const shutdownGrace = 10 * time.Second

// Deps are the wired components the HTTP surface exposes.
type Deps struct {
	Store    *knowledge.Store
	Resolver *resolver.Resolver
	Misses   *misslog.Logger // optional
	Logger   *slog.Logger    // optional, defaults to slog.Default()
}

// Server is the HTTP front end.
type Server struct {
	engine *gin.Engine
	addr   string
	logger *slog.Logger
}

// New builds the router and its middleware. addr is the listen
// address, e.g. ":8080".
func New(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())

	SetupRoutes(engine, deps)

	return &Server{engine: engine, addr: addr, logger: logger}
}

// SetupRoutes registers all HTTP routes on the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/", Root(deps.Store))
	router.GET("/health", HealthCheck(deps.Store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/answers/resolve", ResolveAnswer(deps.Resolver, deps.Misses))
	}
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
