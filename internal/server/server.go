// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes scanning, table generation, annotation planning
// and scan history over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/toa-engine/internal/artifact"
	"github.com/pdiddy/toa-engine/internal/scan"
	"github.com/pdiddy/toa-engine/internal/store"
	"github.com/pdiddy/toa-engine/pkg/types"
)

const (
	defaultAddr         = ":8080"
	defaultMaxBodyBytes = 10 << 20
	shutdownTimeout     = 10 * time.Second
)

// Server wires the HTTP routes to the scanning core.
type Server struct {
	cfg       types.Config
	scanOpts  scan.Options
	store     *store.Store
	artifacts artifact.Storage
	log       logrus.FieldLogger
	engine    *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables saving scans and the history routes.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithArtifacts enables publishing rendered tables.
func WithArtifacts(a artifact.Storage) Option {
	return func(s *Server) { s.artifacts = a }
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) { s.log = l }
}

// New builds the router. Parser configuration is resolved once, so a bad
// patterns file fails here rather than on the first request.
func New(cfg types.Config, opts ...Option) (*Server, error) {
	scanOpts, err := scan.OptionsFrom(cfg.Parser)
	if err != nil {
		return nil, err
	}
	scanOpts.CharsPerPage = cfg.Source.CharsPerPage
	if cfg.Format == (types.FormatConfig{}) {
		cfg.Format = types.DefaultFormatConfig()
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}

	s := &Server{
		cfg:      cfg,
		scanOpts: scanOpts,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery(), limitBody(s.cfg.Server.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/scan", s.handleScan)
		api.POST("/toa", s.handleTOA)
		api.POST("/fields", s.handleFields)

		api.GET("/scans", s.handleListScans)
		api.GET("/scans/:id", s.handleGetScan)
		api.GET("/scans/:id/export", s.handleExport)
		api.PATCH("/scans/:id/citations/:cid", s.handleSetIncluded)
		api.GET("/search", s.handleSearch)
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warn("request failed")
		default:
			entry.Debug("request")
		}
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
