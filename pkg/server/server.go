// Package server exposes the generator, packager and project store over
// HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plugingenius/plugingenius-cli/pkg/generator"
	"github.com/plugingenius/plugingenius-cli/pkg/logging"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// Server wires the HTTP routes
type Server struct {
	generator *generator.Generator
	projects  *store.Projects
	level     int
	logger    hclog.Logger
	gatherer  prometheus.Gatherer
	engine    *gin.Engine
}

// Option configures a Server
type Option func(*Server)

func WithLogger(l hclog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCompressionLevel sets the DEFLATE level used for archive responses
func WithCompressionLevel(level int) Option {
	return func(s *Server) { s.level = level }
}

// WithGatherer selects the registry served on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New builds the router. projects may be nil, in which case the project
// routes answer 503.
func New(gen *generator.Generator, projects *store.Projects, opts ...Option) *Server {
	s := &Server{
		generator: gen,
		projects:  projects,
		level:     packager.DefaultCompressionLevel,
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDiscard(s.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/create", s.handleCreate)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.GET("/categories", s.handleCategories)
	api.GET("/templates", s.handleTemplates)
	api.GET("/templates/:id", s.handleTemplatePreview)
	api.POST("/plugins", s.handleGenerate)
	api.POST("/plugins/archive", s.handleArchive)
	api.POST("/plugins/text", s.handleText)

	projectsGroup := api.Group("/projects")
	projectsGroup.Use(s.requireProjects)
	projectsGroup.GET("", s.handleListProjects)
	projectsGroup.POST("", s.handleSaveProject)
	projectsGroup.GET("/:id", s.handleGetProject)
	projectsGroup.DELETE("/:id", s.handleDeleteProject)

	s.engine = engine
	return s
}

// Handler returns the router as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) requireProjects(c *gin.Context) {
	if s.projects == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "project store is not configured"})
		return
	}
	c.Next()
}
