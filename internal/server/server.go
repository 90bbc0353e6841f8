// Package server exposes the blog generator over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/config"
	"github.com/alkime/writeablog/internal/premium"
	"github.com/alkime/writeablog/internal/session"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Generator produces blog posts. *blog.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req blog.Request) (blog.Result, error)
}

// Deps are the collaborators the HTTP handlers call into.
type Deps struct {
	Generator Generator
	Locker    session.Locker
	// Premium is nil when premium gating is disabled.
	Premium *premium.Verifier
}

// Server represents the HTTP server
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	router    *gin.Engine
	generator Generator
	locker    session.Locker
	premium   *premium.Verifier
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Requests are logged through slog instead of gin's default logger
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure proxy trust for production (Fly.io)
	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	locker := deps.Locker
	if locker == nil {
		locker = session.NewMemoryLocker()
	}

	server := &Server{
		config:    cfg,
		logger:    logger,
		router:    router,
		generator: deps.Generator,
		locker:    locker,
		premium:   deps.Premium,
	}

	// Setup middleware and routes
	router.Use(requestLogger(logger))
	setupSecurityMiddleware(router, cfg, logger)
	setupCORSMiddleware(router, cfg, logger)
	router.Use(compression())
	server.setupRoutes()

	return server
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/options", s.handleOptions)
		api.POST("/generate", s.withSession, s.handleGenerate)
	}

	// Serve the front-end; explicit routes above take precedence.
	if s.config.StaticDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.StaticDir, false)))
	}
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "writeablog",
	})
}
