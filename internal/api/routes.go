// Package api provides the REST API server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/credit-scorer/internal/scoring"
	"github.com/user/credit-scorer/pkg/config"
)

// Server represents the API server.
type Server struct {
	router       *gin.Engine
	orchestrator *scoring.Orchestrator
	config       *config.Config
}

// NewServer creates a new API server.
func NewServer(orchestrator *scoring.Orchestrator, cfg *config.Config) *Server {
	s := &Server{
		orchestrator: orchestrator,
		config:       cfg,
	}

	s.setupRouter()
	return s
}

// setupRouter sets up the Gin router with all routes.
func (s *Server) setupRouter() {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Enable CORS
	r.Use(corsMiddleware())

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", s.handleHealth)

		// Companies
		api.GET("/companies", s.handleListCompanies)
		api.GET("/companies/:ticker/analysis", s.handleCompanyAnalysis)

		// Batch scoring
		api.POST("/scores/batch", s.handleBatchScores)

		// Score breakdown chart metadata
		api.GET("/breakdown", s.handleBreakdown)
	}

	s.router = r
}

// Router returns the Gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
