// Package api exposes the reliability engine over HTTP. Handlers are thin:
// they validate payload shape and translate service errors into status
// codes; every scoring decision lives in the domain package.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relimeter/app"
	"relimeter/internal"
)

// Server represents the reliability HTTP API
type Server struct {
	router      *gin.Engine
	reliability *app.ReliabilityService
	snapshots   *app.SnapshotService
	comparison  *app.ComparisonService
	logger      *internal.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(reliabilitySvc *app.ReliabilityService, snapshotSvc *app.SnapshotService, comparisonSvc *app.ComparisonService, logger *internal.Logger) *Server {
	s := &Server{
		router:      gin.Default(),
		reliability: reliabilitySvc,
		snapshots:   snapshotSvc,
		comparison:  comparisonSvc,
		logger:      logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/methodology", s.handleMethodology)

	v1 := s.router.Group("/api/v1/reliability")
	{
		v1.POST("/score", s.handleScore)
		v1.POST("/batch", s.handleBatch)
		v1.POST("/top", s.handleTop)
		v1.GET("/top/export", s.handleTopExport)
		v1.GET("/weights", s.handleWeights)
		v1.GET("/compare/:journal", s.handleCompare)
	}
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server on the given port
func (s *Server) Run(port string) error {
	s.logger.Info("reliability API listening on :%s", port)
	return s.router.Run(":" + port)
}
