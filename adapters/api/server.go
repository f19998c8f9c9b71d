// Package api exposes the analysis service as a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goccram/app"
	"goccram/domain/core"
	apperrors "goccram/internal/errors"
	"goccram/internal/resampling"
)

// Server represents the JSON API server
type Server struct {
	router   *gin.Engine
	service  *app.AnalysisService
	defaults resampling.Options
}

// NewServer wires the analysis service into a gin router. The defaults fill
// in requests that leave their resampling options empty.
func NewServer(service *app.AnalysisService, ginMode string, defaults resampling.Options) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	if defaults == (resampling.Options{}) {
		defaults = resampling.DefaultOptions()
	}
	s := &Server{
		router:   gin.Default(),
		service:  service,
		defaults: defaults,
	}
	s.setupRoutes()
	return s
}

// Router exposes the underlying handler for testing and embedding.
func (s *Server) Router() http.Handler { return s.router }

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyses", s.runAnalysis)
		v1.GET("/analyses", s.listAnalyses)
		v1.GET("/analyses/:id", s.getAnalysis)
	}
}

// runAnalysis executes one CCRAM study from an inline count table.
func (s *Server) runAnalysis(c *gin.Context) {
	var req app.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Options = req.Options.WithDefaults(s.defaults)

	result, err := s.service.Run(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsConstructionError(err) || core.IsSpecError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getAnalysis(c *gin.Context) {
	id := core.AnalysisID(c.Param("id"))
	result, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listAnalyses(c *gin.Context) {
	results, err := s.service.List(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": results})
}
