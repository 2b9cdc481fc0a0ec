// Package server exposes the HTTP surface: job submission, status polling,
// and the health probe. Submission acknowledges immediately and detaches
// the pipeline; all progress observation happens via polling or callback.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rmahabir1973/artivio-render/internal/check"
	"github.com/rmahabir1973/artivio-render/internal/config"
	"github.com/rmahabir1973/artivio-render/internal/job"
	"github.com/rmahabir1973/artivio-render/internal/timeline"
)

// Runner starts a job's pipeline. Satisfied by *pipeline.Processor;
// narrowed to an interface so handlers are testable with a stub.
type Runner interface {
	Process(ctx context.Context, jobID string, req *timeline.Request)
}

// Server holds the handler dependencies.
type Server struct {
	cfg      *config.Config
	registry *job.Registry
	runner   Runner
	log      zerolog.Logger
	version  string
}

// New creates a Server.
func New(cfg *config.Config, registry *job.Registry, runner Runner, log zerolog.Logger, version string) *Server {
	return &Server{cfg: cfg, registry: registry, runner: runner, log: log, version: version}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router(filesDir string) *gin.Engine {
	if s.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/process", s.handleProcess)
	router.GET("/status/:jobId", s.handleStatus)
	router.GET("/health", s.handleHealth)
	if filesDir != "" {
		router.Static("/files", filesDir)
	}
	return router
}

// handleProcess accepts a composition request, registers the job, and
// detaches the pipeline. The response never waits on the render.
func (s *Server) handleProcess(c *gin.Context) {
	var req timeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	s.registry.Create(jobID)
	s.log.Info().Str("job_id", jobID).Int("clips", len(req.Clips)).Msg("job accepted")

	// Detached from the request's lifecycle on purpose: the pipeline
	// outlives this handler and reports only through the registry.
	go s.runner.Process(context.Background(), jobID, &req)

	c.JSON(http.StatusAccepted, gin.H{"status": "processing", "jobId": jobID})
}

// handleStatus returns the registry snapshot for a job, or 404 once the
// record has expired.
func (s *Server) handleStatus(c *gin.Context) {
	rec, ok := s.registry.Get(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleHealth reports liveness plus encoder availability.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
		"tools":   check.Inspect(s.cfg.FFmpegBin, s.cfg.FFprobeBin),
		"jobs":    s.registry.Len(),
	})
}
