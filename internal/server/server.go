package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/export"
	"github.com/crimecard/intake/internal/pipeline"
	"github.com/crimecard/intake/internal/repository"
)

// Server holds the state for the REST API server.
type Server struct {
	processor *pipeline.Processor
	reports   repository.ReportRepository
	exporter  *export.Service
	uploadDir string
	logger    *slog.Logger
	router    *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(proc *pipeline.Processor, reports repository.ReportRepository, exporter *export.Service, uploadDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	s := &Server{
		processor: proc,
		reports:   reports,
		exporter:  exporter,
		uploadDir: uploadDir,
		logger:    logger,
		router:    r,
	}
	r.Use(s.requestLog)
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/api/reports", s.createReport)
	s.router.GET("/api/reports", s.listReports)
	s.router.GET("/api/reports/export", s.exportReports)
	s.router.GET("/api/reports/:id", s.getReport)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// requestLog tags every request with an id and emits one access log line.
func (s *Server) requestLog(c *gin.Context) {
	rid := uuid.New().String()
	c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), rid))
	c.Header("X-Request-ID", rid)

	start := time.Now()
	c.Next()

	s.logger.Info("http.request",
		"req_id", rid,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// respondError maps a pipeline error onto the envelope the clients consume.
// Full diagnostics go to the server log; the client sees the sanitized text.
func (s *Server) respondError(c *gin.Context, err error) {
	rid := common.RequestIDFromContext(c.Request.Context())
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("http.pipeline_error", "req_id", rid, "status", status, "err", err)
	} else {
		s.logger.Warn("http.client_error", "req_id", rid, "status", status, "err", err)
	}
	c.JSON(status, gin.H{"success": false, "error": common.ClientMessage(err)})
}
