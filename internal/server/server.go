// internal/server/server.go
package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/config"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/ingest"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// AgentService is the pipeline surface the HTTP layer fronts.
type AgentService interface {
	ProcessQuery(ctx context.Context, query, userID string, isDemo bool, userContext string) *models.RAGResponse
	ValidateUserData(ctx context.Context, userID string, isDemo bool) *models.DataReadiness
}

// StatementImporter ingests an uploaded CSV statement.
type StatementImporter interface {
	Import(ctx context.Context, userID string, r io.Reader) (*ingest.ImportSummary, error)
}

// Server is thin HTTP glue over the agent pipeline.
type Server struct {
	engine         *gin.Engine
	agent          AgentService
	importer       StatementImporter
	cfg            config.ServerConfig
	maxUploadBytes int64
	logger         logger.Logger
}

func New(cfg config.ServerConfig, ingestCfg config.IngestConfig, agent AgentService, importer StatementImporter, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	maxUploadBytes := ingestCfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}

	s := &Server{
		engine:         engine,
		agent:          agent,
		importer:       importer,
		cfg:            cfg,
		maxUploadBytes: maxUploadBytes,
		logger: log.WithFields(map[string]interface{}{
			"component": "http-server",
		}),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/agent")
	api.POST("/query", s.handleQuery)
	api.GET("/readiness", s.handleReadiness)
	api.POST("/statements", s.handleStatementUpload)

	return s
}

// Handler exposes the router for http.Server wiring and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type queryRequest struct {
	Query       string `json:"query" binding:"required"`
	UserID      string `json:"userId" binding:"required"`
	IsDemo      bool   `json:"isDemo"`
	UserContext string `json:"userContext"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query and userId are required"})
		return
	}

	resp := s.agent.ProcessQuery(c.Request.Context(), req.Query, req.UserID, req.IsDemo, req.UserContext)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReadiness(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	isDemo := c.Query("demo") == "true"

	readiness := s.agent.ValidateUserData(c.Request.Context(), userID, isDemo)
	c.JSON(http.StatusOK, readiness)
}

func (s *Server) handleStatementUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "uploaded file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart request"})
		return
	}

	userID := c.PostForm("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	defer file.Close()

	summary, err := s.importer.Import(c.Request.Context(), userID, file)
	if err != nil {
		s.logger.WithError(err).Error("statement import failed", map[string]interface{}{
			"user_id":  userID,
			"filename": header.Filename,
		})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not import statement"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
