// Package httpapi exposes the demystify service over HTTP using gin.
// The JSON shapes mirror the CLI's report output: upload returns the
// session ID with the full report, chat returns a plain answer.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karaar-labs/karaar/internal/core/domain"
	"github.com/karaar-labs/karaar/internal/core/ports/driving"
	"github.com/karaar-labs/karaar/internal/logger"
)

// MaxUploadSize bounds uploaded document size (16 MiB).
const MaxUploadSize = 16 << 20

// Config holds server configuration.
type Config struct {
	// UploadDir is where uploaded documents are persisted. Files live
	// until their session is deleted.
	UploadDir string
}

// Server serves the demystify HTTP API.
type Server struct {
	engine    *gin.Engine
	service   driving.DemystifyService
	uploadDir string
}

// New creates a server over the given service.
func New(service driving.DemystifyService, cfg Config) (*Server, error) {
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(os.TempDir(), "karaar-uploads")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = MaxUploadSize

	s := &Server{
		engine:    engine,
		service:   service,
		uploadDir: cfg.UploadDir,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	demystify := s.engine.Group("/demystify")
	demystify.POST("/upload", s.handleUpload)
	demystify.POST("/chat", s.handleChat)
	demystify.GET("/sessions", s.handleListSessions)
	demystify.GET("/session/:id", s.handleGetSession)
	demystify.DELETE("/session/:id", s.handleDeleteSession)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the given address and blocks.
func (s *Server) Run(addr string) error {
	logger.Info("HTTP API listening on %s", addr)
	return s.engine.Run(addr)
}

// chatRequest is the /demystify/chat request body.
type chatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

// sessionSummary is the list/get response shape.
type sessionSummary struct {
	SessionID string        `json:"session_id"`
	Document  string        `json:"document"`
	CreatedAt time.Time     `json:"created_at"`
	Report    domain.Report `json:"report"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file field"})
		return
	}
	if fileHeader.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file has no extension"})
		return
	}

	// Persist under a fresh name so concurrent uploads of the same
	// filename cannot collide.
	dst := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		logger.Warn("Upload save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not store upload"})
		return
	}

	// The service owns the stored copy and removes it on session delete.
	session, err := s.service.CreateUpload(c.Request.Context(), dst)
	if err != nil {
		_ = os.Remove(dst)
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"report":     session.Report,
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "session_id and question are required"})
		return
	}

	answer, err := s.service.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.service.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	summaries := make([]sessionSummary, len(sessions))
	for i := range sessions {
		summaries[i] = sessionSummary{
			SessionID: sessions[i].ID,
			Document:  sessions[i].Document.Title,
			CreatedAt: sessions[i].CreatedAt,
			Report:    sessions[i].Report,
		}
	}

	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionSummary{
		SessionID: session.ID,
		Document:  session.Document.Title,
		CreatedAt: session.CreatedAt,
		Report:    session.Report,
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Session not found. Please upload the document again."})
	case errors.Is(err, domain.ErrEmptyDocument):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No text could be extracted from the document."})
	case errors.Is(err, domain.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported file type."})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "The AI provider is rate limiting requests. Try again shortly."})
	case errors.Is(err, domain.ErrGenerationUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrIndexUnavailable),
		errors.Is(err, domain.ErrSearchUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
	default:
		logger.Warn("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}
