package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"maitred/internal/engine"
	"maitred/internal/models"
)

// Server is the HTTP surface over the order-intent engine
type Server struct {
	Router   *gin.Engine
	resolver *engine.Resolver
}

// NewServer wires the routes onto a gin engine
func NewServer(resolver *engine.Resolver) *Server {
	s := &Server{
		Router:   gin.Default(),
		resolver: resolver,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "maitred API is running"})
	})

	v1 := s.Router.Group("/api/v1")
	{
		v1.POST("/chat", s.HandleChat)
		v1.GET("/ws", s.HandleWebSocket)
		v1.DELETE("/sessions/:id", s.ClearSession)
	}
}

// ChatRequest is one inbound utterance. SessionID may be empty on the first
// turn; the server mints one and returns it with every result.
type ChatRequest struct {
	SessionID string   `json:"session_id"`
	Text      string   `json:"text" binding:"required"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

func (req *ChatRequest) coordinate() *models.Coordinate {
	if req.Lat == nil || req.Lng == nil {
		return nil
	}
	return &models.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
}

// HandleChat processes one utterance and returns the engine result
func (s *Server) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := s.resolver.HandleUtterance(c.Request.Context(), req.SessionID, req.Text, req.coordinate())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearSession drops all conversation state for a session
func (s *Server) ClearSession(c *gin.Context) {
	id := c.Param("id")
	if !s.resolver.ClearSession(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}
