// Package demoserver is a self-contained system under test: it answers
// "What is X + Y?" questions so a benchmark run can be exercised
// without any external service.
package demoserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Server answers addition questions over the /solve contract.
type Server struct {
	router *gin.Engine
}

type solveRequest struct {
	Question string `json:"question"`
}

// NewServer builds the demo router.
func NewServer() *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{router: r}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/solve", s.handleSolve)
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("demoserver: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8000"
	}
	return s.router.Run(addr)
}

func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": Answer(req.Question)})
}

// Answer parses a question of the form "What is X + Y?" and returns the
// sum as a string. Unparseable questions yield "unknown".
func Answer(question string) string {
	q := strings.ReplaceAll(question, "?", "")
	parts := strings.Split(q, "+")
	if len(parts) != 2 {
		return "unknown"
	}

	leftWords := strings.Fields(parts[0])
	if len(leftWords) == 0 {
		return "unknown"
	}
	a, err := strconv.Atoi(leftWords[len(leftWords)-1])
	if err != nil {
		return "unknown"
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "unknown"
	}
	return strconv.Itoa(a + b)
}
