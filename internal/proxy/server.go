package proxy

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Server wraps a Solver behind the benchmark contract: POST /solve with
// a question, JSON answer back.
type Server struct {
	router *gin.Engine
	solver Solver
}

type solveRequest struct {
	Question string `json:"question"`
	Prompt   string `json:"prompt"`
}

// NewServer builds the HTTP surface for a solver.
func NewServer(solver Solver) (*Server, error) {
	if solver == nil {
		return nil, errors.New("proxy: nil solver")
	}

	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{router: r, solver: solver}
	r.GET("/healthz", s.handleHealth)
	r.POST("/solve", s.handleSolve)
	return s, nil
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("proxy: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8001"
	}
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.solver.Name(),
	})
}

func (s *Server) handleSolve(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = strings.TrimSpace(req.Prompt)
	}
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing question"})
		return
	}

	answer, err := s.solver.Solve(c.Request.Context(), question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
