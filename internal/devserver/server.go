// Package devserver is a local stand-in for the confide backend.
//
// It implements the same REST contract as the production service on top of a
// SQLite database, with answers produced by a pluggable Responder.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zhubert/confide/internal/api"
	"github.com/zhubert/confide/internal/logger"
)

// Server serves the backend API.
type Server struct {
	store     *Store
	responder Responder
	router    *gin.Engine
	log       *slog.Logger
}

// New creates a server over store. A nil responder uses ReflectiveResponder.
func New(store *Store, responder Responder) *Server {
	if responder == nil {
		responder = ReflectiveResponder{}
	}
	s := &Server{
		store:     store,
		responder: responder,
		log:       logger.WithComponent("devserver"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/api/get_session", s.newSession)
	router.GET("/api/conversations", s.listConversations)
	router.GET("/api/conversations/:id", s.history)
	router.DELETE("/api/conversations/:id", s.deleteConversation)
	router.POST("/api/ask", s.ask)

	s.router = router
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dev server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func (s *Server) newSession(c *gin.Context) {
	id, err := s.store.CreateConversation(c.Request.Context())
	if err != nil {
		s.log.Error("create conversation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.SessionResponse{Success: false, Error: "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, api.SessionResponse{Success: true, SessionID: id})
}

func (s *Server) listConversations(c *gin.Context) {
	conversations, err := s.store.ListConversations(c.Request.Context())
	if err != nil {
		s.log.Error("list conversations failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, api.ConversationsResponse{Success: true, Conversations: &conversations})
}

// history answers 200 with success=false for an unknown id; clients treat
// that as "no history" rather than a transport failure.
func (s *Server) history(c *gin.Context) {
	history, ok, err := s.store.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.log.Error("load history failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.HistoryResponse{Success: false, Error: "failed to load history"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, api.HistoryResponse{Success: false, Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, api.HistoryResponse{Success: true, History: history})
}

func (s *Server) deleteConversation(c *gin.Context) {
	deleted, err := s.store.DeleteConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.log.Error("delete conversation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.StatusResponse{Success: false, Error: "failed to delete conversation"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, api.StatusResponse{Success: false, Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, api.StatusResponse{Success: true})
}

func (s *Server) ask(c *gin.Context) {
	var req api.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and session_id are required"})
		return
	}

	ctx := c.Request.Context()
	history, _, err := s.store.History(ctx, req.SessionID)
	if err != nil {
		s.log.Error("load history failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	answer, err := s.responder.Respond(ctx, req.Question, history)
	if err != nil {
		s.log.Error("responder failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate answer"})
		return
	}

	if err := s.store.AppendExchange(ctx, req.SessionID, req.Question, answer); err != nil {
		s.log.Error("store exchange failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store exchange"})
		return
	}

	logger.WithSession(req.SessionID).Debug("answered", "question_len", len(req.Question))
	c.JSON(http.StatusOK, api.AskResponse{Answer: answer})
}
