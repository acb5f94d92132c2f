// Package http provides the HTTP server, its router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readinessTimeout bounds each readiness check.
const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	checks map[string]ReadinessCheck
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database is always part of readiness; db may
// be nil in tests, which reports not ready.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		server: newStdServer(host, port, nil),
		checks: make(map[string]ReadinessCheck),
		logger: logger,
	}
}

// newStdServer holds the timeouts shared by the API and metrics listeners.
func newStdServer(host string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// AddReadinessCheck registers an extra dependency for GET /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// Start serves until Shutdown is called. SetupRouter must have been called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := make(map[string]string, len(s.checks)+1)

	check := func(name string, fn ReadinessCheck) {
		if err := fn(ctx); err != nil {
			s.logger.WarnContext(ctx, "readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			return
		}
		components[name] = "ok"
	}

	check("database", func(ctx context.Context) error {
		if s.db == nil {
			return fmt.Errorf("database not configured")
		}
		return s.db.PingContext(ctx)
	})
	for name, fn := range s.checks {
		check(name, fn)
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
