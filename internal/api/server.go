// Package api provides the read-only REST API for forge: current
// status, historical buckets, and a manual reload trigger, consumed by
// the dashboard adapter.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/forge/internal/api/handlers"
	"github.com/jroosing/forge/internal/api/middleware"
	"github.com/jroosing/forge/internal/eventsink"
	"github.com/jroosing/forge/internal/statusmap"
	"github.com/jroosing/forge/internal/supervisor"
)

// Server is the read API's HTTP server.
type Server struct {
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a Server bound to addr, backed by the supervisor's shared
// status map and event sink.
func New(addr string, status *statusmap.Map, sink eventsink.Sink, sup *supervisor.Supervisor, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(status, sink, sup, logger)
	registerRoutes(engine, h)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{logger: logger, engine: engine, httpServer: httpServer}
}

// Addr returns the server's configured bind address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe blocks serving the read API until it is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
