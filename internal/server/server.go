// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search engine over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/metrics"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Default timeouts.
const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	router          *gin.Engine
	server          *http.Server
	log             logger.Logger
	shutdownTimeout time.Duration
}

// New builds the router and HTTP server. m may be nil, in which case
// /metrics is not served.
func New(cfg types.ServerConfig, h *Handler, m *metrics.Metrics, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(recovery(log))
	router.Use(requestID(log))
	router.Use(requestLogger(log))
	Routes(router, h, m)

	port := cfg.Port
	if port == 0 {
		port = 10000
	}
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Handler:      router,
		ReadTimeout:  orDuration(cfg.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDuration(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:  defaultIdleTimeout,
	}

	return &Server{
		router:          router,
		server:          srv,
		log:             log,
		shutdownTimeout: orDuration(cfg.ShutdownTimeout, defaultShutdownTimeout),
	}
}

// Routes registers every endpoint on router.
func Routes(router *gin.Engine, h *Handler, m *metrics.Metrics) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/search", h.Search)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/search", h.Search)
		v1.POST("/search", h.Search)
		v1.GET("/periods", h.Periods)
		v1.GET("/history", h.History)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, newError("no route for "+c.Request.Method+" "+c.Request.URL.Path, CodeNotFound))
	})
}

// Router returns the gin engine.
func (s *Server) Router() *gin.Engine { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
			logger.Duration("read_timeout", s.server.ReadTimeout),
			logger.Duration("write_timeout", s.server.WriteTimeout),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server", logger.Duration("timeout", s.shutdownTimeout))
	}

	// ctx is already done; shutdown needs its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return <-errCh
}

func orDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
