// Package http provides the ops HTTP server: health, readiness and metrics.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	envelopeUseCase "github.com/stockdesk/frontend/internal/envelope/usecase"
	"github.com/stockdesk/frontend/internal/metrics"
)

// readinessProbe is round-tripped through the envelope use case on /ready.
const readinessProbe = "ready"

// Server is the ops HTTP server. It never serves envelope operations to clients.
type Server struct {
	server          *http.Server
	router          *gin.Engine
	logger          *slog.Logger
	envelope        envelopeUseCase.EnvelopeUseCase
	metricsProvider *metrics.Provider
}

// NewServer creates the ops server. envelope may be nil, in which case /ready
// reports not_ready. metricsProvider may be nil, in which case /metrics is not
// registered.
func NewServer(
	envelope envelopeUseCase.EnvelopeUseCase,
	metricsProvider *metrics.Provider,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	s := &Server{
		logger:          logger,
		envelope:        envelope,
		metricsProvider: metricsProvider,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
	s.router = s.setupRouter()
	s.server.Handler = s.router
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.metricsProvider.Namespace(),
		))
		router.GET("/metrics", gin.WrapH(s.metricsProvider.Handler()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	return router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting ops server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start ops server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the ops server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down ops server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready once an envelope round trip succeeds, which
// proves the key is loaded and the cipher works.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx := c.Request.Context()
	envelopeStatus := "ok"

	if s.envelope == nil {
		envelopeStatus = "error"
	} else if err := s.probeEnvelope(ctx); err != nil {
		s.logger.Warn("envelope readiness probe failed", slog.Any("error", err))
		envelopeStatus = "error"
	}

	components := gin.H{"envelope": envelopeStatus}
	if envelopeStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

func (s *Server) probeEnvelope(ctx context.Context) error {
	env, err := s.envelope.Encode(ctx, readinessProbe)
	if err != nil {
		return err
	}
	text, err := s.envelope.DecodeText(ctx, env)
	if err != nil {
		return err
	}
	if text != readinessProbe {
		return fmt.Errorf("probe round trip returned %q", text)
	}
	return nil
}
