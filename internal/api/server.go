package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"spotgateway/internal/config"
	"spotgateway/internal/metrics"
)

// Server is the HTTP front of the gateway
type Server struct {
	cfg        config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer wires middleware and routes and returns a server ready to
// Start
func NewServer(cfg config.ServerConfig, h *Handlers, collector *metrics.Collector, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.CORSOrigins))
	router.Use(LoggerMiddleware(logger))
	router.Use(metrics.Middleware(collector))

	s := &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
	}
	s.setupRoutes(h)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/health", h.Health)
	s.router.GET("/metrics", h.Metrics)

	ordersGroup := s.router.Group("/orders")
	{
		ordersGroup.GET("/test", h.TestCredentials)
		ordersGroup.POST("/create", h.CreateOrder)
		ordersGroup.DELETE("/cancel", h.CancelOrder)
	}

	s.router.POST("/account/balance", h.Balance)
}

// Start blocks serving HTTP until the server is shut down
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
