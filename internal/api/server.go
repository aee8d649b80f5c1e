package api

import (
	"context"
	"net/http"
	"time"

	"github.com/cryptrend/analytics/internal/api/handlers"
	"github.com/cryptrend/analytics/internal/api/middleware"
	"github.com/cryptrend/analytics/internal/query"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// DefaultServerConfig returns default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Server is the query API server.
type Server struct {
	config *ServerConfig
	echo   *echo.Echo
}

// NewServer creates a new API server wired to store for both query
// resolution and query logging.
func NewServer(config *ServerConfig, store query.Store) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	server := &Server{config: config, echo: e}
	server.setupMiddleware()
	server.setupRoutes(store)

	return server
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(middleware.Logger())
	s.echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: s.config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	s.echo.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	s.echo.Use(echoMiddleware.Gzip())
}

func (s *Server) setupRoutes(store query.Store) {
	interpreter := query.NewInterpreter(store, nil)
	queryHandler := handlers.NewQueryHandler(interpreter, store)

	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	v1 := s.echo.Group("/api/v1")
	v1.POST("/query", queryHandler.HandleQuery)
}

// Start starts the server.
func (s *Server) Start() error {
	log.Info().Str("port", s.config.Port).Msg("starting query API server")
	return s.echo.Start(s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	log.Info().Msg("shutting down query API server")
	return s.echo.Shutdown(ctx)
}

// GetEcho returns the Echo instance.
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}
