// Package server exposes the orchestrator over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dusk-indust/consilium/internal/journal"
	"github.com/dusk-indust/consilium/internal/orchestrator"
	"github.com/dusk-indust/consilium/internal/specialist"
)

// DefaultHealthTimeout bounds each specialist probe during GET /healthz.
const DefaultHealthTimeout = 5 * time.Second

// Options tunes the server without widening the constructor.
type Options struct {
	// HealthTimeout bounds each specialist probe. Zero uses
	// DefaultHealthTimeout.
	HealthTimeout time.Duration
	// Version is reported by GET /. Empty means "dev".
	Version string
	// Logger receives request and failure logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// Server routes consultation requests to the orchestrator.
type Server struct {
	echo    *echo.Echo
	orch    orchestrator.Orchestrator
	client  specialist.Client
	journal *journal.Journal

	healthTimeout time.Duration
	version       string
	logger        *slog.Logger
}

// New wires the HTTP routes for the given orchestrator. The specialist
// client is used for health probes only; consultations go through orch.
func New(orch orchestrator.Orchestrator, client specialist.Client, jnl *journal.Journal, opts Options) *Server {
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = DefaultHealthTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		echo:          echo.New(),
		orch:          orch,
		client:        client,
		journal:       jnl,
		healthTimeout: opts.HealthTimeout,
		version:       opts.Version,
		logger:        opts.Logger,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())
	s.echo.Use(s.requestLogger())

	s.echo.GET("/", s.handleRoot)
	s.echo.POST("/consult", s.handleConsult)
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/agents", s.handleAgents)
	s.echo.GET("/progress/:id", s.handleProgress)

	return s
}

// Start serves HTTP on addr and blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				s.logger.Warn("request", attrs...)
				return nil
			}
			s.logger.Info("request", attrs...)
			return nil
		},
	})
}
