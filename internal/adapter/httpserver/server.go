package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/freight/internal/adapter/metrics"
	"github.com/pscheid92/freight/internal/app"
	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/platform/config"
)

type appService interface {
	GetApp(ctx context.Context, appID int64) (*app.AppView, error)
	UpdateApp(ctx context.Context, appID int64, update domain.AppUpdate) (*app.AppView, error)
	DeleteApp(ctx context.Context, appID int64) (string, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	healthChecks []HealthCheck
	startTime    time.Time

	httpMetrics    *metrics.HTTPMetrics
	appMetrics     *metrics.AppMetrics
	metricsHandler http.Handler
}

type Option func(*Server)

// WithMetrics registers HTTP and app metrics on reg and serves reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.httpMetrics = metrics.NewHTTPMetrics(reg)
		s.appMetrics = metrics.NewAppMetrics(reg)
		s.metricsHandler = metrics.Handler(reg)
	}
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	e.HTTPErrorHandler = srv.handleHTTPError
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
