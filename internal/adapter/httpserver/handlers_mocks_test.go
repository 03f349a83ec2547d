package httpserver

import (
	"context"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/freight/internal/app"
	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/platform/config"
)

type mockAppService struct {
	getAppFn    func(ctx context.Context, appID int64) (*app.AppView, error)
	updateAppFn func(ctx context.Context, appID int64, update domain.AppUpdate) (*app.AppView, error)
	deleteAppFn func(ctx context.Context, appID int64) (string, error)
}

func (m *mockAppService) GetApp(ctx context.Context, appID int64) (*app.AppView, error) {
	if m.getAppFn != nil {
		return m.getAppFn(ctx, appID)
	}
	return nil, domain.ErrAppNotFound
}

func (m *mockAppService) UpdateApp(ctx context.Context, appID int64, update domain.AppUpdate) (*app.AppView, error) {
	if m.updateAppFn != nil {
		return m.updateAppFn(ctx, appID, update)
	}
	return nil, domain.ErrAppNotFound
}

func (m *mockAppService) DeleteApp(ctx context.Context, appID int64) (string, error) {
	if m.deleteAppFn != nil {
		return m.deleteAppFn(ctx, appID)
	}
	return "", domain.ErrAppNotFound
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...Option) *Server {
	t.Helper()

	cfg := &config.Config{Port: "0", APIRateLimit: 1000, APIRateBurst: 1000}
	return NewServer(cfg, app, nil, opts...)
}

func withHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}
