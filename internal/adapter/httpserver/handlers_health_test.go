package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, &mockAppService{},
		withHealthChecks(HealthCheck{Name: "postgres", Check: healthErr("down")}),
	)

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "liveness ignores dependency checks")
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"uptime"`)
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantFailed string
		wantError  string
	}{
		{
			name:       "all healthy",
			checks:     []HealthCheck{{Name: "postgres", Check: healthOK}, {Name: "redis", Check: healthOK}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "postgres down",
			checks:     []HealthCheck{{Name: "postgres", Check: healthErr("database unreachable")}, {Name: "redis", Check: healthOK}},
			wantStatus: http.StatusServiceUnavailable,
			wantFailed: "postgres",
			wantError:  "database unreachable",
		},
		{
			name:       "redis down",
			checks:     []HealthCheck{{Name: "postgres", Check: healthOK}, {Name: "redis", Check: healthErr("connection refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantFailed: "redis",
			wantError:  "connection refused",
		},
		{
			name:       "first failure wins",
			checks:     []HealthCheck{{Name: "postgres", Check: healthErr("a")}, {Name: "redis", Check: healthErr("b")}},
			wantStatus: http.StatusServiceUnavailable,
			wantFailed: "postgres",
			wantError:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &mockAppService{}, withHealthChecks(tt.checks...))

			rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantFailed == "" {
				assert.JSONEq(t, `{"status":"ready","checks":["postgres","redis"]}`, rec.Body.String())
				return
			}
			assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
			assert.Contains(t, rec.Body.String(), `"failed_check":"`+tt.wantFailed+`"`)
			assert.Contains(t, rec.Body.String(), `"error":"`+tt.wantError+`"`)
		})
	}
}

func TestHandleStartup(t *testing.T) {
	srv := newTestServer(t, &mockAppService{},
		withHealthChecks(HealthCheck{Name: "redis", Check: healthOK}),
	)

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/health/startup", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":["redis"]}`, rec.Body.String())
}

func TestHandleReadiness_NoChecks(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":[]}`, rec.Body.String())
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"version"`)
	assert.Contains(t, body, `"commit"`)
	assert.Contains(t, body, `"build_time"`)
	assert.Contains(t, body, `"go_version"`)
}
