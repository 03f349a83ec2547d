package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/plugin"
)

// AppLister pages through stored apps in id order.
type AppLister interface {
	ListApps(ctx context.Context, afterID int64, limit int32) ([]*domain.App, error)
}

type AuditFailure struct {
	AppID int64
	Name  string
	Err   *plugin.ValidationError
}

type AuditReport struct {
	Scanned  int
	Failures []AuditFailure
}

// Auditor re-validates stored app configuration against the current plugin registries.
// Stored configs can go stale when a catalog drops a plugin or makes an option required.
type Auditor struct {
	providers plugin.Category
	checks    plugin.Category
	notifiers plugin.Category
}

func NewAuditor(providers, checks, notifiers domain.PluginRegistry) *Auditor {
	return &Auditor{
		providers: plugin.ProviderCategory(providers),
		checks:    plugin.CheckCategory(checks),
		notifiers: plugin.NotifierCategory(notifiers),
	}
}

// Audit reports the first validation error of a, in the order an update would check them.
func (a *Auditor) Audit(app *domain.App) error {
	if _, err := a.providers.Normalize(app.Provider, app.Data.ProviderConfig); err != nil {
		return err
	}
	if _, err := a.notifiers.ValidateList(app.Data.Notifiers); err != nil {
		return err
	}
	if _, err := a.checks.ValidateList(app.Data.Checks); err != nil {
		return err
	}
	return nil
}

// Run audits every app returned by lister. Validation failures are collected in the
// report; any other error aborts the run.
func (a *Auditor) Run(ctx context.Context, lister AppLister, pageSize int32) (AuditReport, error) {
	var report AuditReport
	if pageSize < 1 {
		return report, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	var cursor int64
	for {
		apps, err := lister.ListApps(ctx, cursor, pageSize)
		if err != nil {
			return report, err
		}

		for _, app := range apps {
			report.Scanned++
			err := a.Audit(app)
			if err == nil {
				continue
			}

			var verr *plugin.ValidationError
			if !errors.As(err, &verr) {
				return report, fmt.Errorf("failed to audit app %d: %w", app.ID, err)
			}
			slog.DebugContext(ctx, "Stored app config is invalid", "app_id", app.ID, "name", app.Name, "error", verr.Name)
			report.Failures = append(report.Failures, AuditFailure{AppID: app.ID, Name: app.Name, Err: verr})
		}

		if len(apps) < int(pageSize) {
			return report, nil
		}
		cursor = apps[len(apps)-1].ID
	}
}
