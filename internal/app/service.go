package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/plugin"
)

// AppView is the serialized form of an app returned to API clients.
type AppView struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Repository     string               `json:"repository"`
	Provider       string               `json:"provider"`
	ProviderConfig map[string]any       `json:"provider_config"`
	Notifiers      []domain.ConfigEntry `json:"notifiers"`
	Checks         []domain.ConfigEntry `json:"checks"`
	DateCreated    time.Time            `json:"dateCreated"`
}

type Service struct {
	store     domain.AppStore
	tasks     domain.TaskDispatcher
	providers plugin.Category
	checks    plugin.Category
	notifiers plugin.Category
}

func NewService(store domain.AppStore, tasks domain.TaskDispatcher, providers, checks, notifiers domain.PluginRegistry) *Service {
	return &Service{
		store:     store,
		tasks:     tasks,
		providers: plugin.ProviderCategory(providers),
		checks:    plugin.CheckCategory(checks),
		notifiers: plugin.NotifierCategory(notifiers),
	}
}

// GetApp returns the serialized app.
func (s *Service) GetApp(ctx context.Context, appID int64) (*AppView, error) {
	a, err := s.store.GetApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	repoURL, err := repositoryURL(ctx, s.store, a.RepositoryID)
	if err != nil {
		return nil, err
	}
	return newAppView(a, repoURL), nil
}

// UpdateApp validates the update and applies it in a single transaction. Every field of
// the update is validated before anything is written; a validation error rolls back the
// whole request.
func (s *Service) UpdateApp(ctx context.Context, appID int64, update domain.AppUpdate) (*AppView, error) {
	var view *AppView

	err := s.store.InTx(ctx, func(tx domain.AppTx) error {
		a, err := tx.GetAppForUpdate(ctx, appID)
		if err != nil {
			return err
		}

		if err := s.apply(a, update); err != nil {
			return err
		}

		if update.Repository != nil && *update.Repository != "" {
			repo, err := findOrCreateRepository(ctx, tx, *update.Repository)
			if err != nil {
				return err
			}
			a.RepositoryID = repo.ID
		}

		if err := tx.UpdateApp(ctx, a); err != nil {
			return err
		}

		repoURL, err := repositoryURL(ctx, tx, a.RepositoryID)
		if err != nil {
			return err
		}
		view = newAppView(a, repoURL)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "App updated", "app_id", appID, "provider", view.Provider)
	return view, nil
}

// apply validates every field of update and merges it into a. On error a may be
// partially modified and must be discarded.
func (s *Service) apply(a *domain.App, update domain.AppUpdate) error {
	providerChanged := update.Provider != nil && *update.Provider != ""

	if providerChanged || update.ProviderConfig != nil {
		providerType := a.Provider
		if providerChanged {
			providerType = *update.Provider
		}

		desc, err := s.providers.Resolve(providerType)
		if err != nil {
			return err
		}

		config := a.Data.ProviderConfig
		if update.ProviderConfig != nil {
			config = update.ProviderConfig
		}

		entry, err := s.providers.NormalizeWith(desc, config)
		if err != nil {
			return err
		}
		a.Provider = providerType
		a.Data.ProviderConfig = entry.Config
	}

	if update.Notifiers != nil {
		notifiers, err := s.notifiers.ValidateList(update.Notifiers)
		if err != nil {
			return err
		}
		a.Data.Notifiers = notifiers
	}

	if update.Checks != nil {
		checks, err := s.checks.ValidateList(update.Checks)
		if err != nil {
			return err
		}
		a.Data.Checks = checks
	}

	if update.Name != nil && *update.Name != "" {
		a.Name = *update.Name
	}

	return nil
}

// DeleteApp schedules the asynchronous deletion of an app and returns its id.
func (s *Service) DeleteApp(ctx context.Context, appID int64) (string, error) {
	a, err := s.store.GetApp(ctx, appID)
	if err != nil {
		return "", err
	}

	kwargs := map[string]any{"model": "App", "app_id": a.ID}
	if err := s.tasks.Send(ctx, domain.TaskDeleteObject, kwargs); err != nil {
		return "", fmt.Errorf("failed to enqueue app deletion: %w", err)
	}

	slog.InfoContext(ctx, "App deletion scheduled", "app_id", a.ID)
	return strconv.FormatInt(a.ID, 10), nil
}

func findOrCreateRepository(ctx context.Context, tx domain.AppTx, url string) (*domain.Repository, error) {
	repo, err := tx.FindRepositoryByURL(ctx, url)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, domain.ErrRepositoryNotFound) {
		return nil, err
	}

	repo, err = tx.CreateRepository(ctx, url, domain.DefaultVCS)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Repository created", "repository_id", repo.ID, "url", url)
	return repo, nil
}

type repositoryGetter interface {
	GetRepository(ctx context.Context, repositoryID int64) (*domain.Repository, error)
}

func repositoryURL(ctx context.Context, repos repositoryGetter, repositoryID int64) (string, error) {
	if repositoryID == 0 {
		return "", nil
	}
	repo, err := repos.GetRepository(ctx, repositoryID)
	if errors.Is(err, domain.ErrRepositoryNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return repo.URL, nil
}

func newAppView(a *domain.App, repoURL string) *AppView {
	notifiers := a.Data.Notifiers
	if notifiers == nil {
		notifiers = []domain.ConfigEntry{}
	}
	checks := a.Data.Checks
	if checks == nil {
		checks = []domain.ConfigEntry{}
	}
	providerConfig := a.Data.ProviderConfig
	if providerConfig == nil {
		providerConfig = map[string]any{}
	}

	return &AppView{
		ID:             strconv.FormatInt(a.ID, 10),
		Name:           a.Name,
		Repository:     repoURL,
		Provider:       a.Provider,
		ProviderConfig: providerConfig,
		Notifiers:      notifiers,
		Checks:         checks,
		DateCreated:    a.CreatedAt,
	}
}
