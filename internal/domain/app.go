package domain

import (
	"context"
	"time"
)

const DefaultVCS = "git"

// ConfigEntry is a validated plugin configuration as stored on an app.
type ConfigEntry struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// AppData is the nested configuration blob persisted alongside an app.
type AppData struct {
	ProviderConfig map[string]any `json:"provider_config"`
	Notifiers      []ConfigEntry  `json:"notifiers"`
	Checks         []ConfigEntry  `json:"checks"`
}

type App struct {
	ID           int64
	Name         string
	Provider     string
	RepositoryID int64
	Data         AppData
	CreatedAt    time.Time
}

type Repository struct {
	ID        int64
	URL       string
	VCS       string
	CreatedAt time.Time
}

// AppUpdate carries the fields of an update request. A nil field is absent and leaves
// the stored value unchanged.
type AppUpdate struct {
	Name           *string
	Repository     *string
	Provider       *string
	ProviderConfig map[string]any
	Notifiers      []ConfigEntry
	Checks         []ConfigEntry
}

// AppStore abstracts app persistence. InTx runs fn in a single transaction that is
// committed when fn returns nil and rolled back otherwise.
type AppStore interface {
	GetApp(ctx context.Context, appID int64) (*App, error)
	GetRepository(ctx context.Context, repositoryID int64) (*Repository, error)
	InTx(ctx context.Context, fn func(tx AppTx) error) error
}

// AppTx is the set of operations staged inside an AppStore transaction.
type AppTx interface {
	GetAppForUpdate(ctx context.Context, appID int64) (*App, error)
	GetRepository(ctx context.Context, repositoryID int64) (*Repository, error)
	FindRepositoryByURL(ctx context.Context, url string) (*Repository, error)
	CreateRepository(ctx context.Context, url, vcs string) (*Repository, error)
	UpdateApp(ctx context.Context, app *App) error
}
