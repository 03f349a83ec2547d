package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/freight/internal/adapter/postgres/sqlcgen"
	"github.com/pscheid92/freight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestApp(t *testing.T, pool *pgxpool.Pool, name string, data domain.AppData) *domain.App {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	row, err := sqlcgen.New(pool).CreateApp(context.Background(), sqlcgen.CreateAppParams{
		Name:     name,
		Provider: "shell",
		Data:     raw,
	})
	require.NoError(t, err)

	app, err := toDomainApp(row)
	require.NoError(t, err)
	return app
}

func TestGetApp(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()

	created := createTestApp(t, pool, "web", domain.AppData{
		ProviderConfig: map[string]any{"command": "deploy.sh"},
		Checks:         []domain.ConfigEntry{{Type: "github", Config: map[string]any{"repo": "org/web"}}},
	})

	app, err := store.GetApp(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "web", app.Name)
	assert.Equal(t, "shell", app.Provider)
	assert.Zero(t, app.RepositoryID)
	assert.Equal(t, "deploy.sh", app.Data.ProviderConfig["command"])
	require.Len(t, app.Data.Checks, 1)
	assert.Equal(t, "github", app.Data.Checks[0].Type)
	assert.False(t, app.CreatedAt.IsZero())
}

func TestGetApp_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)

	app, err := store.GetApp(context.Background(), 4242)

	assert.ErrorIs(t, err, domain.ErrAppNotFound)
	assert.Nil(t, app)
}

func TestGetRepository_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)

	repo, err := store.GetRepository(context.Background(), 4242)

	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
	assert.Nil(t, repo)
}

func TestInTx_CommitsUpdate(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()
	created := createTestApp(t, pool, "web", domain.AppData{})

	err := store.InTx(ctx, func(tx domain.AppTx) error {
		app, err := tx.GetAppForUpdate(ctx, created.ID)
		if err != nil {
			return err
		}
		repo, err := tx.CreateRepository(ctx, "https://example.com/web.git", domain.DefaultVCS)
		if err != nil {
			return err
		}
		app.Name = "web-renamed"
		app.RepositoryID = repo.ID
		app.Data.Notifiers = []domain.ConfigEntry{{Type: "slack", Config: map[string]any{"webhook_url": "https://hooks"}}}
		return tx.UpdateApp(ctx, app)
	})
	require.NoError(t, err)

	app, err := store.GetApp(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "web-renamed", app.Name)
	require.NotZero(t, app.RepositoryID)
	require.Len(t, app.Data.Notifiers, 1)
	assert.Equal(t, "slack", app.Data.Notifiers[0].Type)

	repo, err := store.GetRepository(ctx, app.RepositoryID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/web.git", repo.URL)
	assert.Equal(t, "git", repo.VCS)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()
	created := createTestApp(t, pool, "web", domain.AppData{})
	boom := errors.New("boom")

	err := store.InTx(ctx, func(tx domain.AppTx) error {
		app, err := tx.GetAppForUpdate(ctx, created.ID)
		if err != nil {
			return err
		}
		if _, err := tx.CreateRepository(ctx, "https://example.com/rollback.git", domain.DefaultVCS); err != nil {
			return err
		}
		app.Name = "changed"
		if err := tx.UpdateApp(ctx, app); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	app, err := store.GetApp(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "web", app.Name)

	err = store.InTx(ctx, func(tx domain.AppTx) error {
		_, err := tx.FindRepositoryByURL(ctx, "https://example.com/rollback.git")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
}

func TestInTx_GetAppForUpdate_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx domain.AppTx) error {
		_, err := tx.GetAppForUpdate(ctx, 4242)
		return err
	})

	assert.ErrorIs(t, err, domain.ErrAppNotFound)
}

func TestUpdateApp_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx domain.AppTx) error {
		return tx.UpdateApp(ctx, &domain.App{ID: 4242, Name: "ghost", Provider: "shell"})
	})

	assert.ErrorIs(t, err, domain.ErrAppNotFound)
}

func TestCreateRepository_ExistingURLReturnsExistingRow(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()
	const url = "https://example.com/shared.git"

	var first, second *domain.Repository
	err := store.InTx(ctx, func(tx domain.AppTx) error {
		var err error
		first, err = tx.CreateRepository(ctx, url, domain.DefaultVCS)
		return err
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx domain.AppTx) error {
		var err error
		second, err = tx.CreateRepository(ctx, url, domain.DefaultVCS)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM repositories WHERE url = $1", url).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestCreateRepository_ConcurrentCreatorsShareRow(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()
	const url = "https://example.com/race.git"
	const workers = 8

	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.InTx(ctx, func(tx domain.AppTx) error {
				repo, err := tx.CreateRepository(ctx, url, domain.DefaultVCS)
				if err != nil {
					return err
				}
				ids[i] = repo.ID
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGetApp_LinkedRepository(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()

	repo, err := sqlcgen.New(pool).InsertRepository(ctx, sqlcgen.InsertRepositoryParams{Url: "https://example.com/a.git", Vcs: "git"})
	require.NoError(t, err)
	row, err := sqlcgen.New(pool).CreateApp(ctx, sqlcgen.CreateAppParams{
		Name:         "linked",
		Provider:     "shell",
		RepositoryID: pgtype.Int8{Int64: repo.ID, Valid: true},
		Data:         []byte(`{}`),
	})
	require.NoError(t, err)

	app, err := store.GetApp(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, repo.ID, app.RepositoryID)
}

func TestListApps_Pages(t *testing.T) {
	pool := setupTestDB(t)
	store := NewAppStore(pool)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		ids = append(ids, createTestApp(t, pool, name, domain.AppData{}).ID)
	}

	first, err := store.ListApps(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[0], first[0].ID)
	assert.Equal(t, ids[1], first[1].ID)

	rest, err := store.ListApps(ctx, first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Name)

	empty, err := store.ListApps(ctx, rest[0].ID, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
