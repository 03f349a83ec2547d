package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/freight/internal/adapter/postgres/sqlcgen"
	"github.com/pscheid92/freight/internal/domain"
)

// AppStore implements domain.AppStore on PostgreSQL.
type AppStore struct {
	pool *pgxpool.Pool
	q    *sqlcgen.Queries
}

var _ domain.AppStore = (*AppStore)(nil)

func NewAppStore(pool *pgxpool.Pool) *AppStore {
	return &AppStore{
		pool: pool,
		q:    sqlcgen.New(pool),
	}
}

func (s *AppStore) GetApp(ctx context.Context, appID int64) (*domain.App, error) {
	return getApp(ctx, s.q.GetApp, appID)
}

func (s *AppStore) GetRepository(ctx context.Context, repositoryID int64) (*domain.Repository, error) {
	return getRepository(ctx, s.q, repositoryID)
}

// ListApps returns up to limit apps with an id greater than afterID, ordered by id.
func (s *AppStore) ListApps(ctx context.Context, afterID int64, limit int32) ([]*domain.App, error) {
	rows, err := s.q.ListApps(ctx, sqlcgen.ListAppsParams{ID: afterID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	apps := make([]*domain.App, 0, len(rows))
	for _, row := range rows {
		app, err := toDomainApp(row)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// InTx runs fn in a transaction, committing once when fn succeeds.
func (s *AppStore) InTx(ctx context.Context, fn func(tx domain.AppTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&appTx{q: s.q.WithTx(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type appTx struct {
	q *sqlcgen.Queries
}

func (t *appTx) GetAppForUpdate(ctx context.Context, appID int64) (*domain.App, error) {
	return getApp(ctx, t.q.GetAppForUpdate, appID)
}

func (t *appTx) GetRepository(ctx context.Context, repositoryID int64) (*domain.Repository, error) {
	return getRepository(ctx, t.q, repositoryID)
}

func (t *appTx) FindRepositoryByURL(ctx context.Context, url string) (*domain.Repository, error) {
	row, err := t.q.GetRepositoryByURL(ctx, url)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRepositoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository by url: %w", err)
	}
	return &domain.Repository{ID: row.ID, URL: row.Url, VCS: row.Vcs, CreatedAt: row.DateCreated}, nil
}

// CreateRepository inserts a repository. When a concurrent transaction inserted the same
// url first, the existing row is returned instead.
func (t *appTx) CreateRepository(ctx context.Context, url, vcs string) (*domain.Repository, error) {
	row, err := t.q.InsertRepository(ctx, sqlcgen.InsertRepositoryParams{Url: url, Vcs: vcs})
	if errors.Is(err, pgx.ErrNoRows) {
		return t.FindRepositoryByURL(ctx, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert repository: %w", err)
	}
	return &domain.Repository{ID: row.ID, URL: row.Url, VCS: row.Vcs, CreatedAt: row.DateCreated}, nil
}

func (t *appTx) UpdateApp(ctx context.Context, app *domain.App) error {
	data, err := json.Marshal(app.Data)
	if err != nil {
		return fmt.Errorf("failed to encode app data: %w", err)
	}

	tag, err := t.q.UpdateApp(ctx, sqlcgen.UpdateAppParams{
		ID:           app.ID,
		Name:         app.Name,
		Provider:     app.Provider,
		RepositoryID: toInt8(app.RepositoryID),
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAppNotFound
	}
	return nil
}

func getApp(ctx context.Context, query func(context.Context, int64) (sqlcgen.App, error), appID int64) (*domain.App, error) {
	row, err := query(ctx, appID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	return toDomainApp(row)
}

func getRepository(ctx context.Context, q *sqlcgen.Queries, repositoryID int64) (*domain.Repository, error) {
	row, err := q.GetRepository(ctx, repositoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRepositoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &domain.Repository{ID: row.ID, URL: row.Url, VCS: row.Vcs, CreatedAt: row.DateCreated}, nil
}

func toDomainApp(row sqlcgen.App) (*domain.App, error) {
	app := &domain.App{
		ID:        row.ID,
		Name:      row.Name,
		Provider:  row.Provider,
		CreatedAt: row.DateCreated,
	}
	if row.RepositoryID.Valid {
		app.RepositoryID = row.RepositoryID.Int64
	}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &app.Data); err != nil {
			return nil, fmt.Errorf("failed to decode data of app %d: %w", row.ID, err)
		}
	}
	return app, nil
}

func toInt8(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id != 0}
}
