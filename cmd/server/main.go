package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/freight/internal/adapter/httpserver"
	"github.com/pscheid92/freight/internal/adapter/metrics"
	"github.com/pscheid92/freight/internal/adapter/postgres"
	"github.com/pscheid92/freight/internal/adapter/redis"
	"github.com/pscheid92/freight/internal/app"
	"github.com/pscheid92/freight/internal/platform/config"
	"github.com/pscheid92/freight/internal/platform/logging"
	"github.com/pscheid92/freight/internal/platform/version"
	"github.com/pscheid92/freight/internal/plugin"
	goredis "github.com/redis/go-redis/v9"
)

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, postgres.NewMetricsTracer(m))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupPlugins(cfg *config.Config) plugin.Registries {
	regs, err := plugin.NewBuiltinRegistries()
	if err != nil {
		slog.Error("Failed to register built-in plugins", "error", err)
		os.Exit(1)
	}

	if cfg.PluginCatalog != "" {
		n, err := plugin.LoadCatalog(cfg.PluginCatalog, regs)
		if err != nil {
			slog.Error("Failed to load plugin catalog", "path", cfg.PluginCatalog, "error", err)
			os.Exit(1)
		}
		slog.Info("Plugin catalog loaded", "path", cfg.PluginCatalog, "plugins", n)
	}

	slog.Info("Plugins registered",
		"providers", regs.Providers.Types(),
		"checks", regs.Checks.Types(),
		"notifiers", regs.Notifiers.Types(),
	)
	return regs
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	reg := metrics.NewRegistry()

	pool := setupDB(cfg, metrics.NewDBMetrics(reg))
	defer pool.Close()

	redisClient := setupRedis(cfg, metrics.NewRedisMetrics(reg))
	defer func() { _ = redisClient.Close() }()

	regs := setupPlugins(cfg)

	store := postgres.NewAppStore(pool)
	tasks := redis.NewTaskQueue(redisClient, cfg.TaskQueue, redis.WithTaskMetrics(metrics.NewTaskMetrics(reg)))
	appSvc := app.NewService(store, tasks, regs.Providers, regs.Checks, regs.Notifiers)

	healthChecks := []httpserver.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	srv := httpserver.NewServer(cfg, appSvc, healthChecks, httpserver.WithMetrics(reg))

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
