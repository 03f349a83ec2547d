package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"5000"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// PluginCatalog is an optional YAML file with plugins registered on top of the built-ins.
	PluginCatalog string `env:"PLUGIN_CATALOG"`
	TaskQueue     string `env:"TASK_QUEUE" default:"freight:tasks"`

	APIRateLimit float64 `env:"API_RATE_LIMIT" default:"10"`
	APIRateBurst int     `env:"API_RATE_BURST" default:"20"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	for _, req := range []struct{ name, value string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
	} {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}

	if _, err := url.Parse(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if cfg.TaskQueue == "" {
		return errors.New("TASK_QUEUE must not be empty")
	}
	if cfg.APIRateLimit <= 0 {
		return errors.New("API_RATE_LIMIT must be positive")
	}
	if cfg.APIRateBurst < 1 {
		return errors.New("API_RATE_BURST must be at least 1")
	}

	return nil
}
