package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr string

	DatabaseURL     string
	DatabaseDriver  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Completion Completion

	LogLevel  string
	LogFormat string
}

// Completion configures the external chat completion service used by /api/recommend.
type Completion struct {
	Provider   string
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// CompletionConfigured reports whether every option the recommend path needs is set.
func (c Config) CompletionConfigured() bool {
	return c.Completion.Endpoint != "" && c.Completion.APIKey != "" && c.Completion.Deployment != ""
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:           getenv("BIKE_SHOP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: getenv("DATABASE_DRIVER", "pgx"),
		Completion: Completion{
			Provider:   getenv("COMPLETION_PROVIDER", ProviderAzure),
			Endpoint:   os.Getenv("COMPLETION_ENDPOINT"),
			APIKey:     os.Getenv("COMPLETION_API_KEY"),
			Deployment: os.Getenv("COMPLETION_DEPLOYMENT"),
			APIVersion: getenv("COMPLETION_API_VERSION", "2024-02-15-preview"),
		},
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.MaxOpenConns, err = intEnv("DATABASE_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxIdleConns, err = intEnv("DATABASE_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.ConnMaxLifetime, err = durationEnv("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Completion.Timeout, err = durationEnv("COMPLETION_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	switch cfg.DatabaseDriver {
	case "pgx", "postgres":
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER must be pgx or postgres, got %q", cfg.DatabaseDriver)
	}
	switch cfg.Completion.Provider {
	case ProviderAzure, ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("COMPLETION_PROVIDER must be %s or %s, got %q", ProviderAzure, ProviderOpenAI, cfg.Completion.Provider)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration, got %q", key, v)
	}
	return d, nil
}
