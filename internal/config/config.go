package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT           string
	LOG_FILE_PATH      string
	LOG_LEVEL          string
	SHUTDOWN_TIMEOUT   time.Duration
	CORS_ALLOW_ORIGINS string

	// DB_DRIVER is "postgres" or "sqlite".
	DB_DRIVER            string
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration
	DB_SQLITE_PATH       string

	// TASK_STORE is "sql" (gorm) or "datastore" (Google Cloud Datastore).
	TASK_STORE     string
	GCP_PROJECT_ID string

	DISPLAY_TIMEZONE   string
	EXPORT_LAYOUT_PATH string
}

// DefaultEnvConfig is populated by LoadEnvConfig.
var DefaultEnvConfig = envConfig{}

// LoadEnvConfig reads .env (if present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := envConfig{
		APP_PORT:           getString("APP_PORT", "8080"),
		LOG_FILE_PATH:      getString("LOG_FILE_PATH", ""),
		LOG_LEVEL:          getString("LOG_LEVEL", "info"),
		CORS_ALLOW_ORIGINS: getString("CORS_ALLOW_ORIGINS", "*"),

		DB_DRIVER:      getString("DB_DRIVER", "postgres"),
		DB_HOST:        getString("DB_HOST", "localhost"),
		DB_USER:        getString("DB_USER", "postgres"),
		DB_PASSWORD:    getString("DB_PASSWORD", "postgres"),
		DB_NAME:        getString("DB_NAME", "tasksdb"),
		DB_SSL_MODE:    getString("DB_SSL_MODE", "disable"),
		DB_SQLITE_PATH: getString("DB_SQLITE_PATH", "tasks.db"),

		TASK_STORE:     getString("TASK_STORE", "sql"),
		GCP_PROJECT_ID: getString("GCP_PROJECT_ID", ""),

		DISPLAY_TIMEZONE:   getString("DISPLAY_TIMEZONE", "America/Sao_Paulo"),
		EXPORT_LAYOUT_PATH: getString("EXPORT_LAYOUT_PATH", ""),
	}

	var err error
	if cfg.DB_PORT, err = getInt("DB_PORT", 5432); err != nil {
		return err
	}
	if cfg.DB_MAX_OPEN_CONNS, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return err
	}
	if cfg.DB_MAX_IDLE_CONNS, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	if cfg.DB_CONN_MAX_LIFETIME, err = getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return err
	}
	if cfg.SHUTDOWN_TIMEOUT, err = getDuration("SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}

	switch cfg.DB_DRIVER {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB_DRIVER)
	}
	switch cfg.TASK_STORE {
	case "sql":
	case "datastore":
		if cfg.GCP_PROJECT_ID == "" {
			return errors.New("GCP_PROJECT_ID is required when TASK_STORE=datastore")
		}
	default:
		return fmt.Errorf("unsupported TASK_STORE %q", cfg.TASK_STORE)
	}
	if _, err := time.LoadLocation(cfg.DISPLAY_TIMEZONE); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", cfg.DISPLAY_TIMEZONE, err)
	}

	DefaultEnvConfig = cfg
	return nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
