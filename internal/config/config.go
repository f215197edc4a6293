package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/eonil4/kingdom-clash-planner-sub000/internal/history"
)

const (
	EnvAddr        = "PLANNER_ADDR"
	EnvCatalog     = "PLANNER_CATALOG"
	EnvHistorySize = "PLANNER_HISTORY_SIZE"
	EnvLogLevel    = "PLANNER_LOG_LEVEL"
	EnvDatabaseURL = "PLANNER_DATABASE_URL"
	EnvSQLitePath  = "PLANNER_SQLITE_PATH"
)

type Config struct {
	Addr        string
	CatalogPath string // empty means the embedded catalog
	HistorySize int
	LogLevel    zapcore.Level
	DatabaseURL string
	SQLitePath  string
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		HistorySize: history.DefaultMaxSize,
		LogLevel:    zapcore.InfoLevel,
	}
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment, then builds a Config from it. Missing dotenv files
// are fine; variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and reports every bad value at once.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs error

	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		cfg.Addr = v
	}
	cfg.CatalogPath = strings.TrimSpace(getenv(EnvCatalog))
	cfg.DatabaseURL = strings.TrimSpace(getenv(EnvDatabaseURL))
	cfg.SQLitePath = strings.TrimSpace(getenv(EnvSQLitePath))

	if v := strings.TrimSpace(getenv(EnvHistorySize)); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvHistorySize, err))
		case n <= 0:
			errs = multierr.Append(errs, fmt.Errorf("%s: must be positive, got %d", EnvHistorySize, n))
		default:
			cfg.HistorySize = n
		}
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = lvl
		}
	}
	if cfg.DatabaseURL != "" && cfg.SQLitePath != "" {
		errs = multierr.Append(errs, fmt.Errorf("%s and %s are mutually exclusive", EnvDatabaseURL, EnvSQLitePath))
	}

	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}
