// Package cli implements chartctl, the offline companion of the chart server:
// static renders, SQLite imports and an event tail.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"immichart/internal/config"
	"immichart/internal/dataset"
	applog "immichart/internal/log"
	"immichart/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger writes to out (stderr for chartctl, so renders can go to stdout).
func SetupLogger(level string, out io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentCLI,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite opens (and migrates) the observations database.
func InitSQLite(logger *applog.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open SQLite %s: %w", dbPath, err)
	}
	logger.Debug("SQLite ready", "db_path", dbPath)
	return repo, nil
}

// fileSource picks the reader for a local file by extension.
func fileSource(path, sheet string) dataset.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataset.XLSXSource{Path: path, Sheet: sheet}
	default:
		return dataset.CSVSource{Path: path}
	}
}
