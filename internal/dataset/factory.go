package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"immichart/internal/storage"
)

// SourceType names where the table is read from.
type SourceType string

const (
	CSVSourceType    SourceType = "csv"
	XLSXSourceType   SourceType = "xlsx"
	SheetsSourceType SourceType = "sheets"
	SQLiteSourceType SourceType = "sqlite"
)

func (st SourceType) String() string { return string(st) }

// IsValid returns true if the source type is known.
func (st SourceType) IsValid() bool {
	switch st {
	case CSVSourceType, XLSXSourceType, SheetsSourceType, SQLiteSourceType:
		return true
	default:
		return false
	}
}

// SourceConfig carries the settings of every source type; only the fields of
// the selected Type are read.
type SourceConfig struct {
	Type SourceType

	// csv and xlsx
	Path  string
	Sheet string

	// sqlite
	SQLiteDBPath string

	// sheets
	SpreadsheetID string
	SheetRange    string
	Credentials   Credentials
}

// Validate checks that the selected source has what it needs.
func (c SourceConfig) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid data source type: %q", c.Type)
	}
	switch c.Type {
	case CSVSourceType, XLSXSourceType:
		if strings.TrimSpace(c.Path) == "" {
			return fmt.Errorf("data path is required for %s source", c.Type)
		}
	case SQLiteSourceType:
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			return fmt.Errorf("SQLite database path is required for sqlite source")
		}
	case SheetsSourceType:
		if strings.TrimSpace(c.SpreadsheetID) == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets source")
		}
	}
	return nil
}

// CleanupFunc releases what a source holds open.
type CleanupFunc func() error

// Result is the created source plus its optional cleanup.
type Result struct {
	Source  Source
	Cleanup CleanupFunc
}

// NewSource builds the source selected by cfg.Type.
func NewSource(ctx context.Context, cfg SourceConfig, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case CSVSourceType:
		logger.Info("Using CSV data source", "path", cfg.Path)
		return &Result{Source: CSVSource{Path: cfg.Path}}, nil
	case XLSXSourceType:
		logger.Info("Using XLSX data source", "path", cfg.Path, "sheet", cfg.Sheet)
		return &Result{Source: XLSXSource{Path: cfg.Path, Sheet: cfg.Sheet}}, nil
	case SQLiteSourceType:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Using SQLite data source", "db_path", cfg.SQLiteDBPath)
		return &Result{Source: &SQLiteSource{repo: repo, path: cfg.SQLiteDBPath}, Cleanup: repo.Close}, nil
	case SheetsSourceType:
		src, err := NewSheetsSource(ctx, cfg.SpreadsheetID, cfg.SheetRange, cfg.Credentials, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
		}
		logger.Info("Using Google Sheets data source", "spreadsheet_id", cfg.SpreadsheetID, "range", src.readRange)
		return &Result{Source: src}, nil
	default:
		return nil, fmt.Errorf("unsupported data source type: %s", cfg.Type)
	}
}

// SQLiteSource reads the imported observations table.
type SQLiteSource struct {
	repo *storage.SQLiteRepository
	path string
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.path }

func (s *SQLiteSource) Table(ctx context.Context) ([]string, [][]string, error) {
	return s.repo.Table(ctx)
}
