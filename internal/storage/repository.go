// Package storage keeps imported monthly observations in SQLite so the chart
// can be served from a database instead of a flat file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"immichart/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceObservations swaps the whole table for records in one transaction.
// Record order is kept through row_index.
func (r *SQLiteRepository) ReplaceObservations(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations`); err != nil {
		return fmt.Errorf("clear observations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (row_index, month, category, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		for _, c := range core.Categories {
			if _, err := stmt.ExecContext(ctx, i, rec.Month, string(c), rec.Value(c)); err != nil {
				return fmt.Errorf("insert %s/%s: %w", rec.Month, c, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Observations replaced", "records", len(records))
	return nil
}

// Table pivots the observations back into the wide layout: a header of Month
// plus the categories, then one row per imported record.
func (r *SQLiteRepository) Table(ctx context.Context) ([]string, [][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_index, month, category, value FROM observations ORDER BY row_index`)
	if err != nil {
		return nil, nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	header := make([]string, 0, len(core.Categories)+1)
	header = append(header, core.MonthColumn)
	col := make(map[string]int, len(core.Categories))
	for i, c := range core.Categories {
		header = append(header, string(c))
		col[string(c)] = i + 1
	}

	var (
		out  [][]string
		last = int64(-1)
	)
	for rows.Next() {
		var (
			idx      int64
			month    string
			category string
			value    float64
		)
		if err := rows.Scan(&idx, &month, &category, &value); err != nil {
			return nil, nil, fmt.Errorf("scan observation: %w", err)
		}
		if idx != last {
			row := make([]string, len(header))
			row[0] = month
			out = append(out, row)
			last = idx
		}
		if i, ok := col[category]; ok {
			out[len(out)-1][i] = strconv.FormatFloat(value, 'f', -1, 64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate observations: %w", err)
	}
	return header, out, nil
}

// Count returns the number of imported records (not cells).
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT row_index) FROM observations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}
