// Package dataset loads the wide monthly table (Month plus one column per
// category) from a configured source and turns it into calendar-ordered records.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"immichart/internal/core"
)

// ErrDataLoad marks every failure to fetch or parse the dataset.
var ErrDataLoad = errors.New("data load failure")

// LoadError wraps the cause of a failed load with the source it came from.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load data from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrDataLoad, e.Err}
}

// Source yields the raw table: a header row and the data rows below it.
type Source interface {
	Name() string
	Table(ctx context.Context) (header []string, rows [][]string, err error)
}

// Loader fetches once from its source and normalises the table.
type Loader struct {
	source Source
	logger *slog.Logger
}

func NewLoader(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Load returns the records in calendar order. Any error is a *LoadError.
func (l *Loader) Load(ctx context.Context) ([]core.Record, error) {
	header, rows, err := l.source.Table(ctx)
	if err != nil {
		return nil, &LoadError{Source: l.source.Name(), Err: err}
	}
	records, err := Normalize(header, rows)
	if err != nil {
		return nil, &LoadError{Source: l.source.Name(), Err: err}
	}
	l.logger.InfoContext(ctx, "Dataset loaded",
		"source", l.source.Name(),
		"rows", len(rows),
		"records", len(records),
		"dropped", len(rows)-len(records))
	return records, nil
}

// Normalize maps columns by header name, drops rows whose Month is not one of
// the twelve labels and stable-sorts the rest into calendar order. Category
// cells that are missing, non-numeric or negative become 0; a missing category
// column reads as all zeros.
func Normalize(header []string, rows [][]string) ([]core.Record, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	monthCol, ok := cols[core.MonthColumn]
	if !ok {
		return nil, fmt.Errorf("missing %q column; got headers=%v", core.MonthColumn, header)
	}

	type indexed struct {
		pos int
		rec core.Record
	}
	kept := make([]indexed, 0, len(rows))
	for _, row := range rows {
		month := strings.TrimSpace(safeGet(row, monthCol))
		pos, ok := core.MonthIndex(month)
		if !ok {
			continue
		}
		rec := core.Record{Month: month, Values: make(map[core.Category]float64, len(core.Categories))}
		for _, c := range core.Categories {
			if i, ok := cols[string(c)]; ok {
				rec.Values[c] = Coerce(safeGet(row, i))
			} else {
				rec.Values[c] = 0
			}
		}
		kept = append(kept, indexed{pos: pos, rec: rec})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].pos < kept[j].pos })

	out := make([]core.Record, len(kept))
	for i, k := range kept {
		out[i] = k.rec
	}
	return out, nil
}

// Coerce parses a count cell leniently: anything unusable is 0.
func Coerce(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func safeGet(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

func splitTable(name string, table [][]string) ([]string, [][]string, error) {
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%s: empty table", name)
	}
	return table[0], table[1:], nil
}
