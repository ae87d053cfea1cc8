package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"immichart/internal/chart"
	"immichart/internal/core"
	"immichart/internal/render"
)

// ChartSettings is the optional chart layout file. Omitted keys keep their defaults.
type ChartSettings struct {
	render.Layout `yaml:",inline"`
	Year          string            `yaml:"year"`
	Palette       map[string]string `yaml:"palette"`
}

// LoadChartSettings reads path, or returns the defaults when path is empty.
func LoadChartSettings(path string) (chart.Options, error) {
	settings := ChartSettings{Layout: render.DefaultLayout(), Year: chart.DefaultYearLabel}
	if path == "" {
		return settings.Options()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return chart.Options{}, fmt.Errorf("read chart layout: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return chart.Options{}, fmt.Errorf("parse chart layout %s: %w", path, err)
	}
	return settings.Options()
}

// Options validates the settings and converts them for chart.New.
func (s ChartSettings) Options() (chart.Options, error) {
	palette := core.DefaultPalette()
	for raw, color := range s.Palette {
		c, err := core.ParseCategory(raw)
		if err != nil {
			return chart.Options{}, fmt.Errorf("palette key %q: %w", raw, err)
		}
		palette[c] = color
	}
	if err := errors.Join(s.Layout.Validate(), palette.Validate()); err != nil {
		return chart.Options{}, fmt.Errorf("invalid chart layout: %w", err)
	}
	return chart.Options{Layout: s.Layout, Palette: palette, YearLabel: s.Year}, nil
}
