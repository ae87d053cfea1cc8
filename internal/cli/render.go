package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"immichart/internal/chart"
	"immichart/internal/config"
	"immichart/internal/core"
	"immichart/internal/dataset"
	"immichart/internal/export"
	applog "immichart/internal/log"
)

type renderOptions struct {
	input  string
	sheet  string
	format string
	output string
	layout string
	hidden []string
}

func newRenderCommand(a *app) *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart as SVG or PNG",
		Long: `Render draws the chart once, with every category visible unless --hide
names it, and writes it to stdout or --output. Data comes from the configured
source (DATA_SOURCE) or from --input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "CSV or XLSX file (default: configured data source)")
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "Sheet name for XLSX input")
	cmd.Flags().StringVarP(&o.format, "format", "f", "svg", "Output format: svg or png")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&o.layout, "layout", "", "Chart layout YAML (default: CHART_LAYOUT_FILE)")
	cmd.Flags().StringSliceVar(&o.hidden, "hide", nil, "Categories to hide, e.g. --hide Economic,Other")
	return cmd
}

func (a *app) render(ctx context.Context, o renderOptions) error {
	format := strings.ToLower(o.format)
	if format != "svg" && format != "png" {
		return fmt.Errorf("invalid format: %s (must be svg or png)", o.format)
	}
	layout := o.layout
	if layout == "" {
		layout = a.cfg.LayoutFile
	}
	opts, err := config.LoadChartSettings(layout)
	if err != nil {
		return err
	}

	records, err := a.loadRecords(ctx, o.input, o.sheet)
	if err != nil {
		return err
	}

	ctrl := chart.New(records, opts)
	hidden := make(map[core.Category]bool, len(o.hidden))
	for _, raw := range o.hidden {
		k, err := core.ParseCategory(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("--hide: %w", err)
		}
		if hidden[k] {
			continue
		}
		hidden[k] = true
		if _, err := ctrl.Toggle(k); err != nil {
			return err
		}
	}

	if o.output == "" {
		if err := writeChart(a.out, ctrl, format); err != nil {
			return err
		}
	} else if err := writeChartFile(o.output, ctrl, format); err != nil {
		return err
	}

	a.logger.Info("Chart rendered",
		applog.FieldOperation, applog.OpRender,
		applog.FieldRecords, len(records),
		applog.FieldActive, categoryList(ctrl.ActiveCategories()),
		"format", format)
	return nil
}

func writeChart(w io.Writer, ctrl *chart.Controller, format string) error {
	if format == "png" {
		return export.PNG(w, ctrl.Snapshot())
	}
	_, err := io.WriteString(w, ctrl.SVG()+"\n")
	return err
}

// writeChartFile returns the close error as well as the write error.
func writeChartFile(path string, ctrl *chart.Controller, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeChart(f, ctrl, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// loadRecords reads input if given, otherwise the configured source.
func (a *app) loadRecords(ctx context.Context, input, sheet string) ([]core.Record, error) {
	logger := a.logger.WithComponent(applog.ComponentDataset)
	if input != "" {
		return dataset.NewLoader(fileSource(input, sheet), logger.Logger).Load(ctx)
	}
	res, err := dataset.NewSource(ctx, a.cfg.SourceConfig(), logger.Logger)
	if err != nil {
		return nil, err
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}
	return dataset.NewLoader(res.Source, logger.Logger).Load(ctx)
}

func categoryList(cs []core.Category) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
