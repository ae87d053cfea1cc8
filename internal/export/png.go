// Package export renders a chart snapshot to a raster image.
package export

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"immichart/internal/chart"
	"immichart/internal/core"
	"immichart/internal/scale"
)

// PNG draws the visible series of snap with the same month positions, value
// domain and colors as the interactive surface.
func PNG(w io.Writer, snap chart.Snapshot) error {
	graph := build(snap)
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func build(snap chart.Snapshot) gochart.Chart {
	xs := make([]float64, len(core.Months))
	xTicks := make([]gochart.Tick, len(core.Months))
	for i, m := range core.Months {
		xs[i] = float64(i)
		xTicks[i] = gochart.Tick{Value: float64(i), Label: m}
	}

	yTicks := make([]gochart.Tick, 0, len(snap.YTicks))
	for _, v := range snap.YTicks {
		yTicks = append(yTicks, gochart.Tick{Value: v, Label: scale.FormatTick(v)})
	}

	series := make([]gochart.Series, 0, len(snap.Series))
	for _, s := range snap.Series {
		sx, sy := points(s)
		col := hexColor(snap.Palette.Color(s.Key))
		series = append(series, gochart.ContinuousSeries{
			Name:    string(s.Key),
			XValues: sx,
			YValues: sy,
			Style: gochart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    snap.Layout.PointRadius,
			},
		})
	}
	if len(series) == 0 {
		// go-chart refuses to render without a series; keep the axes.
		series = append(series, gochart.ContinuousSeries{
			XValues: xs,
			YValues: make([]float64, len(xs)),
			Style:   gochart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 0},
		})
	}

	m := snap.Layout.Margin
	graph := gochart.Chart{
		Width:  int(snap.Layout.Width),
		Height: int(snap.Layout.Height),
		Background: gochart.Style{
			Padding: gochart.Box{Top: int(m.Top), Left: int(m.Left) / 2, Right: int(m.Right), Bottom: int(m.Bottom) / 2},
		},
		XAxis: gochart.XAxis{
			Name:  snap.Year,
			Ticks: xTicks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(core.Months)) - 0.5},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: snap.YMax},
			Ticks: yTicks,
		},
		Series: series,
	}
	if len(snap.Series) > 0 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph
}

// points maps a series onto month indices; repeated months share an x.
func points(s core.Series) ([]float64, []float64) {
	xs := make([]float64, 0, len(s.Values))
	ys := make([]float64, 0, len(s.Values))
	for _, p := range s.Values {
		i, ok := core.MonthIndex(p.Month)
		if !ok {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, p.Value)
	}
	return xs, ys
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}
