// Package chart ties the loaded data, the scales and the renderer together and
// owns the interaction state of one chart view: which categories are visible
// and what the tooltip shows.
package chart

import (
	"errors"
	"sync"

	"immichart/internal/core"
	"immichart/internal/render"
	"immichart/internal/scale"
)

// DefaultYearLabel is the fixed year shown in tooltips.
const DefaultYearLabel = "2024"

var ErrUnknownPoint = errors.New("unknown data point")

// Options configures a Controller.
type Options struct {
	Layout    render.Layout
	Palette   core.Palette
	YearLabel string
	// Bind attaches hover behaviour to every newly created marker.
	Bind render.PointBinder
}

// LegendItem is the visual state of one legend entry.
type LegendItem struct {
	Key      core.Category
	Color    string
	Disabled bool
}

// Controller is the single owner of a chart view's mutable state. Methods are
// safe for concurrent use; each call runs to completion before the next starts.
type Controller struct {
	mu sync.Mutex

	records   []core.Record
	series    []core.Series
	state     *core.ToggleState
	scales    scale.Scales
	renderer  *render.Renderer
	layout    render.Layout
	palette   core.Palette
	yearLabel string
	tooltip   Tooltip
}

// New performs the initial draw of every series.
func New(records []core.Record, opts Options) *Controller {
	if opts.Layout == (render.Layout{}) {
		opts.Layout = render.DefaultLayout()
	}
	if opts.Palette == nil {
		opts.Palette = core.DefaultPalette()
	}
	if opts.YearLabel == "" {
		opts.YearLabel = DefaultYearLabel
	}
	c := &Controller{
		records:   records,
		series:    core.BuildSeries(records),
		state:     core.NewToggleState(),
		layout:    opts.Layout,
		palette:   opts.Palette,
		yearLabel: opts.YearLabel,
		renderer:  render.New(opts.Layout, opts.Palette, opts.Bind),
	}
	c.scales = scale.Build(records, c.state.Active(), opts.Layout.Frame())
	c.renderer.DrawXAxis(c.scales.X)
	c.renderer.DrawYAxis(c.scales.Y)
	c.renderer.Draw(c.series, c.scales)
	return c
}

// Toggle flips the visibility of k and redraws. It returns the new visibility.
func (c *Controller) Toggle(k core.Category) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible, err := c.state.Toggle(k)
	if err != nil {
		return false, err
	}
	c.redraw()
	return visible, nil
}

func (c *Controller) redraw() {
	c.scales = c.scales.WithActive(c.records, c.state.Active(), c.layout.Frame())
	c.renderer.DrawYAxis(c.scales.Y)
	c.renderer.Draw(c.state.Filter(c.series), c.scales)
}

// HoverEnter shows the tooltip for a visible point, replacing any previous content.
func (c *Controller) HoverEnter(key render.PointKey, pageX, pageY float64) (Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Visible(key.Category) {
		return c.tooltip, ErrUnknownPoint
	}
	value, ok := c.lookup(key)
	if !ok {
		return c.tooltip, ErrUnknownPoint
	}
	c.tooltip = Tooltip{
		Visible:  true,
		Left:     pageX + tooltipOffsetX,
		Top:      pageY + tooltipOffsetY,
		Month:    key.Month,
		Year:     c.yearLabel,
		Category: key.Category,
		Value:    value,
	}
	return c.tooltip, nil
}

// HoverLeave hides the tooltip.
func (c *Controller) HoverLeave() Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltip = Tooltip{}
	return c.tooltip
}

func (c *Controller) lookup(key render.PointKey) (float64, bool) {
	for _, s := range c.series {
		if s.Key != key.Category {
			continue
		}
		seq := 0
		for _, p := range s.Values {
			if p.Month != key.Month {
				continue
			}
			if seq == key.Seq {
				return p.Value, true
			}
			seq++
		}
	}
	return 0, false
}

func (c *Controller) Tooltip() Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tooltip
}

// Legend returns one entry per category in category order.
func (c *Controller) Legend() []LegendItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LegendItem, 0, len(core.Categories))
	for _, k := range core.Categories {
		out = append(out, LegendItem{Key: k, Color: c.palette.Color(k), Disabled: !c.state.Visible(k)})
	}
	return out
}

// SVG serialises the current surface.
func (c *Controller) SVG() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer.SVG()
}

// ActiveSeries returns the visible series with their original data.
func (c *Controller) ActiveSeries() []core.Series {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filter(c.series)
}

// ActiveCategories returns the visible categories in category order.
func (c *Controller) ActiveCategories() []core.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Active()
}

// YDomain returns the current vertical domain.
func (c *Controller) YDomain() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scales.Y.Domain()
}

// YTicks returns the current value-axis tick values.
func (c *Controller) YTicks() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scales.Y.Ticks(c.layout.YTicks)
}

// Counts reports how many line paths and markers are on the surface.
func (c *Controller) Counts() (lines, points int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer.Lines().Len(), c.renderer.Points().Len()
}

// Snapshot is a consistent read of the visible state for exporters.
type Snapshot struct {
	Series  []core.Series
	YMax    float64
	YTicks  []float64
	Palette core.Palette
	Layout  render.Layout
	Year    string
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, hi := c.scales.Y.Domain()
	return Snapshot{
		Series:  c.state.Filter(c.series),
		YMax:    hi,
		YTicks:  c.scales.Y.Ticks(c.layout.YTicks),
		Palette: c.palette,
		Layout:  c.layout,
		Year:    c.yearLabel,
	}
}
