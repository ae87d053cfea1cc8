// Package render owns the chart's retained SVG surface: axes, one line path per
// visible category and one marker per visible data point, reconciled by key on
// every draw.
package render

import (
	"strings"

	"immichart/internal/core"
	"immichart/internal/scale"
)

// PointKey identifies a marker across redraws. Seq distinguishes repeated
// months within one series and is 0 otherwise.
type PointKey struct {
	Category core.Category
	Month    string
	Seq      int
}

// PointDatum is the data bound to a marker.
type PointDatum struct {
	Key   PointKey
	Value float64
}

// PointBinder attaches hover behaviour to a newly created marker.
type PointBinder func(n *Node, d PointDatum)

// Renderer draws into a surface it creates once.
type Renderer struct {
	layout  Layout
	palette core.Palette
	bind    PointBinder

	root   *Node
	xAxis  *Node
	yAxis  *Node
	yTicks *Layer[float64]
	lines  *Layer[core.Category]
	points *Layer[PointKey]
}

// New builds an empty surface. bind may be nil.
func New(layout Layout, palette core.Palette, bind PointBinder) *Renderer {
	root := NewNode("svg").
		Set("xmlns", "http://www.w3.org/2000/svg").
		Set("id", "line-chart").
		SetFloat("width", layout.Width).
		SetFloat("height", layout.Height).
		Set("viewBox", "0 0 "+formatNum(layout.Width)+" "+formatNum(layout.Height))

	g := root.Append(NewNode("g").
		Set("transform", translate(layout.Margin.Left, layout.Margin.Top)))

	f := layout.Frame()
	xAxis := g.Append(NewNode("g").
		Set("class", "axis x").
		Set("transform", translate(0, f.InnerHeight)))
	yAxis := g.Append(NewNode("g").Set("class", "axis y"))
	lines := g.Append(NewNode("g").Set("class", "lines"))
	points := g.Append(NewNode("g").Set("class", "points"))

	return &Renderer{
		layout:  layout,
		palette: palette,
		bind:    bind,
		root:    root,
		xAxis:   xAxis,
		yAxis:   yAxis,
		yTicks:  NewLayer[float64](NewNode("g")),
		lines:   NewLayer[core.Category](lines),
		points:  NewLayer[PointKey](points),
	}
}

// Draw reconciles line paths and point markers against the active series.
func (r *Renderer) Draw(active []core.Series, sc scale.Scales) (Diff[core.Category], Diff[PointKey]) {
	lineDiff := Reconcile(r.lines, active,
		func(s core.Series) core.Category { return s.Key },
		func(s core.Series) *Node {
			n := NewNode("path").Set("class", "line").Set("fill", "none").Set("stroke-width", "2")
			r.styleLine(n, s, sc)
			return n
		},
		func(n *Node, s core.Series) { r.styleLine(n, s, sc) },
	)

	pointDiff := Reconcile(r.points, flatten(active),
		func(d PointDatum) PointKey { return d.Key },
		func(d PointDatum) *Node {
			n := NewNode("circle").
				Set("class", "pt").
				SetFloat("r", r.layout.PointRadius)
			r.placePoint(n, d, sc)
			n.Set("fill", r.palette.Color(d.Key.Category))
			if r.bind != nil {
				r.bind(n, d)
			}
			return n
		},
		func(n *Node, d PointDatum) { r.placePoint(n, d, sc) },
	)
	return lineDiff, pointDiff
}

func (r *Renderer) styleLine(n *Node, s core.Series, sc scale.Scales) {
	n.Set("stroke", r.palette.Color(s.Key))
	n.Set("d", LinePath(s.Values, sc))
}

func (r *Renderer) placePoint(n *Node, d PointDatum, sc scale.Scales) {
	x, _ := sc.X.Map(d.Key.Month)
	n.SetFloat("cx", x)
	n.SetFloat("cy", sc.Y.Map(d.Value))
}

// LinePath connects each point's scaled position in order. Points whose month
// is outside the horizontal domain are skipped.
func LinePath(values []core.Point, sc scale.Scales) string {
	var b strings.Builder
	for _, p := range values {
		x, ok := sc.X.Map(p.Month)
		if !ok {
			continue
		}
		if b.Len() == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(formatNum(x))
		b.WriteByte(',')
		b.WriteString(formatNum(sc.Y.Map(p.Value)))
	}
	return b.String()
}

func flatten(active []core.Series) []PointDatum {
	var out []PointDatum
	for _, s := range active {
		seen := make(map[string]int, len(s.Values))
		for _, p := range s.Values {
			seq := seen[p.Month]
			seen[p.Month] = seq + 1
			out = append(out, PointDatum{
				Key:   PointKey{Category: s.Key, Month: p.Month, Seq: seq},
				Value: p.Value,
			})
		}
	}
	return out
}

// Root returns the surface element.
func (r *Renderer) Root() *Node { return r.root }

// SVG serialises the surface.
func (r *Renderer) SVG() string { return r.root.String() }

// Lines exposes the keyed line layer.
func (r *Renderer) Lines() *Layer[core.Category] { return r.lines }

// Points exposes the keyed marker layer.
func (r *Renderer) Points() *Layer[PointKey] { return r.points }

func translate(x, y float64) string {
	return "translate(" + formatNum(x) + "," + formatNum(y) + ")"
}
