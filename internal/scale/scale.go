// Package scale maps chart data to pixel coordinates: a categorical point scale
// for months on the horizontal axis and a linear, niced scale for values.
package scale

import (
	"math"

	"immichart/internal/core"
)

// DefaultNiceCount is the tick count used when rounding a linear domain.
const DefaultNiceCount = 10

// Point places each domain label at an evenly spaced position with half-step
// padding at both ends.
type Point struct {
	domain []string
	index  map[string]int
	start  float64
	step   float64
}

// NewPoint builds a point scale over domain with output range [r0, r1] and padding 0.5.
func NewPoint(domain []string, r0, r1 float64) *Point {
	p := &Point{domain: append([]string(nil), domain...), index: make(map[string]int, len(domain))}
	for i, d := range domain {
		if _, dup := p.index[d]; !dup {
			p.index[d] = i
		}
	}
	n := float64(len(domain))
	if n == 0 {
		return p
	}
	const padding = 0.5
	p.step = (r1 - r0) / math.Max(1, n-1+padding*2)
	p.start = r0 + p.step*padding
	return p
}

// Map returns the pixel coordinate of label.
func (p *Point) Map(label string) (float64, bool) {
	i, ok := p.index[label]
	if !ok {
		return 0, false
	}
	return p.start + p.step*float64(i), true
}

func (p *Point) Domain() []string { return append([]string(nil), p.domain...) }

func (p *Point) Step() float64 { return p.step }

// Linear maps [d0, d1] onto [r0, r1].
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Nice rounds the domain outward to tick boundaries for roughly count ticks.
func (l *Linear) Nice(count int) *Linear {
	l.d0, l.d1 = niceDomain(l.d0, l.d1, count)
	return l
}

// Map returns the pixel coordinate of v. A degenerate domain maps to the range midpoint.
func (l *Linear) Map(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

func (l *Linear) Domain() (float64, float64) { return l.d0, l.d1 }

func (l *Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Ticks returns about count round values inside the domain.
func (l *Linear) Ticks(count int) []float64 {
	return Ticks(l.d0, l.d1, count)
}

// YMax returns the largest value across records restricted to the active categories.
// It returns 1 when nothing is active or every visible value is zero.
func YMax(records []core.Record, active []core.Category) float64 {
	max := 0.0
	for _, r := range records {
		for _, c := range active {
			if v := r.Value(c); v > max {
				max = v
			}
		}
	}
	if max <= 0 {
		return 1
	}
	return max
}

// Frame is the inner plot size in pixels.
type Frame struct {
	InnerWidth  float64
	InnerHeight float64
}

// Scales bundles the fixed horizontal scale and the vertical scale for the current active set.
type Scales struct {
	X *Point
	Y *Linear
}

// Build computes both scales from the loaded records and the active categories.
func Build(records []core.Record, active []core.Category, f Frame) Scales {
	return Scales{
		X: NewPoint(core.Months, 0, f.InnerWidth),
		Y: buildY(records, active, f),
	}
}

// WithActive keeps the horizontal scale and recomputes the vertical one.
func (s Scales) WithActive(records []core.Record, active []core.Category, f Frame) Scales {
	return Scales{X: s.X, Y: buildY(records, active, f)}
}

func buildY(records []core.Record, active []core.Category, f Frame) *Linear {
	return NewLinear(0, YMax(records, active), f.InnerHeight, 0).Nice(DefaultNiceCount)
}
