package chart

import (
	"immichart/internal/core"
	"immichart/internal/scale"
)

const (
	tooltipOffsetX = 10
	tooltipOffsetY = -24
)

// Tooltip is the content and position of the single hover tooltip.
// The zero value is a hidden tooltip.
type Tooltip struct {
	Visible  bool
	Left     float64
	Top      float64
	Month    string
	Year     string
	Category core.Category
	Value    float64
}

// Heading is the month and year line, e.g. "Mar 2024".
func (t Tooltip) Heading() string {
	if !t.Visible {
		return ""
	}
	return t.Month + " " + t.Year
}

// Detail is the category and grouped value, e.g. "Refugee: 1,200".
func (t Tooltip) Detail() string {
	if !t.Visible {
		return ""
	}
	return string(t.Category) + ": " + scale.FormatGrouped(t.Value)
}

// Text is the full tooltip text.
func (t Tooltip) Text() string {
	if !t.Visible {
		return ""
	}
	return t.Heading() + "\n" + t.Detail()
}

func (t Tooltip) Opacity() int {
	if t.Visible {
		return 1
	}
	return 0
}
