package render

import (
	"errors"
	"fmt"

	"immichart/internal/scale"
)

// Margin is the space between the surface edge and the plot area.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Layout holds the fixed surface geometry read once at startup.
type Layout struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Margin      Margin  `yaml:"margin"`
	PointRadius float64 `yaml:"point_radius"`
	YTicks      int     `yaml:"y_ticks"`
}

func DefaultLayout() Layout {
	return Layout{
		Width:       960,
		Height:      480,
		Margin:      Margin{Top: 28, Right: 24, Bottom: 44, Left: 60},
		PointRadius: 3.5,
		YTicks:      6,
	}
}

// Frame returns the inner plot dimensions.
func (l Layout) Frame() scale.Frame {
	return scale.Frame{
		InnerWidth:  l.Width - l.Margin.Left - l.Margin.Right,
		InnerHeight: l.Height - l.Margin.Top - l.Margin.Bottom,
	}
}

func (l Layout) Validate() error {
	var errs []error
	f := l.Frame()
	if l.Width <= 0 || l.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid surface size %vx%v", l.Width, l.Height))
	} else if f.InnerWidth <= 0 || f.InnerHeight <= 0 {
		errs = append(errs, fmt.Errorf("margins leave no plot area (%vx%v)", f.InnerWidth, f.InnerHeight))
	}
	if l.PointRadius <= 0 {
		errs = append(errs, fmt.Errorf("invalid point radius %v", l.PointRadius))
	}
	if l.YTicks < 1 {
		errs = append(errs, fmt.Errorf("invalid y tick count %d", l.YTicks))
	}
	return errors.Join(errs...)
}
