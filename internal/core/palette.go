package core

import "fmt"

// Palette maps each category to a fixed stroke/fill color.
type Palette map[Category]string

// DefaultPalette is blue, green, red, purple in category order.
func DefaultPalette() Palette {
	return Palette{
		Economic:          "#1565c0",
		FamilySponsorship: "#2e7d32",
		Refugee:           "#c62828",
		Other:             "#8e24aa",
	}
}

// Color returns the color for c, or a neutral gray for unmapped keys.
func (p Palette) Color(c Category) string {
	if col, ok := p[c]; ok {
		return col
	}
	return "#757575"
}

// Validate checks that every category has a color.
func (p Palette) Validate() error {
	for _, c := range Categories {
		if p[c] == "" {
			return fmt.Errorf("palette: missing color for %q", c)
		}
	}
	return nil
}
