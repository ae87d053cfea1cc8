package core

import (
	"errors"
	"strings"
)

const (
	Economic          Category = "Economic"
	FamilySponsorship Category = "Family Sponsorship"
	Refugee           Category = "Refugee"
	Other             Category = "Other"
)

// MonthColumn is the header of the categorical key column.
const MonthColumn = "Month"

type (
	// Category is one of the four immigration classes.
	Category string

	// Record is one calendar month's observation.
	Record struct {
		Month  string
		Values map[Category]float64
	}

	// Point is a single month/value pair of a series.
	Point struct {
		Month string
		Value float64
	}

	// Series holds the ordered per-month values for one category.
	Series struct {
		Key    Category
		Values []Point
	}
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownMonth    = errors.New("unknown month")
)

// Categories lists every category in legend and drawing order.
var Categories = []Category{Economic, FamilySponsorship, Refugee, Other}

// Months is the fixed calendar-ordered month domain.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthIndex = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, label := range Months {
		m[label] = i
	}
	return m
}()

// MonthIndex returns the zero-based calendar position of a month label.
func MonthIndex(label string) (int, bool) {
	i, ok := monthIndex[label]
	return i, ok
}

// ParseCategory resolves a raw key (surrounding whitespace ignored) to a Category.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

func (c Category) String() string {
	return string(c)
}

// Value returns the category value; missing entries count as zero.
func (r Record) Value(c Category) float64 {
	if r.Values == nil {
		return 0
	}
	return r.Values[c]
}

// BuildSeries derives one series per category from the loaded records.
// Every series has exactly len(records) points, in record order.
func BuildSeries(records []Record) []Series {
	out := make([]Series, 0, len(Categories))
	for _, c := range Categories {
		s := Series{Key: c, Values: make([]Point, 0, len(records))}
		for _, r := range records {
			s.Values = append(s.Values, Point{Month: r.Month, Value: r.Value(c)})
		}
		out = append(out, s)
	}
	return out
}

