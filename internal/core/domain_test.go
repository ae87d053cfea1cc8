package core

import (
	"errors"
	"testing"
)

func TestMonthIndex(t *testing.T) {
	cases := []struct {
		label string
		idx   int
		ok    bool
	}{
		{"Jan", 0, true},
		{"Mar", 2, true},
		{"Dec", 11, true},
		{"jan", 0, false},
		{"", 0, false},
		{"Total", 0, false},
	}
	for _, tc := range cases {
		idx, ok := MonthIndex(tc.label)
		if ok != tc.ok || (ok && idx != tc.idx) {
			t.Fatalf("MonthIndex(%q) = %d,%v want %d,%v", tc.label, idx, ok, tc.idx, tc.ok)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Family Sponsorship ")
	if err != nil || c != FamilySponsorship {
		t.Fatalf("unexpected: %v %v", c, err)
	}
	if _, err := ParseCategory("Students"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestBuildSeries(t *testing.T) {
	recs := []Record{
		{Month: "Jan", Values: map[Category]float64{Economic: 10, Refugee: 3}},
		{Month: "Feb", Values: map[Category]float64{Economic: 20, Other: 1}},
	}
	series := BuildSeries(recs)
	if len(series) != len(Categories) {
		t.Fatalf("expected %d series, got %d", len(Categories), len(series))
	}
	for i, s := range series {
		if s.Key != Categories[i] {
			t.Fatalf("series %d key=%s want %s", i, s.Key, Categories[i])
		}
		if len(s.Values) != len(recs) {
			t.Fatalf("series %s has %d points", s.Key, len(s.Values))
		}
	}
	if p := series[0].Values[1]; p.Month != "Feb" || p.Value != 20 {
		t.Fatalf("Economic/Feb = %+v", p)
	}
	if p := series[1].Values[0]; p.Value != 0 {
		t.Fatalf("missing value should be 0, got %v", p.Value)
	}
}

func TestToggleState(t *testing.T) {
	ts := NewToggleState()
	if len(ts.Active()) != 4 {
		t.Fatalf("all categories should start visible")
	}
	v, err := ts.Toggle(Refugee)
	if err != nil || v {
		t.Fatalf("toggle off: %v %v", v, err)
	}
	active := ts.Active()
	if len(active) != 3 || active[2] != Other {
		t.Fatalf("unexpected active set %v", active)
	}
	v, _ = ts.Toggle(Refugee)
	if !v || !ts.Visible(Refugee) {
		t.Fatalf("toggle back on failed")
	}
	if _, err := ts.Toggle("Students"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	ts.Toggle(Economic)
	filtered := ts.Filter(BuildSeries([]Record{{Month: "Jan"}}))
	if len(filtered) != 3 || filtered[0].Key != FamilySponsorship {
		t.Fatalf("unexpected filtered series %v", filtered)
	}
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	if err := p.Validate(); err != nil {
		t.Fatalf("default palette invalid: %v", err)
	}
	if p.Color(Refugee) != "#c62828" {
		t.Fatalf("unexpected refugee color %s", p.Color(Refugee))
	}
	delete(p, Other)
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for incomplete palette")
	}
}
