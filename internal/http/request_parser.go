package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"immichart/internal/core"
	"immichart/internal/render"
)

const maxFormBytes = 4 << 10

// hoverRequest is a parsed /ui/tooltip query.
type hoverRequest struct {
	Leave bool
	Key   render.PointKey
	X, Y  float64
}

// parseToggle reads the category from the "key" form field.
func parseToggle(w http.ResponseWriter, r *http.Request) (core.Category, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("parse form: %w", err)
	}
	raw := sanitizeInput(r.PostForm.Get("key"))
	if raw == "" {
		return "", errors.New("missing key")
	}
	return core.ParseCategory(raw)
}

// parseHover reads key, month, seq, x, y and ev from the query. A leave event
// needs nothing else.
func parseHover(q url.Values) (hoverRequest, error) {
	if strings.EqualFold(q.Get("ev"), "mouseleave") {
		return hoverRequest{Leave: true}, nil
	}

	cat, err := core.ParseCategory(sanitizeInput(q.Get("key")))
	if err != nil {
		return hoverRequest{}, err
	}
	month := sanitizeInput(q.Get("month"))
	if _, ok := core.MonthIndex(month); !ok {
		return hoverRequest{}, fmt.Errorf("%w: %q", core.ErrUnknownMonth, month)
	}
	seq, err := optionalInt(q.Get("seq"))
	if err != nil || seq < 0 {
		return hoverRequest{}, fmt.Errorf("invalid seq %q", q.Get("seq"))
	}
	x, err := optionalFloat(q.Get("x"))
	if err != nil {
		return hoverRequest{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := optionalFloat(q.Get("y"))
	if err != nil {
		return hoverRequest{}, fmt.Errorf("invalid y: %w", err)
	}
	return hoverRequest{Key: render.PointKey{Category: cat, Month: month, Seq: seq}, X: x, Y: y}, nil
}

func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func optionalFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// sanitizeInput trims and drops control characters.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
