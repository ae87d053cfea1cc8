package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"immichart/internal/core"
)

func TestParseHover(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, h hoverRequest)
	}{
		{
			name:  "enter with coordinates",
			query: "key=Refugee&month=Mar&x=100.5&y=40&ev=mouseenter",
			check: func(t *testing.T, h hoverRequest) {
				if h.Leave || h.Key.Category != core.Refugee || h.Key.Month != "Mar" || h.Key.Seq != 0 {
					t.Errorf("unexpected %+v", h)
				}
				if h.X != 100.5 || h.Y != 40 {
					t.Errorf("coords = %v,%v", h.X, h.Y)
				}
			},
		},
		{
			name:  "family sponsorship with seq",
			query: "key=Family+Sponsorship&month=Feb&seq=1",
			check: func(t *testing.T, h hoverRequest) {
				if h.Key.Category != core.FamilySponsorship || h.Key.Seq != 1 {
					t.Errorf("unexpected %+v", h)
				}
			},
		},
		{
			name:  "leave ignores the rest",
			query: "ev=mouseleave&key=bogus",
			check: func(t *testing.T, h hoverRequest) {
				if !h.Leave {
					t.Error("expected leave")
				}
			},
		},
		{name: "unknown category", query: "key=Tourism&month=Jan", wantErr: true},
		{name: "unknown month", query: "key=Other&month=Jany", wantErr: true},
		{name: "negative seq", query: "key=Other&month=Jan&seq=-1", wantErr: true},
		{name: "bad x", query: "key=Other&month=Jan&x=abc", wantErr: true},
		{name: "infinite y", query: "key=Other&month=Jan&y=Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			h, err := parseHover(q)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", h)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, h)
		})
	}
}

func TestParseHover_UnknownMonthIsTyped(t *testing.T) {
	q, _ := url.ParseQuery("key=Other&month=Foo")
	if _, err := parseHover(q); !errors.Is(err, core.ErrUnknownMonth) {
		t.Errorf("err = %v, want ErrUnknownMonth", err)
	}
}

func TestParseToggle(t *testing.T) {
	newReq := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/ui/legend/toggle", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}

	got, err := parseToggle(httptest.NewRecorder(), newReq("key=%20Economic%20"))
	if err != nil || got != core.Economic {
		t.Errorf("parseToggle = %q, %v", got, err)
	}
	if _, err := parseToggle(httptest.NewRecorder(), newReq("")); err == nil {
		t.Error("missing key should fail")
	}
	if _, err := parseToggle(httptest.NewRecorder(), newReq("key=economic")); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Ref\x00ugee\n "); got != "Refugee" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
