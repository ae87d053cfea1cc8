// Package events publishes chart interaction events (page views, legend
// toggles) to a message broker. Publishing is fire-and-forget for callers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Kind string

const (
	ChartViewed   Kind = "chart.viewed"
	LegendToggled Kind = "legend.toggled"
)

// Event is the JSON body of every published message.
type Event struct {
	Kind      Kind      `json:"kind"`
	Session   string    `json:"session"`
	Category  string    `json:"category,omitempty"`
	Visible   bool      `json:"visible"`
	Active    []string  `json:"active,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewViewed creates a chart.viewed event for a fresh page view.
func NewViewed(session string, active []string) Event {
	return Event{Kind: ChartViewed, Session: session, Visible: true, Active: active, Timestamp: time.Now()}
}

// NewToggled creates a legend.toggled event with the category's new visibility.
func NewToggled(session, category string, visible bool, active []string) Event {
	return Event{
		Kind:      LegendToggled,
		Session:   session,
		Category:  category,
		Visible:   visible,
		Active:    active,
		Timestamp: time.Now(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Kind != ChartViewed && e.Kind != LegendToggled {
		return Event{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return e, nil
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
