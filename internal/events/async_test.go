package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type collector struct {
	mu    sync.Mutex
	got   []Event
	block chan struct{}
	err   error
}

func (c *collector) Publish(ctx context.Context, e Event) error {
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, e)
	return c.err
}

func (c *collector) Close() error { return nil }

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestAsyncPublisher_PublishDoesNotWaitForBroker(t *testing.T) {
	next := &collector{block: make(chan struct{})}
	defer close(next.block)
	a := NewAsyncPublisher(next, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := a.Publish(context.Background(), NewViewed("s1", nil)); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if d := time.Since(start); d > 100*time.Millisecond {
		t.Errorf("publish blocked for %v", d)
	}
}

func TestAsyncPublisher_QueueFull(t *testing.T) {
	a := NewAsyncPublisher(&collector{}, 2, nil)
	for i := 0; i < 2; i++ {
		if err := a.Publish(context.Background(), NewViewed("s1", nil)); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if err := a.Publish(context.Background(), NewViewed("s1", nil)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if a.Dropped() != 1 || a.Pending() != 2 {
		t.Errorf("dropped=%d pending=%d", a.Dropped(), a.Pending())
	}
}

func TestAsyncPublisher_RunForwardsAndFlushes(t *testing.T) {
	next := &collector{err: errors.New("broker down")}
	a := NewAsyncPublisher(next, 8, nil)
	for i := 0; i < 5; i++ {
		_ = a.Publish(context.Background(), NewToggled("s1", "Refugee", false, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Failures are logged, every buffered event still reaches the broker call.
	if next.count() != 5 || a.Pending() != 0 {
		t.Errorf("forwarded=%d pending=%d", next.count(), a.Pending())
	}
}
