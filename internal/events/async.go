package events

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
)

// ErrQueueFull is returned by AsyncPublisher.Publish when the buffer is full.
var ErrQueueFull = errors.New("event queue full")

// AsyncPublisher buffers events and forwards them to next from Run, so a slow
// or unreachable broker never holds up the caller.
type AsyncPublisher struct {
	next    Publisher
	queue   chan Event
	logger  *slog.Logger
	dropped atomic.Int64
}

func NewAsyncPublisher(next Publisher, size int, logger *slog.Logger) *AsyncPublisher {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncPublisher{next: next, queue: make(chan Event, size), logger: logger}
}

// Publish enqueues e without blocking. The caller's ctx is not carried over:
// forwarding outlives the request that produced the event.
func (a *AsyncPublisher) Publish(_ context.Context, e Event) error {
	select {
	case a.queue <- e:
		return nil
	default:
		a.dropped.Add(1)
		return ErrQueueFull
	}
}

// Run forwards events until ctx ends, then flushes what is still buffered
// within one publish timeout.
func (a *AsyncPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.flush()
			return nil
		case e := <-a.queue:
			a.forward(ctx, e)
		}
	}
}

func (a *AsyncPublisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	for ctx.Err() == nil {
		select {
		case e := <-a.queue:
			a.forward(ctx, e)
		default:
			return
		}
	}
}

func (a *AsyncPublisher) forward(ctx context.Context, e Event) {
	if err := a.next.Publish(ctx, e); err != nil {
		a.logger.WarnContext(ctx, "Event publish failed",
			"kind", e.Kind,
			"session", e.Session,
			"error", err)
	}
}

// Pending reports how many events wait to be forwarded.
func (a *AsyncPublisher) Pending() int { return len(a.queue) }

// Dropped reports how many events were rejected because the buffer was full.
func (a *AsyncPublisher) Dropped() int64 { return a.dropped.Load() }

func (a *AsyncPublisher) Close() error { return a.next.Close() }
