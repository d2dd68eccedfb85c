package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink receives audit events. Implementations must be safe for concurrent
// use by the worker.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher hands events to the background worker through a buffered channel.
// Emit never blocks the caller: when the buffer is full the event is dropped
// and counted, which is preferable to stalling a commit on a slow sink.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	mu      sync.Mutex
	dropped int
}

// NewPublisher creates a publisher with the given buffer size.
func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Emit queues an event for delivery.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.mu.Lock()
		p.dropped++
		dropped := p.dropped
		p.mu.Unlock()
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"dropped_total", dropped,
		)
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Dropped reports how many events were discarded due to a full buffer.
func (p *Publisher) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}
