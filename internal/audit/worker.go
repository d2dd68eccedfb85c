package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from the publisher and delivers them to the
// sink. Sink failures are logged and skipped; the audit trail is best-effort
// and must never wedge the event loop.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker builds a worker over the given inbox and sink.
func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit sink append failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
