// Package notify delivers committed domain events. The only transport is the
// process log; a message broker can replace it behind ports.Notifier.
package notify

import (
	"context"
	"log/slog"
	"time"

	"bookstore/internal/core/ports"
)

// LogNotifier writes one structured record per event.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, event ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	attrs := make([]any, 0, len(event.Payload))
	for k, v := range event.Payload {
		attrs = append(attrs, slog.String(k, v))
	}

	n.logger.InfoContext(ctx, "event delivered",
		slog.String("event", event.Name),
		slog.String("aggregate_id", event.AggregateID.String()),
		slog.Time("occurred_at", occurredAt),
		slog.Group("payload", attrs...),
	)
	return nil
}
