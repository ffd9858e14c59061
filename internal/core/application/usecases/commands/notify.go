package commands

import (
	"context"
	"log/slog"

	"bookstore/internal/core/ports"
)

// publish delivers an event for a change that has already committed.
// Delivery failures are logged and never reported to the caller.
func publish(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, event ports.Event) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, event); err != nil {
		loggerOrDefault(logger).WarnContext(ctx, "event delivery failed",
			"event", event.Name,
			"aggregate_id", event.AggregateID.String(),
			"error", err)
	}
}

// invalidate drops cached listings after a committed change.
func invalidate(ctx context.Context, cache ports.CacheInvalidator, logger *slog.Logger, pattern string) {
	if cache == nil {
		return
	}
	if err := cache.InvalidatePattern(ctx, pattern); err != nil {
		loggerOrDefault(logger).WarnContext(ctx, "cache invalidation failed", "pattern", pattern, "error", err)
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
