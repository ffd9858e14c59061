package ports

import "context"

// CacheInvalidator drops cached read models once their source rows have changed.
// It must only be called after the change has committed.
type CacheInvalidator interface {
	// InvalidateAggregates drops the entries derived from the given aggregates.
	InvalidateAggregates(ctx context.Context, tracked []TrackedAggregate) error

	// InvalidatePattern drops every entry whose key matches pattern (glob syntax, without prefix).
	InvalidatePattern(ctx context.Context, pattern string) error
}
