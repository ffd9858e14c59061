// Package redis drops cached read models from Redis after a transaction scope
// has committed. The cache itself is filled by readers outside this module;
// this adapter only knows the key layout.
//
// Key layout, relative to the configured prefix:
//
//	book:<id>             order:<id>            cart:<id>
//	user:<id>             category:<id>         review:<id>
//	book:<id>:reviews     user:<id>:orders
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookstore/internal/core/domain/model/book"
	"bookstore/internal/core/domain/model/cart"
	"bookstore/internal/core/domain/model/category"
	"bookstore/internal/core/domain/model/order"
	"bookstore/internal/core/domain/model/review"
	"bookstore/internal/core/domain/model/user"
	"bookstore/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is used when no prefix is configured.
const DefaultKeyPrefix = "library_api:"

const scanBatch = 100

// CacheInvalidator implements ports.CacheInvalidator on a go-redis client.
type CacheInvalidator struct {
	rdb    goredis.UniversalClient
	prefix string
	logger *slog.Logger
}

func NewCacheInvalidator(rdb goredis.UniversalClient, prefix string, logger *slog.Logger) *CacheInvalidator {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "cache_invalidator"),
	}
}

// InvalidateAggregates deletes every key derived from the tracked aggregates in one DEL.
func (c *CacheInvalidator) InvalidateAggregates(ctx context.Context, tracked []ports.TrackedAggregate) error {
	keys := make([]string, 0, len(tracked))
	seen := make(map[string]struct{}, len(tracked))
	for _, t := range tracked {
		for _, key := range keysFor(t) {
			full := c.prefix + key
			if _, dup := seen[full]; dup {
				continue
			}
			seen[full] = struct{}{}
			keys = append(keys, full)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	removed, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("delete %d cache keys: %w", len(keys), err)
	}

	c.logger.DebugContext(ctx, "cache keys invalidated", "requested", len(keys), "removed", removed)
	return nil
}

// InvalidatePattern walks the keyspace with SCAN and deletes each batch of matches.
// KEYS is avoided so a large cache never blocks the server.
func (c *CacheInvalidator) InvalidatePattern(ctx context.Context, pattern string) error {
	if pattern == "" {
		return errors.New("empty cache key pattern")
	}

	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, delErr := c.rdb.Del(ctx, keys...).Result()
			if delErr != nil {
				return fmt.Errorf("delete keys matching %q: %w", pattern, delErr)
			}
			removed += n
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	c.logger.DebugContext(ctx, "cache pattern invalidated", "pattern", pattern, "removed", removed)
	return nil
}

// CommitHook adapts the invalidator to the unit of work's commit hook.
// Failures are logged; the transaction has already committed.
func (c *CacheInvalidator) CommitHook() ports.CommitHook {
	return func(ctx context.Context, tracked []ports.TrackedAggregate) {
		if err := c.InvalidateAggregates(ctx, tracked); err != nil {
			c.logger.WarnContext(ctx, "cache invalidation after commit failed", "error", err)
		}
	}
}

// keysFor maps a tracked aggregate to its cache keys. Status-only updates and
// deletes track a typed nil, so only the id-based key is known for them.
func keysFor(t ports.TrackedAggregate) []string {
	id := t.ID.String()

	switch a := t.Aggregate.(type) {
	case *book.Book:
		return []string{"book:" + id}
	case *order.Order:
		if a == nil {
			return []string{"order:" + id}
		}
		return []string{"order:" + id, "user:" + a.UserID().String() + ":orders"}
	case *cart.Cart:
		return []string{"cart:" + id}
	case *user.User:
		return []string{"user:" + id}
	case *category.Category:
		return []string{"category:" + id}
	case *review.Review:
		if a == nil {
			return []string{"review:" + id}
		}
		return []string{"review:" + id, "book:" + a.BookID().String() + ":reviews"}
	default:
		return nil
	}
}
