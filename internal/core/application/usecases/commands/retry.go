package commands

import (
	"context"
	"time"

	"bookstore/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	retryInitialInterval = 20 * time.Millisecond
	retryMaxInterval     = 500 * time.Millisecond
)

// RetryOnConflict runs op up to attempts times while it fails with a retryable
// TransactionError (serialization failure, deadlock, lock timeout). Any other
// error stops the loop and is returned as is. Every call to op must open its
// own transaction scope.
func RetryOnConflict(ctx context.Context, attempts int, op func() error) error {
	if attempts <= 1 {
		return op()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.MaxElapsedTime = 0

	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !errs.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bounded)
}
