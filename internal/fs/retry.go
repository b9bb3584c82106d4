package fs

import (
	"context"
	"fmt"
	"time"
)

const maxRetries = 5

var retryBase = 100 * time.Millisecond

// backoff doubles the wait after each failed attempt, starting at retryBase.
func backoff(attempt int) time.Duration {
	return retryBase << (attempt - 1)
}

// retry runs fn until it succeeds, fails with a non-transient error, or
// maxRetries attempts are used up. ctx is only consulted between attempts.
func retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) {
			return fmt.Errorf("%s failed permanently: %w", op, err)
		}
		if attempt == maxRetries {
			return fmt.Errorf("%s failed after %d retries: %w", op, maxRetries, err)
		}

		t := time.NewTimer(backoff(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
