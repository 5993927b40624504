package pipeline

import (
	"context"
	"time"

	"github.com/soulstats/collector/internal/types"
)

const (
	retryAttempts = 20
	retryInterval = 5 * time.Second
)

// withRetry runs fn up to retryAttempts times with a fixed interval between
// attempts. A permanent error (per the predicate) or a cancelled context
// stops immediately; running out of attempts yields a retry-exhausted error
// wrapping the last failure.
func (p *Pipeline) withRetry(ctx context.Context, op string, fn func() error, permanent func(error) bool) error {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.WrapError(types.ErrTransport, op+" cancelled", err)
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return lastErr
		}
		if attempt < retryAttempts {
			p.logger.Warn("%s failed, retrying (%d/%d): %v", op, attempt, retryAttempts, lastErr)
			p.sleep(retryInterval)
		}
	}
	return types.WrapError(types.ErrRetryExhausted, op+" gave up after repeated failures", lastErr)
}
