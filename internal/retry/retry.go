// Package retry wraps a single fallible operation in bounded exponential
// backoff with jitter. Only failures the caller classifies as retryable
// incur a delay and another attempt; everything else propagates immediately.
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy controls how many times an operation runs and how long to wait
// between attempts. MaxAttempts counts the first execution.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Default is tuned for the summarization budget: five attempts with delays
// near 2, 4, 8, 16 seconds adds at most ~30s of latency before giving up.
func Default() Policy {
	return Policy{MaxAttempts: 5, BaseDelay: 2 * time.Second}
}

// Delay returns the wait after a failed attempt (0-indexed): BaseDelay
// doubled per attempt, plus up to one second of jitter so concurrent
// invocations throttled at the same instant don't retry in lockstep.
func (p Policy) Delay(attempt int) time.Duration {
	backoff := p.BaseDelay * (1 << uint(attempt))
	jitter := time.Duration(rand.Int64N(int64(time.Second)))
	return backoff + jitter
}

// Do runs op until it succeeds, fails with a non-retryable error, or
// exhausts p.MaxAttempts. The classifier must have an answer for every
// error op can produce; a nil classifier retries nothing. The wait between
// attempts is a timed suspension that aborts early if ctx is cancelled.
func Do[T any](ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	var zero T
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if retryable == nil || !retryable(err) || attempt == p.MaxAttempts-1 {
			return zero, err
		}
		wait := p.Delay(attempt)
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("Retryable failure — backing off")
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
	return zero, lastErr
}
