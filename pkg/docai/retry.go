package docai

import (
	"context"
	"math/rand"
	"time"

	gax "github.com/googleapis/gax-go/v2"
)

// RetryPolicy controls how quota and transient failures are retried.
// MaxAttempts counts the initial submission, so 3 means two retries.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Jitter      float64 // +/- fraction applied to each delay, e.g. 0.2
}

// DefaultRetryPolicy retries up to 3 attempts with a 2s base delay, doubling,
// with +/-20% jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2,
		Jitter:      0.2,
	}
}

// Delay returns the backoff before the given retry. attempt is the 1-based
// index of the attempt that just failed, so the first retry waits
// BaseDelay +/- jitter.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if p.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*p.Jitter
	}
	return time.Duration(d)
}

// pause sleeps for the backoff delay, returning early with the context error
// if the context is cancelled first.
func (p RetryPolicy) pause(ctx context.Context, attempt int) error {
	return gax.Sleep(ctx, p.Delay(attempt))
}
