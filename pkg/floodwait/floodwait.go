// Package floodwait rate-limits outbound chat sends and retries requests the
// transport rejected with a flood-wait style error, honoring the server's
// advised delay.
package floodwait

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// WaitError is returned (wrapped) by transports when the server demands a
// pause before the next request.
type WaitError struct {
	RetryAfter time.Duration
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("flood wait: retry after %s", e.RetryAfter)
}

// Limiter paces sends at a fixed rate and absorbs flood-wait responses.
// Safe for concurrent use.
type Limiter struct {
	rl          *rate.Limiter
	maxAttempts int
}

// New creates a Limiter allowing rps requests per second with the given burst.
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rl:          rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts: 3,
	}
}

// Do waits for a rate token, runs fn, and retries when fn fails with a
// WaitError, sleeping for the advised duration first. Any other error stops
// retrying and is returned as-is.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		if werr := l.rl.Wait(ctx); werr != nil {
			return werr
		}

		err = fn()
		if err == nil {
			return nil
		}

		var fw *WaitError
		if !errors.As(err, &fw) {
			return err
		}

		delay := fw.RetryAfter
		if delay <= 0 {
			delay = time.Second
		}
		log.Printf("[WARN] Flood wait (attempt %d): sleeping %s", attempt, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
