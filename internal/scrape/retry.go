package scrape

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/fetch"
)

// RetryPolicy controls how often a failed fetch is tried again.
type RetryPolicy struct {
	// Attempts is the total number of tries. 1 means no retry.
	Attempts int
	// Backoff is the base delay, doubled after every failed try.
	Backoff time.Duration
}

func RetryPolicyFrom(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		Attempts: cfg.Attempts,
		Backoff:  time.Duration(cfg.BackoffMs) * time.Millisecond,
	}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.Backoff << attempt
	if d <= 0 {
		return 0
	}
	// ±25% jitter
	jitter := float64(d) * 0.25 * (rand.Float64()*2 - 1)
	return d + time.Duration(jitter)
}

// fetchWithRetry retries only fetch failures; cancellation and other
// errors return at once.
func fetchWithRetry(ctx context.Context, p RetryPolicy, f fetch.Fetcher, url string, opts fetch.Options) (string, error) {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		body, err := f.Fetch(ctx, url, opts)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil || !errors.Is(err, fetch.ErrFetchFailed) {
			return "", err
		}
		if attempt >= attempts-1 {
			break
		}

		zap.L().Warn("fetch failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", lastErr
		case <-timer.C:
		}
	}
	return "", lastErr
}
