// Package ratelimit gates every outbound request behind one shared interval,
// so sitemap and post fetches draw from the same politeness budget.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/metrics"
)

// Limiter is a single global interval gate. A zero or negative interval
// disables limiting entirely.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter that releases one request per interval.
func New(interval time.Duration) *Limiter {
	r := rate.Inf
	if interval > 0 {
		r = rate.Every(interval)
	}
	return &Limiter{
		limiter: rate.NewLimiter(r, 1),
	}
}

// Wait blocks until a token is available, respecting the context.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateLimitDelay(waited)
	}
	return nil
}

// ThrottledFetcher decorates a Fetcher with the global gate so every caller,
// discovery and scraping alike, pays the same delay before going out.
type ThrottledFetcher struct {
	next    archive.Fetcher
	limiter *Limiter
}

// Throttle wraps next with the limiter.
func Throttle(next archive.Fetcher, limiter *Limiter) *ThrottledFetcher {
	return &ThrottledFetcher{next: next, limiter: limiter}
}

// Fetch waits for a token and delegates to the wrapped fetcher. The fetch
// duration and response size are recorded for metrics.
func (f *ThrottledFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &archive.FetchError{URL: url, Err: err}
	}
	start := time.Now()
	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	metrics.ObserveFetch(len(body), time.Since(start))
	return body, nil
}
