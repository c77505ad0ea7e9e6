package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter paces outbound requests per host (boards-api.greenhouse.io,
// www.linkedin.com, ...). Requests to different hosts never wait on each other.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: host
	every    rate.Limit
	burst    int
}

// NewHostLimiter returns a limiter allowing burst immediate requests per host,
// then one request every minDelay. A non-positive minDelay disables pacing.
func NewHostLimiter(minDelay time.Duration, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	every := rate.Inf
	if minDelay > 0 {
		every = rate.Every(minDelay)
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
		burst:    burst,
	}
}

func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.every, l.burst)
	l.limiters[host] = lim
	return lim
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if err := l.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// WaitURL is Wait keyed by the host of rawURL. Unparseable URLs share one
// fallback bucket.
func (l *HostLimiter) WaitURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return l.Wait(ctx, "_")
	}
	return l.Wait(ctx, u.Host)
}
