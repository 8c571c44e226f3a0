// Package ratelimit spaces out calls per provider with one token bucket each.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"macroflow/models"
)

// Limit configures one provider bucket. A zero Interval disables limiting.
type Limit struct {
	Interval time.Duration
	Burst    int
}

// Limiter holds a rate.Limiter per provider. Providers without a configured
// limit are not throttled.
type Limiter struct {
	mu       sync.Mutex
	limits   map[models.Provider]Limit
	limiters map[models.Provider]*rate.Limiter
}

func New(limits map[models.Provider]Limit) *Limiter {
	l := &Limiter{
		limits:   make(map[models.Provider]Limit, len(limits)),
		limiters: make(map[models.Provider]*rate.Limiter),
	}
	for p, lim := range limits {
		l.limits[p] = lim
	}
	return l
}

func (l *Limiter) limiterFor(p models.Provider) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[p]; ok {
		return lim
	}
	cfg := l.limits[p]
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	every := rate.Inf
	if cfg.Interval > 0 {
		every = rate.Every(cfg.Interval)
	}
	lim := rate.NewLimiter(every, burst)
	l.limiters[p] = lim
	return lim
}

// Wait blocks until a call to provider p may proceed or ctx is done. A
// context deadline ends the wait only once it has actually passed, and the
// returned error then wraps ctx.Err().
func (l *Limiter) Wait(ctx context.Context, p models.Provider) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", p, err)
	}
	r := l.limiterFor(p).Reserve()
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		// Give the token back so later callers are not delayed by it.
		r.Cancel()
		return fmt.Errorf("rate limit wait for %s: %w", p, ctx.Err())
	}
}
