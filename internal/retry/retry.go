// Package retry runs an operation with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"macroflow/logger"
)

// ErrExhausted is wrapped by the error returned once every attempt failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Clock abstracts time so backoff can be driven by tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy holds the backoff parameters.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	// Jitter is the fraction of the delay randomly added or removed.
	Jitter float64
}

// DefaultPolicy mirrors the shipped configuration.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
		Jitter:      0.1,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		p.Jitter = 0
	}
	return p
}

// Delay returns the un-jittered wait after the given failed attempt
// (1-based): BaseDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	p = p.normalized()
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

// Func is one attempt. attempt starts at 1.
type Func func(ctx context.Context, attempt int) error

// Retryer executes a Func under a Policy.
type Retryer struct {
	policy    Policy
	clock     Clock
	retryable func(error) bool
	// OnRetry, when set, is called before each backoff wait.
	OnRetry func(attempt int, err error, delay time.Duration)
	log     *logger.Log
}

// New builds a Retryer. A nil retryable predicate retries every error and a
// nil clock uses the real one.
func New(policy Policy, clock Clock, retryable func(error) bool) *Retryer {
	if clock == nil {
		clock = RealClock()
	}
	if retryable == nil {
		retryable = func(error) bool { return true }
	}
	return &Retryer{
		policy:    policy.normalized(),
		clock:     clock,
		retryable: retryable,
		log:       logger.GetLogger(),
	}
}

// Policy returns the effective policy.
func (r *Retryer) Policy() Policy { return r.policy }

// Execute calls fn until it succeeds, returns a non-retryable error, the
// attempts run out, or ctx is done. No attempt starts after ctx is done. It
// returns the number of attempts made.
func (r *Retryer) Execute(ctx context.Context, fn Func) (int, error) {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempts, stopped(attempts, lastErr, err)
		}

		attempts = attempt
		err := fn(ctx, attempt)
		if err == nil {
			return attempts, nil
		}
		lastErr = err

		if !r.retryable(err) {
			return attempts, err
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		delay := r.jittered(r.policy.Delay(attempt))
		if r.OnRetry != nil {
			r.OnRetry(attempt, err, delay)
		}
		r.log.WithComponent("retry").WithFields(logger.Fields{
			"attempt": attempt,
			"delay":   delay.String(),
		}).WithError(err).Debug("attempt failed, backing off")

		if err := r.clock.Sleep(ctx, delay); err != nil {
			return attempts, stopped(attempts, lastErr, err)
		}
	}

	return attempts, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func (r *Retryer) jittered(d time.Duration) time.Duration {
	if r.policy.Jitter == 0 || d == 0 {
		return d
	}
	j := (rand.Float64()*2 - 1) * r.policy.Jitter * float64(d)
	out := time.Duration(float64(d) + j)
	if out < 0 {
		return 0
	}
	return out
}

func stopped(attempts int, last, ctxErr error) error {
	if last == nil {
		return fmt.Errorf("stopped before first attempt: %w", ctxErr)
	}
	return fmt.Errorf("stopped after %d attempts (last error: %v): %w", attempts, last, ctxErr)
}
