// Package ratelimit paces recurring work on top of golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer limits how often scan cycles (or other recurring work) may run.
type Pacer struct {
	limiter *rate.Limiter
}

// New creates a Pacer allowing cyclesPerMinute cycles per minute.
func New(cyclesPerMinute int) *Pacer {
	rps := float64(cyclesPerMinute) / 60.0
	burst := cyclesPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// NewWithBurst creates a Pacer with an explicit per-second rate and burst.
func NewWithBurst(perSecond float64, burst int) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until the next cycle may run or the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Allow reports whether a cycle may run now without blocking.
func (p *Pacer) Allow() bool {
	return p.limiter.Allow()
}

// Tokens returns the current number of available tokens.
func (p *Pacer) Tokens() float64 {
	return p.limiter.Tokens()
}

// SetRate updates the allowed cycles per minute.
func (p *Pacer) SetRate(cyclesPerMinute int) {
	p.limiter.SetLimit(rate.Limit(float64(cyclesPerMinute) / 60.0))
}

// WaitWithTimeout waits for the next cycle slot, giving up after timeout.
func (p *Pacer) WaitWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.limiter.Wait(ctx)
}
