// Package circuitbreaker wraps sony/gobreaker with project defaults.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config holds circuit breaker settings.
type Config struct {
	Name          string
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	FailureRatio  float64
	MinRequests   uint32
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultConfig returns sensible defaults: trip after 60% failures over
// at least 3 requests, probe again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  3,
	}
}

// Breaker is a typed circuit breaker.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a Breaker from Config.
func New[T any](cfg Config) *Breaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: cfg.OnStateChange,
	}

	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	return b.cb.Execute(fn)
}

// State returns the breaker's current state.
func (b *Breaker[T]) State() gobreaker.State {
	return b.cb.State()
}
