// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"math/rand"
	"time"
)

// Default sleep distribution for DelayedReturn, in seconds.
const (
	DefaultMean  = 1.0
	DefaultSigma = 0.25
)

// DelayOption configures DelayedReturn.
type DelayOption func(*delayConfig)

type delayConfig struct {
	seconds *float64 // fixed delay; nil draws from N(mean, sigma)
	mean    float64
	sigma   float64
	rng     *rand.Rand
}

// WithSeconds sleeps exactly s seconds. Non-positive s means no sleep.
func WithSeconds(s float64) DelayOption {
	return func(c *delayConfig) { c.seconds = &s }
}

// WithDistribution draws the delay from N(mean, sigma). Panics on negative sigma.
func WithDistribution(mean, sigma float64) DelayOption {
	if sigma < 0 {
		panic("tasks: WithDistribution(negative sigma)")
	}
	return func(c *delayConfig) { c.mean, c.sigma = mean, sigma }
}

// WithRand sets the jitter source. Panics on nil.
func WithRand(r *rand.Rand) DelayOption {
	if r == nil {
		panic("tasks: WithRand(nil)")
	}
	return func(c *delayConfig) { c.rng = r }
}

// Delay returns the sleep a DelayedReturn call with opts would take.
func Delay(opts ...DelayOption) time.Duration {
	cfg := delayConfig{mean: DefaultMean, sigma: DefaultSigma}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := 0.0
	switch {
	case cfg.seconds != nil:
		s = *cfg.seconds
	case cfg.rng != nil:
		s = cfg.rng.NormFloat64()*cfg.sigma + cfg.mean
	default:
		s = rand.NormFloat64()*cfg.sigma + cfg.mean
	}
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// DelayedReturn sleeps, then returns value. A done ctx cuts the sleep short
// and returns ctx.Err().
func DelayedReturn[T any](ctx context.Context, value T, opts ...DelayOption) (T, error) {
	d := Delay(opts...)
	if d == 0 {
		return value, nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
