// SPDX-License-Identifier: MIT
// Package: hopshare/builder
//
// options.go - functional options for Generate.
//
// Contract (strict):
//   • Options are functional (type Option func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Generate itself MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.
//     Without either, Generate seeds from the wall clock.
//
// AI-Hints:
//   • Prefer WithSeed in tests and benchmarks to lock outcomes.
//   • WithSymmetric turns the directed default into an undirected graph
//     (both (i,j) and (j,i) set from one trial).

package builder

import (
	"math/rand"
)

// Option customizes Generate by mutating a builderConfig before sampling.
// Complexity: applying N options costs O(N) time, O(1) space.
type Option func(*builderConfig)

// WithRand provides an explicit RNG. Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) Option {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSelfLoops allows diagonal entries to be sampled like any other.
// Default: diagonal is always 0.
func WithSelfLoops() Option {
	return func(c *builderConfig) {
		c.selfLoops = true
	}
}

// WithSymmetric samples unordered pairs {i,j} once and mirrors the outcome.
// Default: directed, every ordered pair is an independent trial.
func WithSymmetric() Option {
	return func(c *builderConfig) {
		c.symmetric = true
	}
}
