// SPDX-License-Identifier: MIT
// Package: hopshare/builder
//
// config.go - internal configuration and defaults.
//
// Defaults:
//   • rng        = nil → resolved to a wall-clock seeded RNG in Generate
//   • selfLoops  = false
//   • symmetric  = false (directed)

package builder

import (
	"math/rand"
	"time"
)

// builderConfig aggregates all knobs used by Generate.
// It is passed by VALUE to the sampler (immutable to callers).
type builderConfig struct {
	rng       *rand.Rand // RNG for Bernoulli trials; nil until resolved
	selfLoops bool       // sample the diagonal too
	symmetric bool       // mirror every trial (undirected)
}

// newBuilderConfig applies options in order (last wins) and resolves the RNG.
func newBuilderConfig(opts ...Option) builderConfig {
	var cfg builderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		// No seed requested: non-deterministic by contract.
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return cfg
}
