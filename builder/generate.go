// SPDX-License-Identifier: MIT
// Package: hopshare/builder
//
// generate.go - implementation of Generate(m, density).
//
// Canonical model:
//   - Erdős–Rényi-like sampler: include each admissible entry independently with prob density.
//   - Directed (default): iterate ordered pairs (i,j); the diagonal is skipped unless WithSelfLoops.
//   - Symmetric: iterate unordered pairs {i,j} with i<j (i==j when WithSelfLoops) and mirror.
//
// Contract:
//   - m ≥ 1 (else ErrInvalidDimension).
//   - 0 ≤ density ≤ 1, not NaN (else ErrInvalidDensity).
//   - Trial rule rng.Float64() < density: density 0 yields no edges, density 1 yields every
//     admissible edge.
//   - Returns only sentinel errors; never panics at runtime.
//
// Complexity:
//   - Time: O(m²) Bernoulli trials.
//   - Space: one m² byte buffer, handed off to the matrix without copying.
//
// Determinism:
//   - Stable trial order: for each i asc, j asc (symmetric uses j≥i).
//   - Deterministic outcomes for a fixed seed due to fixed trial order.

package builder

import (
	"math"

	"github.com/katalvlaran/hopshare/matrix"
)

// File-local constants (no magic literals; stable method tag and domains).
const (
	methodGenerate = "Generate"
	minOrder       = 1
	densityMin     = 0.0
	densityMax     = 1.0
)

// Generate samples an m×m {0,1} adjacency matrix with independent edge
// probability density. The result is immutable and owned by the caller.
func Generate(m int, density float64, opts ...Option) (*matrix.Adjacency, error) {
	// 1) Validate parameters early (fail fast, zero side-effects on invalid input).
	if m < minOrder {
		return nil, builderErrorf(methodGenerate, ErrInvalidDimension, "m=%d < min=%d", m, minOrder)
	}
	if math.IsNaN(density) || density < densityMin || density > densityMax {
		return nil, builderErrorf(methodGenerate, ErrInvalidDensity,
			"density=%.6f not in [%.1f,%.1f]", density, densityMin, densityMax)
	}

	// 2) Resolve configuration once.
	cfg := newBuilderConfig(opts...)
	data := make([]byte, m*m) // zero-filled: "no edge" everywhere

	// 3) Sample entries with a stable, documented order.
	if cfg.symmetric {
		sampleSymmetric(data, m, density, cfg)
	} else {
		sampleDirected(data, m, density, cfg)
	}

	// 4) Hand the buffer off; nothing else holds a reference to data.
	return matrix.Wrap(m, data)
}

// sampleDirected runs one trial per ordered pair (i,j).
func sampleDirected(data []byte, m int, density float64, cfg builderConfig) {
	rng := cfg.rng
	for i := 0; i < m; i++ { // stable outer loop: i asc
		base := i * m
		for j := 0; j < m; j++ { // inner loop: j asc
			if i == j && !cfg.selfLoops {
				continue
			}
			if rng.Float64() < density {
				data[base+j] = 1
			}
		}
	}
}

// sampleSymmetric runs one trial per unordered pair {i,j} and mirrors it.
func sampleSymmetric(data []byte, m int, density float64, cfg builderConfig) {
	rng := cfg.rng
	for i := 0; i < m; i++ {
		start := i + 1
		if cfg.selfLoops {
			start = i // diagonal is its own mirror
		}
		for j := start; j < m; j++ {
			if rng.Float64() < density {
				data[i*m+j] = 1
				data[j*m+i] = 1
			}
		}
	}
}
