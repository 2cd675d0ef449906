// Package builder generates random adjacency matrices for the hop-distance
// demos. It follows the functional-options style: Generate takes the matrix
// order and edge density plus any number of Option values.
//
// The package offers:
//
//   - Generate(m, density, opts...): Erdős–Rényi-like {0,1} matrix sampler.
//   - Options:
//     – WithSeed:       deterministic RNG from a seed.
//     – WithRand:       explicit *rand.Rand.
//     – WithSelfLoops:  sample the diagonal too (default: no self-loops).
//     – WithSymmetric:  undirected sampling (default: directed).
//
// Guarantees:
//
//   - Same seed and options ⇒ identical matrix (fixed trial order).
//   - density 0 ⇒ no edges; density 1 ⇒ every admissible edge.
//   - Fast-fail on meaningless option parameters via panics in option constructors.
//   - Runtime validation errors are sentinels: ErrInvalidDimension, ErrInvalidDensity.
package builder
