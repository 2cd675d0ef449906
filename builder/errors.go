// SPDX-License-Identifier: MIT
// Package: hopshare/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context using `%w` (see builderErrorf).
//   • Generate MUST NOT panic at runtime; validation panics are confined to
//     option constructor functions (WithX...).

package builder

import (
	"errors"
	"fmt"
)

// ErrInvalidDimension indicates that the requested matrix order M is ≤ 0.
// Classification: Validation error (parameters).
// Usage: if errors.Is(err, ErrInvalidDimension) { /* report invalid size */ }.
var ErrInvalidDimension = errors.New("builder: matrix order must be > 0")

// ErrInvalidDensity indicates that the edge density is NaN or outside the
// closed interval [0,1].
// Usage: if errors.Is(err, ErrInvalidDensity) { /* clamp or reject density */ }.
var ErrInvalidDensity = errors.New("builder: density out of range")

// builderErrorf wraps a sentinel with method context:
// "<Method>: <formatted message>: <sentinel>".
//
// Complexity: O(len(format) + Σlen(args)), negligible for our use.
func builderErrorf(method string, err error, format string, args ...interface{}) error {
	inner := fmt.Sprintf(format, args...)

	return fmt.Errorf("%s: %s: %w", method, inner, err)
}
