// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for shape/index/domain checks.
//  - Return sentinels wrapped with a validator tag so call sites can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure and allocate nothing.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(a *Adjacency) error {
	if a == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateIndex ensures 0 ≤ i < a.Size().
// Assumes a is not nil (caller must ensure).
// Complexity: O(1).
func ValidateIndex(a *Adjacency, i int) error {
	if i < 0 || i >= a.n {
		return validatorErrorf("ValidateIndex", ErrOutOfRange)
	}

	return nil
}

// ValidateLayout checks that data is a legal row-major M×M {0,1} buffer.
//
// Errors: ErrInvalidDimensions (n<=0), ErrDimensionMismatch (len != n*n),
// ErrNonBinary (entry outside {0,1}).
// Complexity: O(n²) time, O(1) space.
func ValidateLayout(n int, data []byte) error {
	if n <= 0 {
		return validatorErrorf("ValidateLayout", ErrInvalidDimensions)
	}
	if len(data) != n*n {
		return validatorErrorf("ValidateLayout", ErrDimensionMismatch)
	}
	for off, v := range data {
		if v > 1 {
			return fmt.Errorf("ValidateLayout: entry (%d,%d)=%d: %w", off/n, off%n, v, ErrNonBinary)
		}
	}

	return nil
}

// ValidateVecLen ensures a reachability vector has length n.
// Complexity: O(1).
func ValidateVecLen(v []byte, n int) error {
	if len(v) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}
