// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (optionally wrapped with method
// context via %w); callers and tests match them with errors.Is.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that a requested matrix order is non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside [0, M).
	// Public accessors MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates that a buffer or vector length does not
	// match the matrix shape (len(data) != M*M, len(vec) != M).
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonBinary signals an entry outside {0,1} at ingestion.
	ErrNonBinary = errors.New("matrix: non-binary entry")

	// ErrNilMatrix indicates that a nil *Adjacency (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)
