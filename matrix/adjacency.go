// SPDX-License-Identifier: MIT

// Package matrix - Adjacency storage (row-major bytes) & read-only accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major {0,1} buffer with the explicit index formula i*n + j.
//   - Guarantee immutability at the public surface: there is no Set; Bytes copies.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//
// AI-Hints:
//   - Use Wrap for buffers you hand off (generator output, read-only mmap views).
//   - Use New when the caller keeps ownership of data; it is copied.
//   - ReachStep is the hot path of the vecmat kernel; it walks only the rows
//     selected by nonzero entries of src.
package matrix

import (
	"bytes"
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt        = "At"
	ctxCopyTo    = "CopyTo"
	ctxReachStep = "ReachStep"
	ctxNew       = "New"
	ctxWrap      = "Wrap"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = " "
)

// DType names the element type of the raw layout (one byte per entry).
const DType = "uint8"

// adjacencyErrorf wraps an error with a uniform Adjacency context and callsite indices.
func adjacencyErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Adjacency.%s(%d,%d): %w", method, row, col, err)
}

// Adjacency is an immutable M×M directed adjacency matrix.
//   - n holds the order M.
//   - data is a flat buffer of length n*n in row-major order (offset = i*n + j).
type Adjacency struct {
	n    int    // matrix order (> 0)
	data []byte // contiguous row-major storage, entries in {0,1}
}

var _ fmt.Stringer = (*Adjacency)(nil)

// New validates data and returns an Adjacency holding a private copy of it.
//
// Errors: ErrInvalidDimensions, ErrDimensionMismatch, ErrNonBinary.
// Complexity: O(n²) time, O(n²) space.
func New(n int, data []byte) (*Adjacency, error) {
	if err := ValidateLayout(n, data); err != nil {
		return nil, fmt.Errorf("%s: %w", ctxNew, err)
	}
	buf := make([]byte, len(data)) // private storage; caller keeps ownership of data
	copy(buf, data)

	return &Adjacency{n: n, data: buf}, nil
}

// Wrap validates data and returns an Adjacency that aliases it (no copy).
// The caller hands off data: nobody may write to it for the matrix lifetime.
// Read-only memory (e.g. a PROT_READ mapping) is the intended backing.
//
// Errors: ErrInvalidDimensions, ErrDimensionMismatch, ErrNonBinary.
// Complexity: O(n²) time, O(1) space.
func Wrap(n int, data []byte) (*Adjacency, error) {
	if err := ValidateLayout(n, data); err != nil {
		return nil, fmt.Errorf("%s: %w", ctxWrap, err)
	}

	return &Adjacency{n: n, data: data}, nil
}

// Size returns the order M. Complexity: O(1).
func (a *Adjacency) Size() int { return a.n }

// Rows returns the row count (== Size). Complexity: O(1).
func (a *Adjacency) Rows() int { return a.n }

// Cols returns the column count (== Size). Complexity: O(1).
func (a *Adjacency) Cols() int { return a.n }

// ByteSize returns the length of the raw row-major layout (M*M).
func (a *Adjacency) ByteSize() int { return len(a.data) }

// At returns the entry at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (a *Adjacency) At(row, col int) (byte, error) {
	if row < 0 || row >= a.n || col < 0 || col >= a.n {
		return 0, adjacencyErrorf(ctxAt, row, col, ErrOutOfRange)
	}

	return a.data[row*a.n+col], nil
}

// HasEdge reports whether the directed edge row→col exists.
// Out-of-range indices report false.
func (a *Adjacency) HasEdge(row, col int) bool {
	v, err := a.At(row, col)

	return err == nil && v != 0
}

// Neighbors returns the column indices of row's out-edges in ascending order.
// Complexity: O(n) time, O(deg) space.
func (a *Adjacency) Neighbors(row int) ([]int, error) {
	if row < 0 || row >= a.n {
		return nil, adjacencyErrorf("Neighbors", row, 0, ErrOutOfRange)
	}
	base := row * a.n
	out := make([]int, 0, 8)
	for j := 0; j < a.n; j++ {
		if a.data[base+j] != 0 {
			out = append(out, j)
		}
	}

	return out, nil
}

// EdgeCount returns the number of nonzero entries (self-loops included).
// Complexity: O(n²).
func (a *Adjacency) EdgeCount() int {
	edges := 0
	for _, v := range a.data {
		edges += int(v)
	}

	return edges
}

// Density returns EdgeCount / (M*M).
func (a *Adjacency) Density() float64 {
	return float64(a.EdgeCount()) / float64(len(a.data))
}

// IsSymmetric reports whether a[i,j] == a[j,i] for all i<j.
// Complexity: O(n²) on the upper triangle.
func (a *Adjacency) IsSymmetric() bool {
	for i := 0; i < a.n; i++ {
		for j := i + 1; j < a.n; j++ {
			if a.data[i*a.n+j] != a.data[j*a.n+i] {
				return false
			}
		}
	}

	return true
}

// Bytes returns a copy of the raw row-major layout.
// Complexity: O(n²) time and space.
func (a *Adjacency) Bytes() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)

	return out
}

// CopyTo writes the raw row-major layout into dst and returns the byte count.
// Returns ErrDimensionMismatch if dst is shorter than ByteSize.
func (a *Adjacency) CopyTo(dst []byte) (int, error) {
	if len(dst) < len(a.data) {
		return 0, fmt.Errorf("Adjacency.%s: len(dst)=%d < %d: %w", ctxCopyTo, len(dst), len(a.data), ErrDimensionMismatch)
	}

	return copy(dst, a.data), nil
}

// Equal reports whether b has the same order and entries.
func (a *Adjacency) Equal(b *Adjacency) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.n == b.n && bytes.Equal(a.data, b.data)
}

// ReachStep computes dst = bool(src · A): dst[c] = 1 iff some r has
// src[r] != 0 and A[r,c] = 1. Values are clipped to {0,1}, never counts.
// dst is overwritten; src is only read. It reports whether dst has any
// nonzero entry.
//
// Errors: ErrDimensionMismatch when len(src) or len(dst) != M.
// Complexity: O(M·r) where r = nonzero entries of src; no allocations.
//
// AI-Hints:
//   - Reuse dst/src across hops and swap them; the kernel allocates two
//     vectors per call and nothing per step.
func (a *Adjacency) ReachStep(dst, src []byte) (bool, error) {
	if err := ValidateVecLen(src, a.n); err != nil {
		return false, fmt.Errorf("Adjacency.%s: src: %w", ctxReachStep, err)
	}
	if err := ValidateVecLen(dst, a.n); err != nil {
		return false, fmt.Errorf("Adjacency.%s: dst: %w", ctxReachStep, err)
	}
	clear(dst)

	hit := false
	for r := 0; r < a.n; r++ { // fixed r order
		if src[r] == 0 {
			continue // row not in the frontier
		}
		row := a.data[r*a.n : (r+1)*a.n]
		for c, e := range row {
			if e != 0 && dst[c] == 0 {
				dst[c] = 1 // boolean OR; never accumulate path counts
				hit = true
			}
		}
	}

	return hit, nil
}

// String renders the matrix one row per line: "[0 1 0]\n".
func (a *Adjacency) String() string {
	var sb strings.Builder
	sb.Grow(a.n * (2*a.n + 2))
	for i := 0; i < a.n; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < a.n; j++ {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			sb.WriteByte('0' + a.data[i*a.n+j])
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
