// SPDX-License-Identifier: MIT

package hops

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hopshare/bfs"
	"github.com/katalvlaran/hopshare/matrix"
)

// Unreachable is returned when j has no path from i within maxHops.
const Unreachable = -1

// Kernel names a distance algorithm.
type Kernel string

const (
	// KernelVecMat iterates boolean vector–matrix products.
	KernelVecMat Kernel = "vecmat"
	// KernelBFS runs a depth-limited frontier search.
	KernelBFS Kernel = "bfs"
)

// ParseKernel validates a kernel name; "" selects KernelVecMat.
func ParseKernel(s string) (Kernel, error) {
	switch Kernel(s) {
	case "", KernelVecMat:
		return KernelVecMat, nil
	case KernelBFS:
		return KernelBFS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKernel, s)
	}
}

// validate runs the shared argument checks of every kernel.
func validate(m *matrix.Adjacency, i, j, maxHops int) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	if err := matrix.ValidateIndex(m, i); err != nil {
		return fmt.Errorf("%w: i=%d, M=%d: %w", ErrIndexOutOfRange, i, m.Size(), err)
	}
	if err := matrix.ValidateIndex(m, j); err != nil {
		return fmt.Errorf("%w: j=%d, M=%d: %w", ErrIndexOutOfRange, j, m.Size(), err)
	}
	if maxHops < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxHops, maxHops)
	}

	return nil
}

// Distance returns the smallest k ≤ maxHops such that j is reachable from
// i in exactly k steps of v ← bool(v·A), or Unreachable.
//
// Contract:
//   - i == j ⇒ 0 for any maxHops ≥ 0.
//   - Stops early once v is all-zero (no walk continues).
//   - Does not mutate m.
//
// Errors: matrix.ErrNilMatrix, ErrIndexOutOfRange, ErrInvalidMaxHops.
// Complexity: O(maxHops · M²) worst case; 2·M bytes of scratch.
func Distance(m *matrix.Adjacency, i, j, maxHops int) (int, error) {
	if err := validate(m, i, j, maxHops); err != nil {
		return Unreachable, err
	}
	if i == j {
		return 0, nil
	}

	n := m.Size()
	v := make([]byte, n)
	next := make([]byte, n)
	v[i] = 1 // one-hot start

	for k := 1; k <= maxHops; k++ {
		alive, err := m.ReachStep(next, v)
		if err != nil {
			return Unreachable, err
		}
		if next[j] != 0 {
			return k, nil
		}
		if !alive {
			break // frontier died out
		}
		v, next = next, v
	}

	return Unreachable, nil
}

// Compute dispatches to the selected kernel.
func Compute(kernel Kernel, m *matrix.Adjacency, i, j, maxHops int) (int, error) {
	switch kernel {
	case "", KernelVecMat:
		return Distance(m, i, j, maxHops)
	case KernelBFS:
		if err := validate(m, i, j, maxHops); err != nil {
			return Unreachable, err
		}
		d, err := bfs.HopDistance(m, i, j, maxHops)
		if err != nil {
			if errors.Is(err, bfs.ErrStartOutOfRange) {
				return Unreachable, fmt.Errorf("%w: %w", ErrIndexOutOfRange, err)
			}
			return Unreachable, err
		}
		return d, nil // bfs.Unreached == Unreachable
	default:
		return Unreachable, fmt.Errorf("%w: %q", ErrUnknownKernel, kernel)
	}
}
