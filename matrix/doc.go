// SPDX-License-Identifier: MIT

// Package matrix provides the immutable byte adjacency matrix shared by the
// generator, the hop-distance kernels and the worker strategies.
//
// What
//
//   - Adjacency is an M×M matrix of {0,1} bytes in row-major order
//     (offset = i*M + j). An entry (i,j)=1 is a directed edge i→j.
//   - There is no Set: once constructed, a matrix is read-only for every
//     component. Bytes returns a copy; CopyTo writes the raw layout into a
//     caller buffer (e.g. a shared-memory region).
//   - Wrap builds a no-copy view over a buffer the caller promises never to
//     mutate again. Shared-memory views use it over PROT_READ mappings.
//   - ReachStep is the boolean vector–matrix product used by the kernels.
//
// Determinism
//
//	All loops walk rows ascending, then columns ascending. No maps.
//
// Complexity
//
//   - New/Wrap: O(M²) (binary-domain validation); At: O(1);
//     ReachStep: O(M·r) where r is the number of nonzero entries in src.
package matrix
