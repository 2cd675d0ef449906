// SPDX-License-Identifier: MIT

// Package distance fans hop-distance queries for many vertex pairs out to a
// worker pool and collects one Result per Pair.
//
// Two strategies share one contract (Strategy.Run):
//
//   - copy: each Job carries its own copy of the matrix bytes. The cost
//     grows with matrix size × number of dispatches.
//   - shared: the matrix is written once into a shared-memory region; Jobs
//     carry only a shmem.Handle and workers attach a read-only view, cached
//     for the life of the worker.
//
// In both cases Run returns only after every task has resolved and the
// pool has shut down. The shared strategy releases its region after that
// barrier, never before.
//
// Failed tasks are reported per Pair. Policy decides whether a failure is
// merely listed (CollectAll, default) or also stops further dispatch and is
// returned from Run (FailFast).
package distance
