// SPDX-License-Identifier: MIT

// Package hops computes hop-limited distances on a matrix.Adjacency.
//
// The canonical kernel (KernelVecMat) keeps a reachability row vector v of
// length M, starts from the one-hot vector e_i and repeats v ← bool(v·A) up
// to maxHops times, returning the first step k at which v[j] becomes
// nonzero. After each step v is clipped to {0,1}, so the vector never holds
// path counts and cannot overflow for any maxHops.
//
// KernelBFS answers the same question with a frontier search (package bfs)
// and is kept behind the same Compute entry point; both kernels agree on
// every input.
//
// Both kernels are pure functions of (matrix, i, j, maxHops): they never
// mutate the matrix and hold no state between calls, so they run unchanged
// inside goroutine workers and child-process workers.
package hops
