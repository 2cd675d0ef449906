// SPDX-License-Identifier: MIT

// Package tasks holds the demo workloads used to compare pool kinds: an
// I/O-like task that only sleeps (DelayedReturn) and a CPU-bound one that
// burns cycles on purpose (LongFactorize).
//
// Both are exposed as pool handlers so the same job stream can run on a
// thread pool or a process pool.
package tasks
