// SPDX-License-Identifier: MIT

// Package pool runs independent tasks on a fixed set of workers and hands
// back one Future per submitted task.
//
// Two executors share the same contract:
//
//   - ThreadPool runs tasks on goroutines inside this process. Jobs and
//     results are passed by reference; nothing is serialized.
//   - ProcessPool runs tasks in child processes. Every job and result crosses
//     a gob stream over the child's stdin/stdout, so J and R must be
//     gob-encodable. The child side is ServeWorker.
//
// Harvesting (Collect, Map) always waits for every future before returning,
// so a caller that owns a resource used by the tasks may release it as soon
// as Collect returns.
//
// A failed task never poisons the pool: its future resolves with a
// *TaskError and the remaining tasks keep running.
package pool
