// SPDX-License-Identifier: MIT

package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("pool: executor closed")

	// ErrInvalidWorkers indicates a worker count < 1.
	ErrInvalidWorkers = errors.New("pool: workers must be >= 1")

	// ErrTaskExecution matches every *TaskError via errors.Is.
	ErrTaskExecution = errors.New("pool: task execution failed")

	// ErrWorkerLost indicates a child process died or broke the stream mid-task.
	ErrWorkerLost = errors.New("pool: worker lost")

	// ErrUnknownOp indicates a worker was asked to serve an op it does not know.
	ErrUnknownOp = errors.New("pool: unknown op")

	// ErrInvalidCommand indicates an empty worker command line.
	ErrInvalidCommand = errors.New("pool: empty worker command")
)

// TaskError reports the failure of one task, identified by its submission id.
type TaskError struct {
	TaskID int
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("pool: task %d: %v", e.TaskID, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *TaskError) Unwrap() error { return e.Err }

// Is makes every TaskError match ErrTaskExecution.
func (e *TaskError) Is(target error) bool { return target == ErrTaskExecution }

// remoteError carries a worker-side error message across the process boundary.
type remoteError struct{ msg string }

func (e *remoteError) Error() string { return e.msg }
