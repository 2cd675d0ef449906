// SPDX-License-Identifier: MIT

package pool

import "fmt"

// Kind selects the executor flavor.
type Kind string

const (
	// KindThread runs tasks on goroutines in this process.
	KindThread Kind = "thread"
	// KindProcess runs tasks in child processes.
	KindProcess Kind = "process"
)

// ParseKind maps a flag value to a Kind; "" means KindThread.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindThread:
		return KindThread, nil
	case KindProcess:
		return KindProcess, nil
	}
	return "", fmt.Errorf("pool: unknown kind %q (want thread|process)", s)
}

// Order selects how Collect harvests futures.
type Order string

const (
	// SubmissionOrder yields outcomes in the order tasks were submitted.
	SubmissionOrder Order = "submission"
	// CompletionOrder yields outcomes as tasks finish.
	CompletionOrder Order = "completion"
)

// ParseOrder maps a flag value to an Order; "" means SubmissionOrder.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", SubmissionOrder:
		return SubmissionOrder, nil
	case CompletionOrder:
		return CompletionOrder, nil
	}
	return "", fmt.Errorf("pool: unknown order %q (want submission|completion)", s)
}
