// SPDX-License-Identifier: MIT

package pool

import (
	"context"
	"time"
)

// Handler is the task body. It must be safe for concurrent use.
type Handler[J, R any] func(ctx context.Context, job J) (R, error)

// Executor is the contract shared by ThreadPool and ProcessPool.
type Executor[J, R any] interface {
	// Submit enqueues job under the caller-chosen id. It blocks while the
	// queue is full and fails with ErrClosed after Close.
	Submit(ctx context.Context, id int, job J) (*Future[R], error)
	// Close stops accepting work, waits for queued and running tasks and
	// shuts the workers down.
	Close() error
}

// Future is the pending result of one submitted task.
type Future[R any] struct {
	id   int
	done chan struct{}

	// written once before done is closed
	value   R
	err     error
	elapsed time.Duration
}

func newFuture[R any](id int) *Future[R] {
	return &Future[R]{id: id, done: make(chan struct{})}
}

// resolve must be called exactly once.
func (f *Future[R]) resolve(v R, elapsed time.Duration, err error) {
	f.value, f.elapsed, f.err = v, elapsed, err
	close(f.done)
}

// fail resolves f with a *TaskError around err.
func (f *Future[R]) fail(err error) {
	var zero R
	f.resolve(zero, 0, &TaskError{TaskID: f.id, Err: err})
}

// ID returns the submission id.
func (f *Future[R]) ID() int { return f.id }

// Done is closed once the task has finished.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Wait blocks until the task finishes or ctx is done. A task failure is
// returned as *TaskError.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Elapsed is the worker-reported run time of the task body. Zero until Done.
func (f *Future[R]) Elapsed() time.Duration {
	select {
	case <-f.done:
		return f.elapsed
	default:
		return 0
	}
}

// Outcome is a harvested future.
type Outcome[R any] struct {
	TaskID  int
	Value   R
	Elapsed time.Duration
	Err     error
}

func outcomeOf[R any](f *Future[R]) Outcome[R] {
	return Outcome[R]{TaskID: f.id, Value: f.value, Elapsed: f.elapsed, Err: f.err}
}

// Collect waits for every future and returns one Outcome each, ordered by
// submission or by completion. Task failures stay inside their Outcome; the
// only error Collect returns is ctx's.
func Collect[R any](ctx context.Context, futures []*Future[R], order Order) ([]Outcome[R], error) {
	out := make([]Outcome[R], 0, len(futures))
	if order != CompletionOrder {
		for _, f := range futures {
			if _, err := f.Wait(ctx); err != nil && ctx.Err() != nil {
				return out, ctx.Err()
			}
			out = append(out, outcomeOf(f))
		}
		return out, nil
	}

	finished := make(chan *Future[R], len(futures)) // buffered: senders never block
	for _, f := range futures {
		go func(f *Future[R]) {
			select {
			case <-f.done:
				finished <- f
			case <-ctx.Done():
			}
		}(f)
	}
	for range futures {
		select {
		case f := <-finished:
			out = append(out, outcomeOf(f))
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}

// SubmitAll submits jobs with ids 0..len(jobs)-1. On a submit failure the
// futures accepted so far are returned with the error.
func SubmitAll[J, R any](ctx context.Context, ex Executor[J, R], jobs []J) ([]*Future[R], error) {
	futures := make([]*Future[R], 0, len(jobs))
	for id, job := range jobs {
		f, err := ex.Submit(ctx, id, job)
		if err != nil {
			return futures, err
		}
		futures = append(futures, f)
	}
	return futures, nil
}

// Map submits every job and harvests in submission order.
func Map[J, R any](ctx context.Context, ex Executor[J, R], jobs []J) ([]Outcome[R], error) {
	futures, err := SubmitAll(ctx, ex, jobs)
	if err != nil {
		// drain what was accepted so no task outlives the caller's resources
		_, _ = Collect(context.WithoutCancel(ctx), futures, SubmissionOrder)
		return nil, err
	}
	return Collect(ctx, futures, SubmissionOrder)
}

// FirstError returns the first failed outcome's error, or nil.
func FirstError[R any](outcomes []Outcome[R]) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
