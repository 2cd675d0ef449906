// SPDX-License-Identifier: MIT

package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hopshare/timing"
)

type threadTask[J, R any] struct {
	ctx context.Context
	job J
	fut *Future[R]
}

// ThreadPool runs a Handler on a fixed number of goroutines.
type ThreadPool[J, R any] struct {
	handler Handler[J, R]
	queue   chan threadTask[J, R]
	group   *errgroup.Group
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ Executor[int, int] = (*ThreadPool[int, int])(nil)

// NewThreadPool starts workers goroutines that run h.
func NewThreadPool[J, R any](workers int, h Handler[J, R], opts ...Option) (*ThreadPool[J, R], error) {
	if workers < 1 {
		return nil, fmt.Errorf("pool: NewThreadPool(%d): %w", workers, ErrInvalidWorkers)
	}
	if h == nil {
		panic("pool: NewThreadPool(nil handler)")
	}
	o := newOptions(workers, opts)
	p := &ThreadPool[J, R]{
		handler: h,
		queue:   make(chan threadTask[J, R], o.queue),
		group:   new(errgroup.Group),
		logger:  o.logger,
	}
	for w := 0; w < workers; w++ {
		p.group.Go(func() error {
			for t := range p.queue {
				p.run(t)
			}
			return nil
		})
	}
	p.logger.Debug("thread pool started", "pool", KindThread, "workers", workers)
	return p, nil
}

func (p *ThreadPool[J, R]) run(t threadTask[J, R]) {
	call := timing.TimedErr(func(job J) (R, error) {
		return safeCall(t.ctx, p.handler, job)
	})
	v, elapsed, err := call(t.job)
	if err != nil {
		p.logger.Debug("task failed", "task_id", t.fut.id, "err", err)
		err = &TaskError{TaskID: t.fut.id, Err: err}
	}
	t.fut.resolve(v, elapsed, err)
}

// Submit enqueues job. The job value is handed to the worker as is.
func (p *ThreadPool[J, R]) Submit(ctx context.Context, id int, job J) (*Future[R], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	f := newFuture[R](id)
	select {
	case p.queue <- threadTask[J, R]{ctx: ctx, job: job, fut: f}:
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close drains the queue and waits for every worker. Idempotent.
func (p *ThreadPool[J, R]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	return p.group.Wait()
}

// safeCall turns a handler panic into an error so one task cannot take the
// worker down.
func safeCall[J, R any](ctx context.Context, h Handler[J, R], job J) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}
