// SPDX-License-Identifier: MIT

package pool

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type processTask[J, R any] struct {
	job J
	fut *Future[R]
}

// child is one worker process; it has at most one task in flight.
type child struct {
	id    int
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *gob.Encoder
	dec   *gob.Decoder
}

// ProcessPool runs tasks in child processes. Each child runs command and
// must call ServeWorker (or RunIfWorker) for the matching J and R.
type ProcessPool[J, R any] struct {
	queue    chan processTask[J, R]
	group    *errgroup.Group
	children []*child
	logger   *slog.Logger

	alive atomic.Int32
	dead  chan struct{} // closed when the last child is gone

	mu     sync.RWMutex
	closed bool
}

var _ Executor[int, int] = (*ProcessPool[int, int])(nil)

// NewProcessPool starts workers copies of command. A worker that dies
// mid-task fails that task with ErrWorkerLost and is not replaced; once all
// workers are gone every queued and later submitted task fails the same way.
func NewProcessPool[J, R any](workers int, command []string, opts ...Option) (*ProcessPool[J, R], error) {
	if workers < 1 {
		return nil, fmt.Errorf("pool: NewProcessPool(%d): %w", workers, ErrInvalidWorkers)
	}
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("pool: NewProcessPool: %w", ErrInvalidCommand)
	}
	o := newOptions(workers, opts)
	o.stderr = sharedStderr(o.stderr) // one writer for every child
	p := &ProcessPool[J, R]{
		queue:  make(chan processTask[J, R], o.queue),
		group:  new(errgroup.Group),
		logger: o.logger,
		dead:   make(chan struct{}),
	}

	for w := 0; w < workers; w++ {
		c, err := startChild(w, command, o)
		if err != nil {
			for _, started := range p.children {
				started.kill()
			}
			return nil, fmt.Errorf("pool: NewProcessPool: worker %d: %w", w, err)
		}
		p.children = append(p.children, c)
	}
	p.alive.Store(int32(workers))
	for _, c := range p.children {
		p.group.Go(func() error { return p.supervise(c) })
	}
	p.logger.Debug("process pool started", "pool", KindProcess, "workers", workers, "command", command[0])
	return p, nil
}

func startChild(id int, command []string, o options) (*child, error) {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Env = append(os.Environ(), o.env...)
	cmd.Stderr = o.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &child{
		id:    id,
		cmd:   cmd,
		stdin: stdin,
		enc:   gob.NewEncoder(stdin),
		dec:   gob.NewDecoder(bufio.NewReader(stdout)),
	}, nil
}

// supervise feeds one child from the shared queue until the queue closes
// or the child dies.
func (p *ProcessPool[J, R]) supervise(c *child) error {
	for t := range p.queue {
		resp, err := roundTrip[J, R](c, t.fut.id, t.job)
		if err != nil {
			p.logger.Warn("worker lost", "worker", c.id, "task_id", t.fut.id, "err", err)
			t.fut.fail(fmt.Errorf("%w: worker %d: %v", ErrWorkerLost, c.id, err))
			c.kill()
			p.retire()
			return fmt.Errorf("pool: worker %d: %w", c.id, ErrWorkerLost)
		}
		if resp.Failed {
			var zero R
			t.fut.resolve(zero, resp.Elapsed, &TaskError{TaskID: t.fut.id, Err: &remoteError{msg: resp.Err}})
			continue
		}
		t.fut.resolve(resp.Value, resp.Elapsed, nil)
	}
	return c.stop()
}

// retire accounts for a dead child; the last one fails whatever is left.
func (p *ProcessPool[J, R]) retire() {
	if p.alive.Add(-1) > 0 {
		return
	}
	close(p.dead)
	for t := range p.queue {
		t.fut.fail(ErrWorkerLost)
	}
}

func roundTrip[J, R any](c *child, id int, job J) (response[R], error) {
	var resp response[R]
	if err := c.enc.Encode(&request[J]{ID: id, Job: job}); err != nil {
		return resp, fmt.Errorf("send: %w", err)
	}
	if err := c.dec.Decode(&resp); err != nil {
		return resp, fmt.Errorf("receive: %w", err)
	}
	if resp.ID != id {
		return resp, fmt.Errorf("response for task %d, want %d", resp.ID, id)
	}
	return resp, nil
}

// stop closes stdin so the child's ServeWorker sees EOF, then reaps it.
func (c *child) stop() error {
	if err := c.stdin.Close(); err != nil {
		return fmt.Errorf("pool: worker %d: close stdin: %w", c.id, err)
	}
	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("pool: worker %d: exit: %w", c.id, err)
	}
	return nil
}

func (c *child) kill() {
	_ = c.stdin.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	_ = c.cmd.Wait()
}

// Submit enqueues job; it is gob-encoded when a child picks it up.
func (p *ProcessPool[J, R]) Submit(ctx context.Context, id int, job J) (*Future[R], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrClosed
	}
	f := newFuture[R](id)
	select {
	case p.queue <- processTask[J, R]{job: job, fut: f}:
		return f, nil
	case <-p.dead:
		return nil, ErrWorkerLost
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close drains the queue, closes every child's stdin and waits for the
// children to exit. Idempotent. It reports ErrWorkerLost if any child died.
func (p *ProcessPool[J, R]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	err := p.group.Wait()
	if err != nil && !errors.Is(err, ErrWorkerLost) {
		p.logger.Warn("process pool shutdown", "err", err)
	}
	return err
}
