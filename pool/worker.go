// SPDX-License-Identifier: MIT

package pool

import (
	"bufio"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/katalvlaran/hopshare/timing"
)

// EnvWorkerOp names the environment variable that turns a process into a
// pool worker serving the named op (see RunIfWorker).
const EnvWorkerOp = "HOPSHARE_WORKER_OP"

// request and response are the only values on the wire, one pair per task.
type request[J any] struct {
	ID  int
	Job J
}

type response[R any] struct {
	ID      int
	Value   R
	Failed  bool
	Err     string
	Elapsed time.Duration
}

// ServeWorker is the child side of a ProcessPool: it decodes requests from
// r, runs h on each and encodes one response per request to w, in order.
// It returns nil once r reaches EOF (the parent closed stdin).
func ServeWorker[J, R any](ctx context.Context, r io.Reader, w io.Writer, h Handler[J, R]) error {
	dec := gob.NewDecoder(bufio.NewReader(r))
	bw := bufio.NewWriter(w)
	enc := gob.NewEncoder(bw)

	for {
		var req request[J] // fresh value: gob leaves absent fields untouched
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("pool: ServeWorker: decode: %w", err)
		}

		call := timing.TimedErr(func(job J) (R, error) {
			return safeCall(ctx, h, job)
		})
		v, elapsed, err := call(req.Job)

		resp := response[R]{ID: req.ID, Elapsed: elapsed}
		if err != nil {
			resp.Failed, resp.Err = true, err.Error()
		} else {
			resp.Value = v
		}
		if err := enc.Encode(&resp); err != nil {
			return fmt.Errorf("pool: ServeWorker: encode: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("pool: ServeWorker: flush: %w", err)
		}
	}
}

// ServeFunc serves one op over a request/response stream.
type ServeFunc func(ctx context.Context, r io.Reader, w io.Writer) error

// Serve binds h into a ServeFunc.
func Serve[J, R any](h Handler[J, R]) ServeFunc {
	return func(ctx context.Context, r io.Reader, w io.Writer) error {
		return ServeWorker(ctx, r, w, h)
	}
}

// Registry maps op names to the worker loops a binary can serve.
type Registry map[string]ServeFunc

// Ops lists the registered op names in ascending order.
func (reg Registry) Ops() []string {
	ops := make([]string, 0, len(reg))
	for op := range reg {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Serve runs the loop registered for op.
func (reg Registry) Serve(ctx context.Context, op string, r io.Reader, w io.Writer) error {
	fn, ok := reg[op]
	if !ok {
		return fmt.Errorf("%w: %q (have %v)", ErrUnknownOp, op, reg.Ops())
	}
	return fn(ctx, r, w)
}

// RunIfWorker serves the op named by EnvWorkerOp on stdin/stdout and exits
// the process. It returns immediately when the variable is unset, so it can
// sit at the top of main or TestMain.
func RunIfWorker(reg Registry) {
	op := os.Getenv(EnvWorkerOp)
	if op == "" {
		return
	}
	if err := reg.Serve(context.Background(), op, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}
