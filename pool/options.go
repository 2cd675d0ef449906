// SPDX-License-Identifier: MIT

package pool

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Option configures an executor.
type Option func(*options)

type options struct {
	logger *slog.Logger
	env    []string
	stderr io.Writer
	queue  int
}

func newOptions(workers int, opts []Option) options {
	o := options{
		logger: slog.Default(),
		stderr: os.Stderr,
		queue:  workers,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the executor logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("pool: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}

// WithEnv appends KEY=VALUE entries to the child environment (process pools only).
func WithEnv(kv ...string) Option {
	return func(o *options) { o.env = append(o.env, kv...) }
}

// WithStderr redirects child stderr (process pools only). Any writer other
// than an *os.File is shared by every child behind a lock. Panics on nil.
func WithStderr(w io.Writer) Option {
	if w == nil {
		panic("pool: WithStderr(nil)")
	}
	return func(o *options) { o.stderr = w }
}

// WithQueueSize sets the submit buffer; Submit blocks once it is full.
// Defaults to the worker count. Panics on negative n.
func WithQueueSize(n int) Option {
	if n < 0 {
		panic("pool: WithQueueSize(negative)")
	}
	return func(o *options) { o.queue = n }
}

// lockedWriter serializes the per-child stderr copy goroutines os/exec
// starts for writers that are not an *os.File.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// sharedStderr returns w wrapped for concurrent use by several children.
func sharedStderr(w io.Writer) io.Writer {
	switch w.(type) {
	case *os.File, *lockedWriter:
		return w
	}
	return &lockedWriter{w: w}
}
