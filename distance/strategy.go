// SPDX-License-Identifier: MIT

package distance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/hopshare/hops"
	"github.com/katalvlaran/hopshare/matrix"
	"github.com/katalvlaran/hopshare/metrics"
	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/report"
	"github.com/katalvlaran/hopshare/shmem"
	"github.com/katalvlaran/hopshare/timing"
)

// Strategy names.
const (
	StrategyCopy   = "copy"
	StrategyShared = "shared"
)

// Policy decides what a task failure does to the batch.
type Policy string

const (
	// CollectAll lists failures in Batch.Failures and returns no error.
	CollectAll Policy = "collect-all"
	// FailFast stops dispatching once a task has failed and returns the first
	// failure from Run. Tasks already dispatched still run to completion.
	FailFast Policy = "fail-fast"
)

// ParsePolicy maps a flag value to a Policy; "" means CollectAll.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", CollectAll:
		return CollectAll, nil
	case FailFast:
		return FailFast, nil
	}
	return "", fmt.Errorf("%w: %q (want collect-all|fail-fast)", ErrUnknownPolicy, s)
}

// Config carries the knobs of one Run.
type Config struct {
	MaxHops int
	Workers int
	Pool    pool.Kind
	Order   pool.Order
	Policy  Policy
	Kernel  hops.Kernel

	// Command and Env start process-pool workers; Command must serve OpDistance.
	Command []string
	Env     []string
	Stderr  io.Writer

	Logger  *slog.Logger     // nil means slog.Default()
	Metrics *metrics.Metrics // nil records nothing
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c Config) poolOptions() []pool.Option {
	opts := []pool.Option{pool.WithLogger(c.logger())}
	if c.Pool == pool.KindProcess {
		opts = append(opts, pool.WithEnv(c.Env...))
		if c.Stderr != nil {
			opts = append(opts, pool.WithStderr(c.Stderr))
		}
	}
	return opts
}

// Failure is one failed Pair.
type Failure struct {
	Pair Pair
	Err  error // *pool.TaskError
}

// Batch is everything a Run produced, in harvesting order.
type Batch struct {
	Strategy  string
	Results   []Result
	TaskTimes []time.Duration // aligned with Results
	Failures  []Failure       // harvested failures, then pairs FailFast never dispatched
	Wall      time.Duration
}

// Summary aggregates successful results for report.Display.
func (b *Batch) Summary() report.Summary[Result] {
	entries := make([]report.Entry[Result], len(b.Results))
	for i, r := range b.Results {
		entries[i] = report.Entry[Result]{Value: r, Elapsed: b.TaskTimes[i]}
	}
	return report.Aggregate(entries, b.Wall)
}

// Strategy distributes a batch of pairs over a pool.
type Strategy interface {
	Name() string
	Run(ctx context.Context, m *matrix.Adjacency, pairs []Pair, cfg Config) (*Batch, error)
}

// ByName returns the strategy called name.
func ByName(name string) (Strategy, error) {
	switch name {
	case StrategyCopy:
		return NewCopy(), nil
	case "", StrategyShared:
		return NewShared(), nil
	}
	return nil, fmt.Errorf("%w: %q (want copy|shared)", ErrUnknownStrategy, name)
}

// validate checks arguments common to both strategies before any worker
// starts. Bad pairs are not rejected here: they fail as their own tasks.
func validate(m *matrix.Adjacency, cfg Config) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return err
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers=%d: %w", cfg.Workers, pool.ErrInvalidWorkers)
	}
	if cfg.MaxHops < 0 {
		return fmt.Errorf("max_hops=%d: %w", cfg.MaxHops, hops.ErrInvalidMaxHops)
	}
	if _, err := hops.ParseKernel(string(cfg.Kernel)); err != nil {
		return err
	}
	return nil
}

// runBatch owns the pool for one batch: submit, harvest, close. Close is the
// completion barrier; nothing the jobs reference may be torn down before
// runBatch returns. jobFor builds each Job right before its Submit.
func runBatch(ctx context.Context, name string, pairs []Pair, jobFor func(Pair) Job, h pool.Handler[Job, Result], cfg Config) (*Batch, error) {
	log := cfg.logger().With("strategy", name, "pool", cfg.Pool, "workers", cfg.Workers)

	ex, err := pool.New[Job, Result](cfg.Pool, cfg.Workers, h, cfg.Command, cfg.poolOptions()...)
	if err != nil {
		return nil, err
	}

	sw := timing.Start()
	var (
		submitErr error
		tripped   atomic.Bool // a dispatched task has failed
		aborted   []Pair
	)
	futures := make([]*pool.Future[Result], 0, len(pairs))
	for id, p := range pairs {
		if cfg.Policy == FailFast && tripped.Load() {
			aborted = pairs[id:]
			break
		}
		f, err := ex.Submit(ctx, id, jobFor(p))
		if err != nil {
			submitErr = fmt.Errorf("submit %s: %w", p, err)
			break
		}
		futures = append(futures, f)
		if cfg.Policy == FailFast {
			go func() {
				if _, err := f.Wait(ctx); err != nil && ctx.Err() == nil {
					tripped.Store(true)
				}
			}()
		}
	}
	outcomes, collectErr := pool.Collect(ctx, futures, cfg.Order)
	closeErr := ex.Close() // barrier: every queued and running task is done
	wall := sw.Elapsed()

	b := &Batch{Strategy: name, Wall: wall}
	for _, o := range outcomes {
		cfg.Metrics.ObserveTask(name, o.Elapsed, o.Err)
		if o.Err != nil {
			b.Failures = append(b.Failures, Failure{Pair: pairs[o.TaskID], Err: o.Err})
			continue
		}
		b.Results = append(b.Results, o.Value)
		b.TaskTimes = append(b.TaskTimes, o.Elapsed)
	}
	for _, p := range aborted {
		b.Failures = append(b.Failures, Failure{Pair: p, Err: ErrAborted})
	}
	cfg.Metrics.ObserveBatch(name, wall)
	log.Info("batch done", "tasks", len(pairs), "results", len(b.Results),
		"failures", len(b.Failures), "aborted", len(aborted), "wall", wall)

	if err := errors.Join(submitErr, collectErr); err != nil {
		return b, err
	}
	if closeErr != nil && !(errors.Is(closeErr, pool.ErrWorkerLost) && len(b.Failures) > 0) {
		return b, closeErr
	}
	if cfg.Policy == FailFast && len(b.Failures) > 0 {
		return b, b.Failures[0].Err
	}
	return b, nil
}

type copyStrategy struct{}

// NewCopy returns the strategy that ships the matrix by value with every Job.
func NewCopy() Strategy { return copyStrategy{} }

func (copyStrategy) Name() string { return StrategyCopy }

func (s copyStrategy) Run(ctx context.Context, m *matrix.Adjacency, pairs []Pair, cfg Config) (*Batch, error) {
	if err := validate(m, cfg); err != nil {
		return nil, fmt.Errorf("distance: %s: %w", s.Name(), err)
	}
	jobFor := func(p Pair) Job {
		// one copy per dispatch: this is the cost the strategy exists to show
		return Job{
			Pair:    p,
			MaxHops: cfg.MaxHops,
			Kernel:  cfg.Kernel,
			Matrix:  &MatrixPayload{N: m.Size(), Data: m.Bytes()},
		}
	}
	b, err := runBatch(ctx, s.Name(), pairs, jobFor, NewHandler(nil), cfg)
	if err != nil {
		return b, fmt.Errorf("distance: %s: %w", s.Name(), err)
	}
	return b, nil
}

type sharedStrategy struct{}

// NewShared returns the strategy that writes the matrix once into a shared
// region and ships only its handle.
func NewShared() Strategy { return sharedStrategy{} }

func (sharedStrategy) Name() string { return StrategyShared }

func (s sharedStrategy) Run(ctx context.Context, m *matrix.Adjacency, pairs []Pair, cfg Config) (*Batch, error) {
	if err := validate(m, cfg); err != nil {
		return nil, fmt.Errorf("distance: %s: %w", s.Name(), err)
	}

	var (
		b       *Batch
		created bool
	)
	size := shmem.HeaderSize + m.ByteSize()
	err := shmem.WithRegion(m, func(h shmem.Handle) error {
		created = true
		cfg.Metrics.RegionCreated(size)
		cfg.logger().Debug("shared region created", "region", h.Name, "bytes", size)

		// thread-pool workers attach through this cache; process workers keep their own
		cache := shmem.NewCache(shmem.WithHooks(
			func(shmem.Handle) { cfg.Metrics.ViewOpened() },
			func(shmem.Handle) { cfg.Metrics.ViewClosed() },
		))
		jobFor := func(p Pair) Job {
			return Job{Pair: p, MaxHops: cfg.MaxHops, Kernel: cfg.Kernel, Handle: &h}
		}

		var runErr error
		b, runErr = runBatch(ctx, s.Name(), pairs, jobFor, NewHandler(cache), cfg)
		return errors.Join(runErr, cache.Close())
	})
	trackRelease(cfg.Metrics, size, created, err)
	if err != nil {
		return b, fmt.Errorf("distance: %s: %w", s.Name(), err)
	}
	return b, nil
}

// trackRelease drops the region gauge unless Release refused to unmap
// because views were still open.
func trackRelease(mt *metrics.Metrics, size int, created bool, err error) {
	if created && !errors.Is(err, shmem.ErrBufferInUse) {
		mt.RegionReleased(size)
	}
}
