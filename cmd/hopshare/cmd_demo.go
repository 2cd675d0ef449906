// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/report"
	"github.com/katalvlaran/hopshare/tasks"
	"github.com/katalvlaran/hopshare/timing"
)

// demoFlags are shared by every demo subcommand.
type demoFlags struct {
	n           int
	pool        string
	workers     int
	submit      string // submit | map
	asCompleted bool
}

func (f *demoFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.n, "n", 8, "number of tasks")
	fl.StringVar(&f.pool, "pool", string(pool.KindThread), "thread|process")
	fl.IntVar(&f.workers, "workers", runtime.NumCPU(), "pool size")
	fl.StringVar(&f.submit, "submit", "submit", "submit|map")
	fl.BoolVar(&f.asCompleted, "as-completed", false, "harvest in completion order (submit only)")
}

func newDemoCmd(a *app) *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Compare pool kinds on I/O-like and CPU-bound toy tasks",
	}
	demoCmd.AddCommand(newDelayCmd(a), newFactorizeCmd(a))
	return demoCmd
}

func newDelayCmd(a *app) *cobra.Command {
	var (
		f       demoFlags
		seconds float64
		mean    float64
		sigma   float64
		seed    int64
	)
	delayCmd := &cobra.Command{
		Use:   "delay",
		Short: "Tasks that sleep and return their index (I/O-like)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sigma < 0 {
				return fmt.Errorf("--sigma %g: %w", sigma, tasks.ErrInvalidSigma)
			}
			jobs := make([]tasks.DelayJob, f.n)
			for i := range jobs {
				jobs[i] = tasks.DelayJob{Value: i, Mean: mean, Sigma: sigma}
				if cmd.Flags().Changed("seconds") {
					s := seconds
					jobs[i].Seconds = &s
				}
				if seed != 0 {
					jobs[i].Seed = seed + int64(i)
				}
			}
			return runDemo(cmd.Context(), a, cmd.OutOrStdout(), "delayed_return", tasks.OpDelay, tasks.DelayHandler, jobs, f)
		},
	}
	f.register(delayCmd)
	fl := delayCmd.Flags()
	fl.Float64Var(&seconds, "seconds", 0, "fixed sleep per task (default: gaussian)")
	fl.Float64Var(&mean, "mean", tasks.DefaultMean, "mean sleep in seconds")
	fl.Float64Var(&sigma, "sigma", tasks.DefaultSigma, "sleep standard deviation in seconds")
	fl.Int64Var(&seed, "seed", 0, "jitter seed (0 = random)")
	return delayCmd
}

func newFactorizeCmd(a *app) *cobra.Command {
	var (
		f    demoFlags
		base int
	)
	factorizeCmd := &cobra.Command{
		Use:   "factorize",
		Short: "Tasks that factorize base+i the slow way (CPU-bound)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := make([]tasks.FactorizeJob, f.n)
			for i := range jobs {
				jobs[i] = tasks.FactorizeJob{Offset: i, Base: base}
			}
			return runDemo(cmd.Context(), a, cmd.OutOrStdout(), "long_factorize", tasks.OpFactorize, tasks.FactorizeHandler, jobs, f)
		},
	}
	f.register(factorizeCmd)
	factorizeCmd.Flags().IntVar(&base, "base", tasks.DefaultBase, "value base; task i factorizes base+i")
	return factorizeCmd
}

// runDemo times pool start-up, dispatch and harvest as one span, then
// prints the summary.
func runDemo[J, R any](ctx context.Context, a *app, w io.Writer, title, op string, h pool.Handler[J, R], jobs []J, f demoFlags) error {
	kind, err := pool.ParseKind(f.pool)
	if err != nil {
		return err
	}
	var command, env []string
	if kind == pool.KindProcess {
		if command, env, err = workerCommand(op); err != nil {
			return err
		}
	}
	order := pool.SubmissionOrder
	if f.asCompleted {
		order = pool.CompletionOrder
	}

	sw := timing.Start()
	ex, err := pool.New(kind, f.workers, h, command, pool.WithEnv(env...), pool.WithLogger(a.logger))
	if err != nil {
		return err
	}
	var outcomes []pool.Outcome[R]
	switch f.submit {
	case "submit":
		var futures []*pool.Future[R]
		futures, err = pool.SubmitAll(ctx, ex, jobs)
		if err == nil {
			outcomes, err = pool.Collect(ctx, futures, order)
		}
	case "map":
		outcomes, err = pool.Map(ctx, ex, jobs)
	default:
		err = fmt.Errorf("unrecognized --submit %q (want submit|map)", f.submit)
	}
	closeErr := ex.Close()
	wall := sw.Elapsed()
	if err != nil {
		return err
	}

	entries := make([]report.Entry[R], 0, len(outcomes))
	for _, o := range outcomes {
		a.metrics.ObserveTask(op, o.Elapsed, o.Err)
		if o.Err != nil {
			a.logger.Warn("task failed", "task_id", o.TaskID, "err", o.Err)
			continue
		}
		entries = append(entries, report.Entry[R]{Value: o.Value, Elapsed: o.Elapsed})
	}
	a.metrics.ObserveBatch(op, wall)
	if err := report.Display(w, title, report.Aggregate(entries, wall)); err != nil {
		return err
	}
	return closeErr
}
