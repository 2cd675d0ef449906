// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/hopshare/builder"
	"github.com/katalvlaran/hopshare/config"
	"github.com/katalvlaran/hopshare/distance"
	"github.com/katalvlaran/hopshare/hops"
	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/report"
)

// distanceFlags mirror config.MatrixConfig and config.RunConfig; a flag
// wins over the file only when it was set.
type distanceFlags struct {
	matrix config.MatrixConfig
	run    config.RunConfig
	show   int
}

func newDistanceCmd(a *app) *cobra.Command {
	var f distanceFlags
	def := config.Default()

	distanceCmd := &cobra.Command{
		Use:   "distance",
		Short: "Generate a matrix and compute hop distances for a batch of pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f.apply(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.runDistance(cmd, cfg, f.show)
		},
	}

	fl := distanceCmd.Flags()
	fl.IntVar(&f.matrix.Size, "size", def.Matrix.Size, "matrix order M")
	fl.Float64Var(&f.matrix.Density, "density", def.Matrix.Density, "edge probability")
	fl.Int64Var(&f.matrix.Seed, "seed", def.Matrix.Seed, "generator and sampling seed (0 = time-seeded)")
	fl.BoolVar(&f.matrix.Symmetric, "symmetric", false, "mirror every edge (undirected)")
	fl.BoolVar(&f.matrix.SelfLoops, "self-loops", false, "allow diagonal entries")
	fl.IntVar(&f.run.MaxHops, "max-hops", def.Run.MaxHops, "hop bound per query")
	fl.IntVar(&f.run.Workers, "workers", def.Run.Workers, "pool size")
	fl.StringVar(&f.run.Pool, "pool", def.Run.Pool, "thread|process")
	fl.StringVar(&f.run.Order, "order", def.Run.Order, "submission|completion")
	fl.StringVar(&f.run.Policy, "policy", def.Run.Policy, "collect-all|fail-fast")
	fl.StringVar(&f.run.Kernel, "kernel", def.Run.Kernel, "vecmat|bfs")
	fl.StringVar(&f.run.Strategy, "strategy", def.Run.Strategy, "copy|shared")
	fl.IntVar(&f.run.Sample, "sample", def.Run.Sample, "number of random pairs (0 = all pairs)")
	fl.IntVar(&f.show, "show", 20, "results to print (0 = all)")
	return distanceCmd
}

func (f *distanceFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("size", func() { cfg.Matrix.Size = f.matrix.Size })
	set("density", func() { cfg.Matrix.Density = f.matrix.Density })
	set("seed", func() { cfg.Matrix.Seed = f.matrix.Seed })
	set("symmetric", func() { cfg.Matrix.Symmetric = f.matrix.Symmetric })
	set("self-loops", func() { cfg.Matrix.SelfLoops = f.matrix.SelfLoops })
	set("max-hops", func() { cfg.Run.MaxHops = f.run.MaxHops })
	set("workers", func() { cfg.Run.Workers = f.run.Workers })
	set("pool", func() { cfg.Run.Pool = f.run.Pool })
	set("order", func() { cfg.Run.Order = f.run.Order })
	set("policy", func() { cfg.Run.Policy = f.run.Policy })
	set("kernel", func() { cfg.Run.Kernel = f.run.Kernel })
	set("strategy", func() { cfg.Run.Strategy = f.run.Strategy })
	set("sample", func() { cfg.Run.Sample = f.run.Sample })
}

func (a *app) runDistance(cmd *cobra.Command, cfg config.Config, show int) error {
	opts := []builder.Option{}
	if cfg.Matrix.Seed != 0 {
		opts = append(opts, builder.WithSeed(cfg.Matrix.Seed))
	}
	if cfg.Matrix.Symmetric {
		opts = append(opts, builder.WithSymmetric())
	}
	if cfg.Matrix.SelfLoops {
		opts = append(opts, builder.WithSelfLoops())
	}
	m, err := builder.Generate(cfg.Matrix.Size, cfg.Matrix.Density, opts...)
	if err != nil {
		return err
	}

	pairs := distance.AllPairs(m.Size())
	if cfg.Run.Sample > 0 {
		pairs = distance.SamplePairs(m.Size(), cfg.Run.Sample, cfg.Matrix.Seed)
	}

	runCfg, err := a.distanceConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	strategy, err := distance.ByName(cfg.Run.Strategy)
	if err != nil {
		return err
	}

	a.logger.Info("running batch",
		"strategy", strategy.Name(), "pool", runCfg.Pool, "workers", runCfg.Workers,
		"tasks", len(pairs), "size", m.Size(), "edges", m.EdgeCount())
	b, runErr := strategy.Run(cmd.Context(), m, pairs, runCfg)
	if b != nil {
		title := fmt.Sprintf("distance/%s/%s", strategy.Name(), runCfg.Pool)
		if err := report.Display(cmd.OutOrStdout(), title, b.Summary(), report.WithMaxValues(show)); err != nil {
			return err
		}
		for _, fl := range b.Failures {
			if errors.Is(fl.Err, distance.ErrAborted) {
				continue // counted in the batch log line
			}
			a.logger.Warn("task failed", "pair", fl.Pair.String(), "err", fl.Err)
		}
	}
	return runErr
}

// distanceConfig turns the validated file/flag config into a Run config.
func (a *app) distanceConfig(cfg config.Config, stderr io.Writer) (distance.Config, error) {
	kind, err := pool.ParseKind(cfg.Run.Pool)
	if err != nil {
		return distance.Config{}, err
	}
	order, err := pool.ParseOrder(cfg.Run.Order)
	if err != nil {
		return distance.Config{}, err
	}
	policy, err := distance.ParsePolicy(cfg.Run.Policy)
	if err != nil {
		return distance.Config{}, err
	}
	kernel, err := hops.ParseKernel(cfg.Run.Kernel)
	if err != nil {
		return distance.Config{}, err
	}
	rc := distance.Config{
		MaxHops: cfg.Run.MaxHops,
		Workers: cfg.Run.Workers,
		Pool:    kind,
		Order:   order,
		Policy:  policy,
		Kernel:  kernel,
		Stderr:  stderr,
		Logger:  a.logger,
		Metrics: a.metrics,
	}
	if kind == pool.KindProcess {
		if rc.Command, rc.Env, err = workerCommand(distance.OpDistance); err != nil {
			return distance.Config{}, err
		}
	}
	return rc, nil
}
