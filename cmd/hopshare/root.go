// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/hopshare/config"
	"github.com/katalvlaran/hopshare/distance"
	"github.com/katalvlaran/hopshare/metrics"
	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/tasks"
)

// app is the state shared by one command tree invocation.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "hopshare",
		Short:         "Hop-limited distances over a shared adjacency matrix",
		Long:          `hopshare fans hop-distance queries out to goroutine or process pools, shipping the matrix either by copy or through a shared memory region, and reports per-task against wall-clock time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML or JSON config file")
	pf.StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", "", "text|json")
	pf.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus text exposition here on exit")

	rootCmd.AddCommand(newDistanceCmd(a), newDemoCmd(a), newWorkerCmd())
	return rootCmd
}

// setup loads the config, applies global flag overrides and builds the
// logger and metrics.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = a.metricsFile
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg.Metrics.File == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.File, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug("metrics written", "file", a.cfg.Metrics.File)
	return nil
}

// workerRegistry lists every op a hopshare worker process can serve.
func workerRegistry() pool.Registry {
	reg := pool.Registry{}
	distance.Register(reg)
	tasks.Register(reg)
	return reg
}

// workerCommand re-executes this binary as a worker for op. The env entry
// lets binaries that intercept EnvWorkerOp early (tests) serve it too.
func workerCommand(op string) (command, env []string, err error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("locate executable: %w", err)
	}
	return []string{exe, "worker", "--op", op}, []string{pool.EnvWorkerOp + "=" + op}, nil
}
