package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/tasks"
)

// TestMain lets process pools started by these tests re-exec the test
// binary as a worker.
func TestMain(m *testing.M) {
	pool.RunIfWorker(workerRegistry())
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDistanceCommand(t *testing.T) {
	for _, args := range [][]string{
		{"--strategy", "copy", "--pool", "thread"},
		{"--strategy", "shared", "--pool", "thread", "--order", "completion", "--kernel", "bfs"},
		{"--strategy", "shared", "--pool", "process"},
	} {
		base := []string{"distance", "--size", "12", "--density", "0.2", "--max-hops", "3", "--workers", "2", "--sample", "0", "--show", "5"}
		out, _, err := run(t, append(base, args...)...)
		require.NoError(t, err, "%v", args)
		require.Contains(t, out, "Running: distance/")
		require.Contains(t, out, "Results: [")
		require.Contains(t, out, "(+139 more)")
		require.Contains(t, out, "Task times: ")
		require.Contains(t, out, "Actual time: ")
	}
}

func TestDistanceCommand_ConfigAndMetrics(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hopshare.yaml")
	metricsPath := filepath.Join(dir, "metrics.prom")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
matrix:
  size: 8
  density: 0.3
run:
  workers: 2
  sample: 10
  strategy: shared
`), 0o600))

	out, _, err := run(t, "--config", cfgPath, "--metrics-file", metricsPath, "--log-format", "json", "distance")
	require.NoError(t, err)
	require.Contains(t, out, "Running: distance/shared/thread")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(prom), `hopshare_tasks_total{status="ok",strategy="shared"} 10`)
	require.Contains(t, string(prom), "hopshare_shared_region_bytes 0")
}

func TestDistanceCommand_InvalidFlags(t *testing.T) {
	_, _, err := run(t, "distance", "--workers", "0")
	require.ErrorContains(t, err, "run.workers")

	_, _, err = run(t, "distance", "--strategy", "teleport")
	require.ErrorContains(t, err, "unknown strategy")
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "typo.yaml"), "distance")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDemoDelay(t *testing.T) {
	out, _, err := run(t, "demo", "delay", "--n", "3", "--workers", "3", "--seconds", "0.01", "--as-completed")
	require.NoError(t, err)
	require.Contains(t, out, "Running: delayed_return\n")
	require.Contains(t, out, "Task times: 0.01")

	out, _, err = run(t, "demo", "delay", "--n", "2", "--pool", "process", "--workers", "2", "--seconds", "0", "--submit", "map")
	require.NoError(t, err)
	require.Contains(t, out, "Results: [0 1]\n")

	_, _, err = run(t, "demo", "delay", "--n", "2", "--sigma", "-1")
	require.ErrorIs(t, err, tasks.ErrInvalidSigma)
}

func TestDemoFactorize(t *testing.T) {
	out, _, err := run(t, "demo", "factorize", "--n", "2", "--base", "91", "--workers", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Running: long_factorize\n")
	require.Contains(t, out, "Results: [91=13*7 92=46*2]\n")

	_, _, err = run(t, "demo", "factorize", "--n", "1", "--submit", "batch")
	require.ErrorContains(t, err, "unrecognized --submit")
}

func TestWorkerUnknownOp(t *testing.T) {
	_, _, err := run(t, "worker", "--op", "teleport")
	require.ErrorIs(t, err, pool.ErrUnknownOp)
}
