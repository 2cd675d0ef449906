package distance_test

import (
	"context"
	"io"
	"os"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hopshare/builder"
	"github.com/katalvlaran/hopshare/distance"
	"github.com/katalvlaran/hopshare/hops"
	"github.com/katalvlaran/hopshare/matrix"
	"github.com/katalvlaran/hopshare/metrics"
	"github.com/katalvlaran/hopshare/pool"
)

// TestMain doubles the test binary as a distance worker for process pools.
func TestMain(m *testing.M) {
	reg := pool.Registry{}
	distance.Register(reg)
	pool.RunIfWorker(reg)
	os.Exit(m.Run())
}

const testMaxHops = 4

func testMatrix(t *testing.T) *matrix.Adjacency {
	t.Helper()
	m, err := builder.Generate(12, 0.15, builder.WithSeed(3))
	require.NoError(t, err)
	return m
}

func baseConfig(kind pool.Kind) distance.Config {
	return distance.Config{
		MaxHops: testMaxHops,
		Workers: 3,
		Pool:    kind,
		Order:   pool.SubmissionOrder,
		Command: []string{os.Args[0]},
		Env:     []string{pool.EnvWorkerOp + "=" + distance.OpDistance},
	}
}

func oracle(t *testing.T, m *matrix.Adjacency, pairs []distance.Pair) []distance.Result {
	t.Helper()
	out := make([]distance.Result, len(pairs))
	for i, p := range pairs {
		d, err := hops.Distance(m, p.I, p.J, testMaxHops)
		require.NoError(t, err)
		out[i] = distance.Result{I: p.I, J: p.J, Hops: d}
	}
	return out
}

// TestStrategiesAgree runs every strategy on every pool kind against the serial kernel.
func TestStrategiesAgree(t *testing.T) {
	m := testMatrix(t)
	pairs := distance.AllPairs(m.Size())
	want := oracle(t, m, pairs)

	for _, kind := range []pool.Kind{pool.KindThread, pool.KindProcess} {
		for _, s := range []distance.Strategy{distance.NewCopy(), distance.NewShared()} {
			t.Run(string(kind)+"/"+s.Name(), func(t *testing.T) {
				b, err := s.Run(context.Background(), m, pairs, baseConfig(kind))
				require.NoError(t, err)
				require.Equal(t, s.Name(), b.Strategy)
				require.Empty(t, b.Failures)
				require.Equal(t, want, b.Results, "submission order")
				require.Len(t, b.TaskTimes, len(pairs))
				require.Positive(t, b.Wall)
			})
		}
	}
}

func TestCompletionOrderSameSet(t *testing.T) {
	m := testMatrix(t)
	pairs := distance.SamplePairs(m.Size(), 60, 5)
	want := oracle(t, m, pairs)

	cfg := baseConfig(pool.KindThread)
	cfg.Order = pool.CompletionOrder
	cfg.Kernel = hops.KernelBFS
	b, err := distance.NewShared().Run(context.Background(), m, pairs, cfg)
	require.NoError(t, err)

	byPair := func(rs []distance.Result) {
		sort.Slice(rs, func(a, b int) bool {
			if rs[a].I != rs[b].I {
				return rs[a].I < rs[b].I
			}
			return rs[a].J < rs[b].J
		})
	}
	got := append([]distance.Result(nil), b.Results...)
	byPair(got)
	byPair(want)
	require.Equal(t, want, got)
}

func TestFailurePolicy(t *testing.T) {
	m := testMatrix(t)
	pairs := []distance.Pair{{I: 0, J: 1}, {I: 99, J: 0}, {I: 2, J: 2}}

	for _, s := range []distance.Strategy{distance.NewCopy(), distance.NewShared()} {
		t.Run(s.Name(), func(t *testing.T) {
			cfg := baseConfig(pool.KindThread)
			b, err := s.Run(context.Background(), m, pairs, cfg)
			require.NoError(t, err, "collect-all is the default")
			require.Len(t, b.Results, 2)
			require.Len(t, b.Failures, 1)
			require.Equal(t, distance.Pair{I: 99, J: 0}, b.Failures[0].Pair)
			require.ErrorIs(t, b.Failures[0].Err, pool.ErrTaskExecution)
			require.ErrorIs(t, b.Failures[0].Err, hops.ErrIndexOutOfRange)

			cfg.Policy = distance.FailFast
			b, err = s.Run(context.Background(), m, pairs, cfg)
			require.ErrorIs(t, err, pool.ErrTaskExecution)
			require.NotNil(t, b)
			require.Equal(t, len(pairs), len(b.Results)+len(b.Failures), "every pair is accounted for")
			require.Equal(t, distance.Pair{I: 99, J: 0}, b.Failures[0].Pair)
		})
	}
}

func TestFailFastStopsDispatching(t *testing.T) {
	m := testMatrix(t)
	pairs := append([]distance.Pair{{I: -1, J: 0}}, distance.AllPairs(m.Size())...)
	for len(pairs) < 2000 {
		pairs = append(pairs, distance.AllPairs(m.Size())...)
	}

	cfg := baseConfig(pool.KindThread)
	cfg.Workers = 1
	cfg.Policy = distance.FailFast
	b, err := distance.NewCopy().Run(context.Background(), m, pairs, cfg)
	require.ErrorIs(t, err, hops.ErrIndexOutOfRange)
	require.Equal(t, distance.Pair{I: -1, J: 0}, b.Failures[0].Pair)

	aborted := 0
	for _, f := range b.Failures[1:] {
		require.ErrorIs(t, f.Err, distance.ErrAborted)
		aborted++
	}
	require.Positive(t, aborted, "pairs after the failure are not dispatched")
	require.Equal(t, len(pairs), len(b.Results)+len(b.Failures))

	cfg.Policy = distance.CollectAll
	b, err = distance.NewCopy().Run(context.Background(), m, pairs, cfg)
	require.NoError(t, err)
	require.Len(t, b.Failures, 1, "collect-all dispatches everything")
	require.Len(t, b.Results, len(pairs)-1)
}

func TestProcessPoolFailureCarriesTaskIdentity(t *testing.T) {
	m := testMatrix(t)
	cfg := baseConfig(pool.KindProcess)
	cfg.Workers = 1
	cfg.Stderr = io.Discard

	b, err := distance.NewShared().Run(context.Background(), m, []distance.Pair{{I: 1, J: 2}, {I: 0, J: -1}}, cfg)
	require.NoError(t, err)
	require.Len(t, b.Failures, 1)

	var te *pool.TaskError
	require.ErrorAs(t, b.Failures[0].Err, &te)
	require.Equal(t, 1, te.TaskID)
	require.Contains(t, te.Error(), "index out of range")
}

func TestRunValidates(t *testing.T) {
	m := testMatrix(t)
	pairs := distance.AllPairs(2)
	for _, s := range []distance.Strategy{distance.NewCopy(), distance.NewShared()} {
		cfg := baseConfig(pool.KindThread)
		cfg.Workers = 0
		_, err := s.Run(context.Background(), m, pairs, cfg)
		require.ErrorIs(t, err, pool.ErrInvalidWorkers)

		cfg = baseConfig(pool.KindThread)
		cfg.MaxHops = -1
		_, err = s.Run(context.Background(), m, pairs, cfg)
		require.ErrorIs(t, err, hops.ErrInvalidMaxHops)

		cfg = baseConfig(pool.KindThread)
		cfg.Kernel = "dijkstra"
		_, err = s.Run(context.Background(), m, pairs, cfg)
		require.ErrorIs(t, err, hops.ErrUnknownKernel)

		_, err = s.Run(context.Background(), nil, pairs, baseConfig(pool.KindThread))
		require.ErrorIs(t, err, matrix.ErrNilMatrix)
	}
}

func gauge(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() == name {
			for _, mt := range mf.GetMetric() {
				total += mt.GetCounter().GetValue()
			}
		}
	}
	return total
}

// TestSharedReleasesAfterBarrier checks that no region or view outlives Run.
func TestSharedReleasesAfterBarrier(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := testMatrix(t)
	cfg := baseConfig(pool.KindThread)
	cfg.Metrics = metrics.New(reg)

	pairs := distance.AllPairs(m.Size())
	_, err := distance.NewShared().Run(context.Background(), m, pairs, cfg)
	require.NoError(t, err)

	require.Zero(t, gauge(t, reg, "hopshare_shared_region_bytes"))
	require.Zero(t, gauge(t, reg, "hopshare_shared_views_open"))
	require.Equal(t, float64(len(pairs)), counter(t, reg, "hopshare_tasks_total"))
}

func TestBatchSummary(t *testing.T) {
	m := testMatrix(t)
	b, err := distance.NewCopy().Run(context.Background(), m, distance.AllPairs(4), baseConfig(pool.KindThread))
	require.NoError(t, err)

	s := b.Summary()
	require.Equal(t, b.Results, s.Values)
	var sum int64
	for _, d := range b.TaskTimes {
		sum += int64(d)
	}
	require.Equal(t, sum, int64(s.SumTask))
	require.Equal(t, b.Wall, s.Wall)
}

func TestByNameAndPolicy(t *testing.T) {
	s, err := distance.ByName("copy")
	require.NoError(t, err)
	require.Equal(t, distance.StrategyCopy, s.Name())
	s, err = distance.ByName("")
	require.NoError(t, err)
	require.Equal(t, distance.StrategyShared, s.Name())
	_, err = distance.ByName("carrier-pigeon")
	require.ErrorIs(t, err, distance.ErrUnknownStrategy)

	p, err := distance.ParsePolicy("fail-fast")
	require.NoError(t, err)
	require.Equal(t, distance.FailFast, p)
	_, err = distance.ParsePolicy("yolo")
	require.ErrorIs(t, err, distance.ErrUnknownPolicy)
}
