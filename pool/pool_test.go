package pool_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/katalvlaran/hopshare/pool"
	"github.com/stretchr/testify/require"
)

type sleepJob struct {
	Value  int
	Millis int
}

func square(_ context.Context, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative input %d", n)
	}
	return n * n, nil
}

func sleepy(_ context.Context, j sleepJob) (int, error) {
	time.Sleep(time.Duration(j.Millis) * time.Millisecond)
	return j.Value, nil
}

func crashOn13(_ context.Context, n int) (int, error) {
	if n == 13 {
		os.Exit(3)
	}
	return n, nil
}

// chatty logs every job to stderr before squaring it.
func chatty(ctx context.Context, n int) (int, error) {
	fmt.Fprintf(os.Stderr, "job %d\n", n)
	return square(ctx, n)
}

var testOps = pool.Registry{
	"square": pool.Serve(square),
	"chatty": pool.Serve(chatty),
	"sleep":  pool.Serve(sleepy),
	"crash":  pool.Serve(crashOn13),
}

// TestMain doubles the test binary as a pool worker.
func TestMain(m *testing.M) {
	pool.RunIfWorker(testOps)
	os.Exit(m.Run())
}

func workerCommand() []string { return []string{os.Args[0]} }

func workerEnv(op string) pool.Option { return pool.WithEnv(pool.EnvWorkerOp + "=" + op) }

func TestThreadPool_InvalidWorkers(t *testing.T) {
	_, err := pool.NewThreadPool(0, square)
	require.ErrorIs(t, err, pool.ErrInvalidWorkers)
}

func TestThreadPool_MapSubmissionOrder(t *testing.T) {
	p, err := pool.NewThreadPool(4, square)
	require.NoError(t, err)
	defer p.Close()

	jobs := make([]int, 20)
	for i := range jobs {
		jobs[i] = i
	}
	out, err := pool.Map[int, int](context.Background(), p, jobs)
	require.NoError(t, err)
	require.Len(t, out, len(jobs))
	for i, o := range out {
		require.NoError(t, o.Err)
		require.Equal(t, i, o.TaskID)
		require.Equal(t, i*i, o.Value)
	}
}

func TestThreadPool_TaskErrorIsolated(t *testing.T) {
	p, err := pool.NewThreadPool(2, square)
	require.NoError(t, err)
	defer p.Close()

	out, err := pool.Map[int, int](context.Background(), p, []int{1, -1, 3})
	require.NoError(t, err)
	require.NoError(t, out[0].Err)
	require.NoError(t, out[2].Err)
	require.Equal(t, 9, out[2].Value)

	require.ErrorIs(t, out[1].Err, pool.ErrTaskExecution)
	var te *pool.TaskError
	require.ErrorAs(t, out[1].Err, &te)
	require.Equal(t, 1, te.TaskID)
	require.Contains(t, te.Error(), "negative input -1")
	require.ErrorIs(t, pool.FirstError(out), pool.ErrTaskExecution)
}

func TestThreadPool_PanicBecomesTaskError(t *testing.T) {
	p, err := pool.NewThreadPool(1, func(_ context.Context, n int) (int, error) {
		if n == 0 {
			panic("division by zero")
		}
		return 10 / n, nil
	})
	require.NoError(t, err)
	defer p.Close()

	out, err := pool.Map[int, int](context.Background(), p, []int{0, 5})
	require.NoError(t, err)
	require.ErrorIs(t, out[0].Err, pool.ErrTaskExecution)
	require.Contains(t, out[0].Err.Error(), "panic")
	require.Equal(t, 2, out[1].Value)
}

func TestThreadPool_SubmitAfterClose(t *testing.T) {
	p, err := pool.NewThreadPool(1, square)
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "Close is idempotent")

	_, err = p.Submit(context.Background(), 0, 1)
	require.ErrorIs(t, err, pool.ErrClosed)
}

func TestThreadPool_CloseWaitsForQueuedTasks(t *testing.T) {
	p, err := pool.NewThreadPool(1, sleepy)
	require.NoError(t, err)

	futures, err := pool.SubmitAll[sleepJob, int](context.Background(), p,
		[]sleepJob{{Value: 1, Millis: 10}, {Value: 2, Millis: 10}})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	for _, f := range futures {
		select {
		case <-f.Done():
		default:
			t.Fatalf("task %d still pending after Close", f.ID())
		}
	}
}

func TestCollect_Orders(t *testing.T) {
	jobs := []sleepJob{
		{Value: 0, Millis: 120},
		{Value: 1, Millis: 10},
		{Value: 2, Millis: 60},
	}
	for _, tc := range []struct {
		order pool.Order
		want  []int
	}{
		{pool.SubmissionOrder, []int{0, 1, 2}},
		{pool.CompletionOrder, []int{1, 2, 0}},
	} {
		t.Run(string(tc.order), func(t *testing.T) {
			p, err := pool.NewThreadPool(len(jobs), sleepy)
			require.NoError(t, err)
			defer p.Close()

			futures, err := pool.SubmitAll[sleepJob, int](context.Background(), p, jobs)
			require.NoError(t, err)
			out, err := pool.Collect(context.Background(), futures, tc.order)
			require.NoError(t, err)

			got := make([]int, len(out))
			for i, o := range out {
				require.NoError(t, o.Err)
				require.Equal(t, o.TaskID, o.Value)
				got[i] = o.TaskID
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCollect_ContextDeadline(t *testing.T) {
	p, err := pool.NewThreadPool(1, sleepy)
	require.NoError(t, err)
	defer p.Close()

	f, err := p.Submit(context.Background(), 0, sleepJob{Millis: 200})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	for _, order := range []pool.Order{pool.SubmissionOrder, pool.CompletionOrder} {
		_, err = pool.Collect(ctx, []*pool.Future[int]{f}, order)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestFuture_ElapsedSelfReported(t *testing.T) {
	p, err := pool.NewThreadPool(1, sleepy)
	require.NoError(t, err)
	defer p.Close()

	f, err := p.Submit(context.Background(), 7, sleepJob{Value: 7, Millis: 20})
	require.NoError(t, err)
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 7, f.ID())
	require.GreaterOrEqual(t, f.Elapsed(), 20*time.Millisecond)
}

func TestProcessPool_Map(t *testing.T) {
	p, err := pool.NewProcessPool[int, int](3, workerCommand(), workerEnv("square"))
	require.NoError(t, err)

	jobs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	out, err := pool.Map[int, int](context.Background(), p, jobs)
	require.NoError(t, err)
	for i, o := range out {
		require.NoError(t, o.Err)
		require.Equal(t, i*i, o.Value)
	}
	require.NoError(t, p.Close())
}

func TestProcessPool_SharedStderrBuffer(t *testing.T) {
	var buf bytes.Buffer
	p, err := pool.NewProcessPool[int, int](4, workerCommand(), workerEnv("chatty"), pool.WithStderr(&buf))
	require.NoError(t, err)

	jobs := []int{0, 1, 2, 3, 4, 5, 6, 7}
	out, err := pool.Map[int, int](context.Background(), p, jobs)
	require.NoError(t, err)
	require.NoError(t, pool.FirstError(out))
	require.NoError(t, p.Close(), "Close reaps the children and their stderr copies")

	for _, n := range jobs {
		require.Contains(t, buf.String(), fmt.Sprintf("job %d\n", n))
	}
}

func TestProcessPool_RemoteTaskError(t *testing.T) {
	p, err := pool.NewProcessPool[int, int](1, workerCommand(), workerEnv("square"))
	require.NoError(t, err)
	defer p.Close()

	out, err := pool.Map[int, int](context.Background(), p, []int{-4, 4})
	require.NoError(t, err)
	require.ErrorIs(t, out[0].Err, pool.ErrTaskExecution)
	require.Contains(t, out[0].Err.Error(), "negative input -4")
	require.Equal(t, 16, out[1].Value)
}

func TestProcessPool_MatchesThreadPool(t *testing.T) {
	jobs := []sleepJob{{Value: 3, Millis: 30}, {Value: 1, Millis: 5}, {Value: 2, Millis: 15}}

	tp, err := pool.New[sleepJob, int](pool.KindThread, 2, sleepy, nil)
	require.NoError(t, err)
	defer tp.Close()
	pp, err := pool.New[sleepJob, int](pool.KindProcess, 2, nil, workerCommand(), workerEnv("sleep"))
	require.NoError(t, err)
	defer pp.Close()

	want, err := pool.Map(context.Background(), tp, jobs)
	require.NoError(t, err)
	got, err := pool.Map(context.Background(), pp, jobs)
	require.NoError(t, err)
	for i := range jobs {
		require.Equal(t, want[i].Value, got[i].Value)
		require.Positive(t, got[i].Elapsed, "elapsed travels back from the child")
	}
}

func TestProcessPool_WorkerLost(t *testing.T) {
	p, err := pool.NewProcessPool[int, int](1, workerCommand(), workerEnv("crash"), pool.WithStderr(io.Discard))
	require.NoError(t, err)

	futures, err := pool.SubmitAll[int, int](context.Background(), p, []int{1, 13, 2})
	if err != nil {
		require.ErrorIs(t, err, pool.ErrWorkerLost)
	}
	out, err := pool.Collect(context.Background(), futures, pool.SubmissionOrder)
	require.NoError(t, err)

	require.NoError(t, out[0].Err)
	require.Equal(t, 1, out[0].Value)
	require.ErrorIs(t, out[1].Err, pool.ErrWorkerLost)
	require.ErrorIs(t, out[1].Err, pool.ErrTaskExecution)
	for _, o := range out[2:] {
		require.ErrorIs(t, o.Err, pool.ErrWorkerLost)
	}
	require.ErrorIs(t, p.Close(), pool.ErrWorkerLost)
}

func TestProcessPool_BadConfig(t *testing.T) {
	_, err := pool.NewProcessPool[int, int](0, workerCommand())
	require.ErrorIs(t, err, pool.ErrInvalidWorkers)
	_, err = pool.NewProcessPool[int, int](1, nil)
	require.ErrorIs(t, err, pool.ErrInvalidCommand)
	_, err = pool.NewProcessPool[int, int](1, []string{"/nonexistent/hopshare-worker"})
	require.Error(t, err)
}

func TestRegistry_UnknownOp(t *testing.T) {
	err := testOps.Serve(context.Background(), "nope", nil, nil)
	require.ErrorIs(t, err, pool.ErrUnknownOp)
	require.Equal(t, []string{"crash", "sleep", "square"}, testOps.Ops())
}

func TestParseKindAndOrder(t *testing.T) {
	k, err := pool.ParseKind("")
	require.NoError(t, err)
	require.Equal(t, pool.KindThread, k)
	k, err = pool.ParseKind("process")
	require.NoError(t, err)
	require.Equal(t, pool.KindProcess, k)
	_, err = pool.ParseKind("fiber")
	require.Error(t, err)

	o, err := pool.ParseOrder("completion")
	require.NoError(t, err)
	require.Equal(t, pool.CompletionOrder, o)
	_, err = pool.ParseOrder("random")
	require.Error(t, err)

	_, err = pool.New[int, int]("fiber", 1, square, nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, pool.ErrInvalidWorkers))
}
