// SPDX-License-Identifier: MIT

package distance

import (
	"context"
	"fmt"
	"io"

	"github.com/katalvlaran/hopshare/hops"
	"github.com/katalvlaran/hopshare/matrix"
	"github.com/katalvlaran/hopshare/pool"
	"github.com/katalvlaran/hopshare/shmem"
)

// OpDistance is the worker op that serves Jobs.
const OpDistance = "distance"

// MatrixPayload is a by-value matrix: the copy strategy ships one per Job.
type MatrixPayload struct {
	N    int
	Data []byte
}

// Job is one unit of work. Exactly one of Matrix and Handle is set.
type Job struct {
	Pair    Pair
	MaxHops int
	Kernel  hops.Kernel
	Matrix  *MatrixPayload
	Handle  *shmem.Handle
}

// NewHandler returns the task body shared by thread and process pools.
// Shared-strategy jobs attach through cache, once per region.
func NewHandler(cache *shmem.Cache) pool.Handler[Job, Result] {
	return func(_ context.Context, j Job) (Result, error) {
		m, err := resolve(cache, j)
		if err != nil {
			return Result{}, err
		}
		d, err := hops.Compute(j.Kernel, m, j.Pair.I, j.Pair.J, j.MaxHops)
		if err != nil {
			return Result{}, err
		}
		return Result{I: j.Pair.I, J: j.Pair.J, Hops: d}, nil
	}
}

func resolve(cache *shmem.Cache, j Job) (*matrix.Adjacency, error) {
	switch {
	case j.Matrix != nil:
		// the payload belongs to this job alone, so no further copy
		return matrix.Wrap(j.Matrix.N, j.Matrix.Data)
	case j.Handle != nil:
		if cache == nil {
			return nil, fmt.Errorf("distance: job %s: shared handle without a cache: %w", j.Pair, ErrNoMatrix)
		}
		return cache.Get(*j.Handle)
	}
	return nil, fmt.Errorf("distance: job %s: %w", j.Pair, ErrNoMatrix)
}

// Register adds the distance op to reg. Each worker process gets its own cache.
func Register(reg pool.Registry) {
	reg[OpDistance] = func(ctx context.Context, r io.Reader, w io.Writer) error {
		cache := shmem.NewCache()
		defer cache.Close()
		return pool.ServeWorker(ctx, r, w, NewHandler(cache))
	}
}
