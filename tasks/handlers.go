// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/hopshare/pool"
)

// Op names served by worker processes.
const (
	OpDelay     = "delay"
	OpFactorize = "factorize"
)

// DelayJob is the wire form of a DelayedReturn call. Seed 0 means a
// non-deterministic jitter source.
type DelayJob struct {
	Value   int
	Seconds *float64
	Mean    float64
	Sigma   float64
	Seed    int64
}

// FactorizeJob is the wire form of a LongFactorize call.
type FactorizeJob struct {
	Offset int
	Base   int
}

// DelayHandler runs DelayJobs.
func DelayHandler(ctx context.Context, j DelayJob) (int, error) {
	if j.Sigma < 0 {
		return 0, fmt.Errorf("tasks: DelayHandler(sigma=%g): %w", j.Sigma, ErrInvalidSigma)
	}
	opts := []DelayOption{WithDistribution(j.Mean, j.Sigma)}
	if j.Seconds != nil {
		opts = append(opts, WithSeconds(*j.Seconds))
	}
	if j.Seed != 0 {
		opts = append(opts, WithRand(rand.New(rand.NewSource(j.Seed))))
	}
	return DelayedReturn(ctx, j.Value, opts...)
}

// FactorizeHandler runs FactorizeJobs.
func FactorizeHandler(_ context.Context, j FactorizeJob) (Factors, error) {
	return LongFactorize(j.Offset, j.Base)
}

// Register adds the demo ops to reg.
func Register(reg pool.Registry) {
	reg[OpDelay] = pool.Serve(DelayHandler)
	reg[OpFactorize] = pool.Serve(FactorizeHandler)
}
