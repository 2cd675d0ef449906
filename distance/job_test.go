package distance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hopshare/distance"
	"github.com/katalvlaran/hopshare/shmem"
)

func TestHandler(t *testing.T) {
	m := testMatrix(t)
	h := distance.NewHandler(nil)

	_, err := h(context.Background(), distance.Job{Pair: distance.Pair{I: 0, J: 1}, MaxHops: 2})
	require.ErrorIs(t, err, distance.ErrNoMatrix)

	r, err := h(context.Background(), distance.Job{
		Pair:    distance.Pair{I: 3, J: 3},
		MaxHops: 2,
		Matrix:  &distance.MatrixPayload{N: m.Size(), Data: m.Bytes()},
	})
	require.NoError(t, err)
	require.Equal(t, distance.Result{I: 3, J: 3, Hops: 0}, r)

	region, err := shmem.FromMatrix(m)
	require.NoError(t, err)
	hd := region.Handle()

	_, err = h(context.Background(), distance.Job{Pair: distance.Pair{I: 0, J: 1}, Handle: &hd})
	require.ErrorIs(t, err, distance.ErrNoMatrix, "handle jobs need a cache")

	cache := shmem.NewCache()
	r, err = distance.NewHandler(cache)(context.Background(), distance.Job{
		Pair: distance.Pair{I: 5, J: 5}, MaxHops: 1, Handle: &hd,
	})
	require.NoError(t, err)
	require.Zero(t, r.Hops)
	require.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Close())
	require.NoError(t, region.Release())
}
