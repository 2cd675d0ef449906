// Package matrix_test contains unit tests for the Adjacency type.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/hopshare/matrix"
	"github.com/stretchr/testify/require"
)

// path3 is the directed path 0→1→2.
func path3(t *testing.T) *matrix.Adjacency {
	t.Helper()
	a, err := matrix.New(3, []byte{
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	})
	require.NoError(t, err)

	return a
}

// TestNewInvalidLayout ensures New rejects bad orders, lengths and domains.
func TestNewInvalidLayout(t *testing.T) {
	_, err := matrix.New(0, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.New(2, []byte{0, 1, 0}) // 3 != 2*2
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.New(2, []byte{0, 2, 0, 0}) // 2 is not binary
	require.ErrorIs(t, err, matrix.ErrNonBinary)
}

// TestNewCopiesInput verifies that mutating the source buffer does not leak into the matrix.
func TestNewCopiesInput(t *testing.T) {
	src := []byte{0, 1, 1, 0}
	a, err := matrix.New(2, src)
	require.NoError(t, err)

	src[1] = 0 // caller keeps ownership; the matrix must not observe this
	v, err := a.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, byte(1), v)
}

// TestWrapAliases verifies that Wrap does not copy.
func TestWrapAliases(t *testing.T) {
	buf := []byte{0, 1, 0, 0}
	a, err := matrix.Wrap(2, buf)
	require.NoError(t, err)

	out := make([]byte, 4)
	n, err := a.CopyTo(out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, buf, out)
}

// TestAtOutOfRange ensures At returns ErrOutOfRange instead of panicking.
func TestAtOutOfRange(t *testing.T) {
	a := path3(t)
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, err := a.At(rc[0], rc[1])
		require.ErrorIs(t, err, matrix.ErrOutOfRange, "At(%d,%d)", rc[0], rc[1])
	}
	require.False(t, a.HasEdge(5, 5))
	require.True(t, a.HasEdge(0, 1))
	require.False(t, a.HasEdge(1, 0))
}

// TestBytesIsCopy ensures Bytes never exposes internal storage.
func TestBytesIsCopy(t *testing.T) {
	a := path3(t)
	b := a.Bytes()
	b[0] = 1

	v, err := a.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, byte(0), v)
}

// TestCopyToShortBuffer ensures CopyTo reports a short destination.
func TestCopyToShortBuffer(t *testing.T) {
	a := path3(t)
	_, err := a.CopyTo(make([]byte, 8))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestStats checks EdgeCount, Density, Neighbors and IsSymmetric.
func TestStats(t *testing.T) {
	a := path3(t)
	require.Equal(t, 2, a.EdgeCount())
	require.InDelta(t, 2.0/9.0, a.Density(), 1e-12)
	require.False(t, a.IsSymmetric())

	nb, err := a.Neighbors(1)
	require.NoError(t, err)
	require.Equal(t, []int{2}, nb)

	_, err = a.Neighbors(3)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	sym, err := matrix.New(2, []byte{0, 1, 1, 0})
	require.NoError(t, err)
	require.True(t, sym.IsSymmetric())
}

// TestReachStep verifies boolean clipping and frontier propagation.
func TestReachStep(t *testing.T) {
	a, err := matrix.New(3, []byte{
		0, 1, 1,
		0, 0, 1,
		0, 0, 0,
	})
	require.NoError(t, err)

	src := []byte{1, 1, 0} // node 2 reachable from both rows
	dst := make([]byte, 3)
	hit, err := a.ReachStep(dst, src)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte{0, 1, 1}, dst) // clipped to 1, not 2

	src = []byte{0, 0, 1} // sink row
	hit, err = a.ReachStep(dst, src)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, []byte{0, 0, 0}, dst)

	_, err = a.ReachStep(make([]byte, 2), src)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestEqualAndString checks structural equality and formatting.
func TestEqualAndString(t *testing.T) {
	a := path3(t)
	b := path3(t)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(nil))

	require.Equal(t, "[0 1 0]\n[0 0 1]\n[0 0 0]\n", a.String())
}

// TestValidateNotNil ensures the nil guard reports the sentinel.
func TestValidateNotNil(t *testing.T) {
	require.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)
	require.NoError(t, matrix.ValidateIndex(path3(t), 2))
	require.ErrorIs(t, matrix.ValidateIndex(path3(t), 3), matrix.ErrOutOfRange)
}
