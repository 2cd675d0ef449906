//go:build linux || darwin || freebsd

package shmem

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFaults reports whether writing mem[0] faults.
func writeFaults(mem []byte) (faulted bool) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if recover() != nil {
			faulted = true
		}
	}()
	mem[0] ^= 1
	return false
}

// TestForeignMappingIsReadOnly maps the file the way a child process does and
// checks that both the creator mapping and the foreign mapping refuse writes.
func TestForeignMappingIsReadOnly(t *testing.T) {
	data := []byte{0, 1, 1, 0}
	r, err := Create(data, 2, 2)
	require.NoError(t, err)

	v, err := openMapped(r.Handle())
	require.NoError(t, err)
	m, err := v.Matrix()
	require.NoError(t, err)
	require.Equal(t, data, m.Bytes())

	require.True(t, writeFaults(v.mem[HeaderSize:]), "foreign view must be PROT_READ")
	require.True(t, writeFaults(r.mem[HeaderSize:]), "creator mapping must be sealed")

	// Foreign views are not counted on the region: their barrier is process exit.
	require.Zero(t, r.Views())
	require.NoError(t, v.Close())
	require.NoError(t, r.Release())
}

// TestCheckHeaderMismatch rejects a handle whose shape differs from the mapping.
func TestCheckHeaderMismatch(t *testing.T) {
	r, err := Create([]byte{0, 1, 1, 0}, 2, 2)
	require.NoError(t, err)
	defer r.Release()

	h := r.Handle()
	h.Rows, h.Cols = 1, 1
	_, err = openMapped(h)
	require.ErrorIs(t, err, ErrBadHeader)
}
