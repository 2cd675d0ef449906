// SPDX-License-Identifier: MIT

package shmem

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/katalvlaran/hopshare/matrix"
)

// Header layout constants.
const (
	// HeaderSize is the fixed header length; the payload starts right after it.
	HeaderSize = 64

	// Version is the current layout version.
	Version = uint32(1)

	segmentPrefix = "hopshare_"
	dtypeUint8    = uint32(1)
)

var segmentMagic = [8]byte{'H', 'O', 'P', 'S', 'H', 'M', 0, 0}

// Handle is everything a worker needs to map the region: it travels to
// workers instead of the matrix itself and is gob-encodable.
type Handle struct {
	Name  string // unique region name
	Path  string // backing file path
	Rows  int
	Cols  int
	DType string // element type, matrix.DType
}

// Bytes returns the payload length described by h.
func (h Handle) Bytes() int { return h.Rows * h.Cols }

func (h Handle) validate() error {
	if h.Name == "" || h.Path == "" {
		return fmt.Errorf("%w: empty name or path", ErrBadHeader)
	}
	if h.Rows <= 0 || h.Cols <= 0 {
		return fmt.Errorf("%w: shape %dx%d", ErrBadHeader, h.Rows, h.Cols)
	}
	if h.DType != matrix.DType {
		return fmt.Errorf("%w: dtype %q", ErrBadHeader, h.DType)
	}
	return nil
}

// newHandle allocates a fresh unique name and path for a rows×cols region.
func newHandle(rows, cols int) Handle {
	name := segmentPrefix + uuid.NewString()
	return Handle{
		Name:  name,
		Path:  segmentPath(name),
		Rows:  rows,
		Cols:  cols,
		DType: matrix.DType,
	}
}

// segmentPath prefers /dev/shm (tmpfs on Linux) and falls back to the temp dir.
func segmentPath(name string) string {
	if isDevShmAvailable() {
		return filepath.Join("/dev/shm", name)
	}
	return filepath.Join(os.TempDir(), name)
}

// isDevShmAvailable checks if /dev/shm is available.
func isDevShmAvailable() bool {
	info, err := os.Stat("/dev/shm")
	if err != nil {
		return false
	}
	return info.IsDir()
}

// writeHeader encodes h into the first HeaderSize bytes of mem.
func writeHeader(mem []byte, h Handle) {
	copy(mem[0:8], segmentMagic[:])
	binary.LittleEndian.PutUint32(mem[8:12], Version)
	binary.LittleEndian.PutUint32(mem[12:16], dtypeUint8)
	binary.LittleEndian.PutUint64(mem[16:24], uint64(h.Rows))
	binary.LittleEndian.PutUint64(mem[24:32], uint64(h.Cols))
	binary.LittleEndian.PutUint64(mem[32:40], HeaderSize)
	binary.LittleEndian.PutUint64(mem[40:48], uint64(h.Bytes()))
}

// checkHeader validates the mapped header against the handle the caller holds.
func checkHeader(mem []byte, h Handle) error {
	if len(mem) < HeaderSize {
		return fmt.Errorf("%w: segment too small: %d bytes", ErrBadHeader, len(mem))
	}
	var magic [8]byte
	copy(magic[:], mem[0:8])
	if magic != segmentMagic {
		return fmt.Errorf("%w: bad magic %q", ErrBadHeader, magic[:])
	}
	if v := binary.LittleEndian.Uint32(mem[8:12]); v != Version {
		return fmt.Errorf("%w: version %d, want %d", ErrBadHeader, v, Version)
	}
	if dt := binary.LittleEndian.Uint32(mem[12:16]); dt != dtypeUint8 {
		return fmt.Errorf("%w: dtype code %d", ErrBadHeader, dt)
	}
	rows := binary.LittleEndian.Uint64(mem[16:24])
	cols := binary.LittleEndian.Uint64(mem[24:32])
	if rows != uint64(h.Rows) || cols != uint64(h.Cols) {
		return fmt.Errorf("%w: shape %dx%d, handle says %dx%d", ErrBadHeader, rows, cols, h.Rows, h.Cols)
	}
	off := binary.LittleEndian.Uint64(mem[32:40])
	length := binary.LittleEndian.Uint64(mem[40:48])
	if off != HeaderSize || length != uint64(h.Bytes()) || uint64(len(mem)) < off+length {
		return fmt.Errorf("%w: payload [%d,+%d) in %d bytes", ErrBadHeader, off, length, len(mem))
	}
	return nil
}

// payload returns the matrix bytes of a mapping with a valid header.
func payload(mem []byte, h Handle) []byte {
	return mem[HeaderSize : HeaderSize+h.Bytes()]
}
